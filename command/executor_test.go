// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvproto/redisd/blocked"
	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/pubsubreg"
	"github.com/kvproto/redisd/resp"
	"github.com/kvproto/redisd/store"
	"github.com/kvproto/redisd/stream"
)

func newTestContext(id string) *ExecutionContext {
	c := conn.New(id)
	return &ExecutionContext{
		Store:   store.New(),
		Streams: stream.NewRegistry(),
		Blocked: blocked.New(),
		PubSub:  pubsubreg.New(),
		Conns:   conn.NewRegistry(),
		Conn:    c,
	}
}

func TestExecutePingPong(t *testing.T) {
	ctx := newTestContext("c1")
	reply := Execute(Ping{}, ctx)
	assert.Equal(t, resp.NewSimpleString("PONG"), reply)
}

func TestExecuteSetAndGet(t *testing.T) {
	ctx := newTestContext("c1")
	reply := Execute(Set{Key: "k", Value: []byte("v")}, ctx)
	assert.Equal(t, resp.NewSimpleString("OK"), reply)

	reply = Execute(Get{Key: "k"}, ctx)
	assert.Equal(t, resp.NewBulkStringFromString("v"), reply)
}

func TestExecuteGetWrongType(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(RPush{Key: "L", Values: [][]byte{[]byte("x")}}, ctx)
	reply := Execute(Get{Key: "L"}, ctx)
	assert.True(t, reply.IsError())
}

func TestExecuteIncrStoresInteger(t *testing.T) {
	ctx := newTestContext("c1")
	reply := Execute(Incr{Key: "n"}, ctx)
	assert.Equal(t, resp.NewInteger(1), reply)

	reply = Execute(Incr{Key: "n"}, ctx)
	assert.Equal(t, resp.NewInteger(2), reply)

	assert.Equal(t, resp.Integer, ctx.Store.Get("n").Type)
}

func TestExecuteIncrNotAnInteger(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(Set{Key: "s", Value: []byte("abc")}, ctx)
	reply := Execute(Incr{Key: "s"}, ctx)
	assert.True(t, reply.IsError())
}

func TestScenarioSetPXExpiry(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(Set{Key: "k", Value: []byte("v"), HasExpiry: true, ExpiryMs: 10}, ctx)
	reply := Execute(Get{Key: "k"}, ctx)
	assert.Equal(t, resp.NewBulkStringFromString("v"), reply)

	time.Sleep(20 * time.Millisecond)
	reply = Execute(Get{Key: "k"}, ctx)
	assert.Equal(t, resp.NullValue, reply)
}

func TestExecuteRPushLPushLRange(t *testing.T) {
	ctx := newTestContext("c1")
	reply := Execute(RPush{Key: "L", Values: [][]byte{[]byte("a"), []byte("b")}}, ctx)
	assert.Equal(t, resp.NewInteger(2), reply)

	reply = Execute(LPush{Key: "L", Values: [][]byte{[]byte("x"), []byte("y")}}, ctx)
	assert.Equal(t, resp.NewInteger(4), reply)

	reply = Execute(LRange{Key: "L", Start: 0, End: -1}, ctx)
	assert.Equal(t, resp.NewArray(
		resp.NewBulkStringFromString("x"),
		resp.NewBulkStringFromString("y"),
		resp.NewBulkStringFromString("a"),
		resp.NewBulkStringFromString("b"),
	), reply)
}

func TestExecutePopCountBeyondSizeReturnsNull(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(RPush{Key: "L", Values: [][]byte{[]byte("a")}}, ctx)
	reply := Execute(RPop{Key: "L", Count: 5, HasCount: true}, ctx)
	assert.Equal(t, resp.NullValue, reply)
}

func TestExecuteBLPopImmediatePop(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(RPush{Key: "L", Values: [][]byte{[]byte("x")}}, ctx)
	reply := Execute(BLPop{Key: "L", TimeoutSec: 0}, ctx)
	assert.Equal(t, resp.NewArray(resp.NewBulkStringFromString("L"), resp.NewBulkStringFromString("x")), reply)
}

// TestScenarioBlockingWakeup mirrors spec.md's literal BLPOP/RPUSH scenario:
// connection A blocks on an empty list, connection B pushes one element,
// and A's outbound queue receives [key, element] while B receives the new
// length.
func TestScenarioBlockingWakeup(t *testing.T) {
	ctxA := newTestContext("A")
	registry := conn.NewRegistry()
	st := store.New()
	blockedReg := blocked.New()

	ctxA.Conns = registry
	ctxA.Store = st
	ctxA.Blocked = blockedReg
	registry.Add(ctxA.Conn)

	reply := Execute(BLPop{Key: "L", TimeoutSec: 0}, ctxA)
	assert.Equal(t, resp.NoResponseValue, reply)

	ctxB := newTestContext("B")
	ctxB.Conns = registry
	ctxB.Store = st
	ctxB.Blocked = blockedReg
	registry.Add(ctxB.Conn)

	reply = Execute(RPush{Key: "L", Values: [][]byte{[]byte("x")}}, ctxB)
	assert.Equal(t, resp.NewInteger(1), reply)

	select {
	case v := <-ctxA.Conn.Outbound:
		assert.Equal(t, resp.NewArray(resp.NewBulkStringFromString("L"), resp.NewBulkStringFromString("x")), v)
	default:
		t.Fatal("expected connection A to receive a wakeup delivery")
	}
}

func TestScenarioXAddZeroIDAndMonotonicity(t *testing.T) {
	ctx := newTestContext("c1")

	reply := Execute(XAdd{Key: "s", IDSpec: "0-0", Fields: []stream.Field{{Name: []byte("f"), Value: []byte("v")}}}, ctx)
	require.True(t, reply.IsError())
	assert.Contains(t, reply.Str, "greater than 0-0")

	reply = Execute(XAdd{Key: "s", IDSpec: "1-1", Fields: []stream.Field{{Name: []byte("f"), Value: []byte("v")}}}, ctx)
	assert.Equal(t, resp.NewBulkStringFromString("1-1"), reply)

	reply = Execute(XAdd{Key: "s", IDSpec: "1-1", Fields: []stream.Field{{Name: []byte("f"), Value: []byte("v")}}}, ctx)
	require.True(t, reply.IsError())
	assert.Contains(t, reply.Str, "equal or smaller")
}

func TestScenarioMultiExecReplaysQueue(t *testing.T) {
	ctx := newTestContext("c1")

	assert.Equal(t, resp.NewSimpleString("OK"), Execute(Multi{}, ctx))
	assert.Equal(t, resp.NewSimpleString("QUEUED"), Execute(Set{Key: "a", Value: []byte("1")}, ctx))
	assert.Equal(t, resp.NewSimpleString("QUEUED"), Execute(Incr{Key: "a"}, ctx))

	reply := Execute(Exec{}, ctx)
	assert.Equal(t, resp.NewArray(resp.NewSimpleString("OK"), resp.NewInteger(2)), reply)
	assert.Equal(t, conn.Standard, ctx.Conn.State)
}

// TestExecExecNeverBlocks ensures a queued BLPOP/XREAD against an empty
// key resolves immediately to NullArray inside EXEC's reply array instead
// of registering a blocked-waiter record: real Redis never suspends a
// client mid-transaction, and a NoResponse element nested in the array
// would desync the client's RESP parser (the array header already
// promises len(queue) elements).
func TestExecExecNeverBlocks(t *testing.T) {
	ctx := newTestContext("c1")

	Execute(Multi{}, ctx)
	Execute(BLPop{Key: "missing", TimeoutSec: 0}, ctx)
	Execute(XRead{Keys: []string{"s"}, IDSpecs: []string{"$"}, HasBlock: true, BlockMs: 100}, ctx)

	reply := Execute(Exec{}, ctx)
	assert.Equal(t, resp.NewArray(resp.NullArrayValue, resp.NullArrayValue), reply)

	_, hasWaiter := ctx.Blocked.EarliestTimeout()
	assert.False(t, hasWaiter, "EXEC must not leave a blocked-waiter registration behind")
}

func TestExecDiscardClearsQueue(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(Multi{}, ctx)
	Execute(Set{Key: "a", Value: []byte("1")}, ctx)
	reply := Execute(Discard{}, ctx)
	assert.Equal(t, resp.NewSimpleString("OK"), reply)
	assert.Empty(t, ctx.Conn.CommandQueue)
	assert.Equal(t, conn.Standard, ctx.Conn.State)
}

func TestExecExecWithoutMultiErrors(t *testing.T) {
	ctx := newTestContext("c1")
	reply := Execute(Exec{}, ctx)
	assert.True(t, reply.IsError())
}

func TestSubscribedStateRejectsOrdinaryCommands(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(Subscribe{Channel: "ch"}, ctx)
	assert.Equal(t, conn.Subscribed, ctx.Conn.State)

	reply := Execute(Get{Key: "k"}, ctx)
	assert.True(t, reply.IsError())
}

func TestSubscribedStateAllowsPingAndUnsubscribe(t *testing.T) {
	ctx := newTestContext("c1")
	Execute(Subscribe{Channel: "ch"}, ctx)

	reply := Execute(Ping{}, ctx)
	assert.Equal(t, resp.NewArray(resp.NewBulkStringFromString("pong"), resp.NewBulkStringFromString("")), reply)

	reply = Execute(Unsubscribe{Channel: "ch"}, ctx)
	assert.Equal(t, resp.NewArray(
		resp.NewBulkStringFromString("unsubscribe"),
		resp.NewBulkStringFromString("ch"),
		resp.NewInteger(0),
	), reply)
	assert.Equal(t, conn.Standard, ctx.Conn.State)
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	registry := conn.NewRegistry()
	ps := pubsubreg.New()

	ctxSub := newTestContext("sub")
	ctxSub.Conns = registry
	ctxSub.PubSub = ps
	registry.Add(ctxSub.Conn)
	Execute(Subscribe{Channel: "ch"}, ctxSub)

	ctxPub := newTestContext("pub")
	ctxPub.Conns = registry
	ctxPub.PubSub = ps

	reply := Execute(Publish{Channel: "ch", Message: []byte("hi")}, ctxPub)
	assert.Equal(t, resp.NewInteger(1), reply)

	select {
	case v := <-ctxSub.Conn.Outbound:
		assert.Equal(t, resp.NewArray(
			resp.NewBulkStringFromString("message"),
			resp.NewBulkStringFromString("ch"),
			resp.NewBulkStringFromString("hi"),
		), v)
	default:
		t.Fatal("expected subscriber to receive the published message")
	}
}

// TestPanicIsConvertedToInternalError forces a nil-pointer panic inside a
// handler (a nil *store.Store) to exercise the rescue.Guard wrapping in
// guardedDispatch.
func TestPanicIsConvertedToInternalError(t *testing.T) {
	ctx := newTestContext("c1")
	ctx.Store = nil
	reply := Execute(Get{Key: "k"}, ctx)
	assert.Equal(t, resp.NewSimpleError("ERR internal"), reply)
}
