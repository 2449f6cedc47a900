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

// Package conn holds the per-connection state machine: which of
// Standard/Multi/Subscribed a client is in, its queued MULTI commands, its
// pub/sub subscriptions, and the outbound reply queue its writer goroutine
// drains. It deliberately knows nothing about command.Command — queued
// commands are carried as opaque values so package command (which needs a
// *Connection in its ExecutionContext) can depend on conn without a cycle.
package conn

import (
	"sync"

	"github.com/kvproto/redisd/internal/tracekit"
	"github.com/kvproto/redisd/resp"
)

// State is the connection's position in the Standard/Multi/Subscribed FSM
// from spec.md §4.E.
type State int

const (
	Standard State = iota
	Multi
	Subscribed
)

// outboundCapacity bounds each connection's outbound queue from above, per
// spec.md §4's "bounded-from-above ordered queue of RespValue". It is sized
// generously enough that the executor's sends practically never block on a
// slow reader; a production build would back this with a growable ring
// buffer instead of a fixed channel.
const outboundCapacity = 4096

// Connection is the per-client record created on accept and destroyed on
// close.
type Connection struct {
	ID string
	// TraceID correlates every log line touching this connection across
	// its reader, writer, and executor-side command dispatches.
	TraceID string
	State   State

	// CommandQueue holds command.Command values queued while in Multi
	// state, stored as `any` to avoid an import cycle with package
	// command. EXEC type-asserts each element back to command.Command.
	CommandQueue []any

	// Channels is this connection's own view of its subscriptions, used to
	// precisely unwind the shared pub/sub registry on disconnect and to
	// compute subCount.
	Channels map[string]struct{}

	Name string

	Outbound  chan resp.Value
	closeOnce sync.Once
}

// New creates a connection record in Standard state with an empty
// outbound queue.
func New(id string) *Connection {
	return &Connection{
		ID:       id,
		TraceID:  tracekit.Hex(tracekit.RandomTraceID()),
		State:    Standard,
		Channels: make(map[string]struct{}),
		Outbound: make(chan resp.Value, outboundCapacity),
	}
}

// SubCount reports how many channels this connection currently subscribes
// to.
func (c *Connection) SubCount() int {
	return len(c.Channels)
}

// Subscribe records channel as subscribed and reports whether it was new.
func (c *Connection) Subscribe(channel string) (isNew bool) {
	if _, ok := c.Channels[channel]; ok {
		return false
	}
	c.Channels[channel] = struct{}{}
	return true
}

// Unsubscribe drops channel and reports whether it had been subscribed.
func (c *Connection) Unsubscribe(channel string) (wasSubscribed bool) {
	if _, ok := c.Channels[channel]; !ok {
		return false
	}
	delete(c.Channels, channel)
	return true
}

// ChannelNames returns a snapshot of this connection's subscribed channel
// names, used to unwind the shared pub/sub registry on disconnect.
func (c *Connection) ChannelNames() []string {
	names := make([]string, 0, len(c.Channels))
	for ch := range c.Channels {
		names = append(names, ch)
	}
	return names
}

// Enqueue pushes v onto the outbound queue for this connection's writer
// goroutine to drain. It blocks if the queue is saturated; callers other
// than the executor must not call this directly. A send arriving after
// Close is silently dropped: the connection is already being torn down
// and nothing is left to read the value.
func (c *Connection) Enqueue(v resp.Value) {
	defer func() { _ = recover() }()
	c.Outbound <- v
}

// Close signals the writer goroutine to stop once it has drained whatever
// is already queued. Idempotent: a connection can be closed from both its
// reader goroutine's teardown and an error path in its writer goroutine.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.Outbound) })
}
