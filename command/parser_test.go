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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvproto/redisd/resp"
)

func bulkArray(parts ...string) resp.Value {
	items := make([]resp.Value, len(parts))
	for i, p := range parts {
		items[i] = resp.NewBulkStringFromString(p)
	}
	return resp.NewArray(items...)
}

func TestParsePing(t *testing.T) {
	cmd, err := Parse(bulkArray("PING"))
	require.Nil(t, err)
	assert.Equal(t, Ping{}, cmd)

	cmd, err = Parse(bulkArray("ping", "hello"))
	require.Nil(t, err)
	assert.Equal(t, Ping{Message: []byte("hello"), HasMessage: true}, cmd)
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse(bulkArray("NOPE"))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestParseGetWrongArity(t *testing.T) {
	_, err := Parse(bulkArray("GET"))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "wrong number of arguments")
}

func TestParseSetWithPX(t *testing.T) {
	cmd, err := Parse(bulkArray("SET", "k", "v", "PX", "100"))
	require.Nil(t, err)
	assert.Equal(t, Set{Key: "k", Value: []byte("v"), HasExpiry: true, ExpiryMs: 100}, cmd)
}

func TestParseSetRejectsBadOption(t *testing.T) {
	_, err := Parse(bulkArray("SET", "k", "v", "EX", "100"))
	require.NotNil(t, err)
}

func TestParseSetWithoutExpiry(t *testing.T) {
	cmd, err := Parse(bulkArray("SET", "k", "v"))
	require.Nil(t, err)
	assert.Equal(t, Set{Key: "k", Value: []byte("v")}, cmd)
}

func TestParseRPushMultipleValues(t *testing.T) {
	cmd, err := Parse(bulkArray("RPUSH", "L", "a", "b", "c"))
	require.Nil(t, err)
	push, ok := cmd.(RPush)
	require.True(t, ok)
	assert.Equal(t, "L", push.Key)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, push.Values)
}

func TestParsePopWithCount(t *testing.T) {
	cmd, err := Parse(bulkArray("LPOP", "L", "2"))
	require.Nil(t, err)
	assert.Equal(t, LPop{Key: "L", Count: 2, HasCount: true}, cmd)
}

func TestParseBLPop(t *testing.T) {
	cmd, err := Parse(bulkArray("BLPOP", "L", "0"))
	require.Nil(t, err)
	assert.Equal(t, BLPop{Key: "L", TimeoutSec: 0}, cmd)
}

func TestParseXAddSinglePair(t *testing.T) {
	cmd, err := Parse(bulkArray("XADD", "s", "0-0", "f", "v"))
	require.Nil(t, err)
	add, ok := cmd.(XAdd)
	require.True(t, ok)
	assert.Equal(t, "s", add.Key)
	assert.Equal(t, "0-0", add.IDSpec)
	require.Len(t, add.Fields, 1)
	assert.Equal(t, []byte("f"), add.Fields[0].Name)
	assert.Equal(t, []byte("v"), add.Fields[0].Value)
}

func TestParseXAddRejectsEvenTokenCount(t *testing.T) {
	_, err := Parse(bulkArray("XADD", "s", "0-0", "f"))
	require.NotNil(t, err)
}

func TestParseXAddMultiplePairs(t *testing.T) {
	cmd, err := Parse(bulkArray("XADD", "s", "*", "f1", "v1", "f2", "v2"))
	require.Nil(t, err)
	add, ok := cmd.(XAdd)
	require.True(t, ok)
	assert.Equal(t, "s", add.Key)
	assert.Equal(t, "*", add.IDSpec)
	require.Len(t, add.Fields, 2)
	assert.Equal(t, []byte("f1"), add.Fields[0].Name)
	assert.Equal(t, []byte("v2"), add.Fields[1].Value)
}

func TestParseXReadWithBlockAndStreams(t *testing.T) {
	cmd, err := Parse(bulkArray("XREAD", "BLOCK", "200", "STREAMS", "s", "$"))
	require.Nil(t, err)
	assert.Equal(t, XRead{
		Keys:     []string{"s"},
		IDSpecs:  []string{"$"},
		HasBlock: true,
		BlockMs:  200,
	}, cmd)
}

func TestParseXReadMultipleKeys(t *testing.T) {
	cmd, err := Parse(bulkArray("XREAD", "STREAMS", "s1", "s2", "0-0", "0-0"))
	require.Nil(t, err)
	read, ok := cmd.(XRead)
	require.True(t, ok)
	assert.Equal(t, []string{"s1", "s2"}, read.Keys)
	assert.Equal(t, []string{"0-0", "0-0"}, read.IDSpecs)
}

func TestParseXReadMissingStreamsKeyword(t *testing.T) {
	_, err := Parse(bulkArray("XREAD", "s", "0-0"))
	require.NotNil(t, err)
}

func TestParseClientSubcommands(t *testing.T) {
	cmd, err := Parse(bulkArray("CLIENT", "GETNAME"))
	require.Nil(t, err)
	assert.Equal(t, ClientGetName{}, cmd)

	cmd, err = Parse(bulkArray("CLIENT", "SETNAME", "me"))
	require.Nil(t, err)
	assert.Equal(t, ClientSetName{Name: "me"}, cmd)
}

func TestParseCommandCount(t *testing.T) {
	cmd, err := Parse(bulkArray("COMMAND", "COUNT"))
	require.Nil(t, err)
	assert.Equal(t, CommandCount{}, cmd)
}

func TestParseRejectsNonArrayFrame(t *testing.T) {
	_, err := Parse(resp.NewSimpleString("PING"))
	require.NotNil(t, err)
}
