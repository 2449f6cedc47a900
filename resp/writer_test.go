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

package resp

import (
	"bufio"
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOne(t *testing.T, v Value) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteValue(v))
	return buf.String()
}

func TestWriteScalars(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"simple string", NewSimpleString("PONG"), "+PONG\r\n"},
		{"simple error", NewSimpleError("ERR oops"), "-ERR oops\r\n"},
		{"integer", NewInteger(1000), ":1000\r\n"},
		{"bulk string", NewBulkStringFromString("foobar"), "$6\r\nfoobar\r\n"},
		{"null uses legacy bulk encoding", NullValue, "$-1\r\n"},
		{"null array", NullArrayValue, "*-1\r\n"},
		{"bool true", NewBool(true), "#t\r\n"},
		{"bool false", NewBool(false), "#f\r\n"},
		{"big number", NewBigNumber("12345"), "(12345\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, writeOne(t, tt.v))
		})
	}
}

func TestWriteArray(t *testing.T) {
	v := NewArray(NewBulkStringFromString("GET"), NewBulkStringFromString("key1"))
	assert.Equal(t, "*2\r\n$3\r\nGET\r\n$4\r\nkey1\r\n", writeOne(t, v))
}

func TestWriteNoResponseIsSilent(t *testing.T) {
	assert.Equal(t, "", writeOne(t, NoResponseValue))
}

func TestWriteRejectsNoResponseNestedInArray(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf).WriteValue(NewArray(NewInteger(1), NoResponseValue))
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestWriteRejectsNonFiniteDouble(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf).WriteValue(NewDouble(math.Inf(1)))
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestWriteRejectsBadVerbatimFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf).WriteValue(NewVerbatimString("toolong", []byte("x")))
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		NewSimpleString("OK"),
		NewInteger(42),
		NewBulkStringFromString("hello world"),
		NullValue,
		NullArrayValue,
		NewArray(NewInteger(1), NewInteger(2), NewBulkStringFromString("three")),
		NewBool(true),
		NewBigNumber("999999999999999999999999"),
		NewVerbatimString("txt", []byte("plain text")),
		NewMap(Pair{Key: NewBulkStringFromString("a"), Val: NewInteger(1)}),
		NewSet(NewInteger(1), NewInteger(2)),
		NewPush(NewBulkStringFromString("message")),
	}

	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf).WriteValue(v))

		p := NewParser(bufio.NewReader(strings.NewReader(buf.String())))
		got, err := p.Parse()
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "round trip mismatch: wrote %s, got %+v, want %+v", buf.String(), got, v)
	}
}
