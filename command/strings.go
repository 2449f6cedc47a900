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
	"strconv"

	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/resp"
	"github.com/kvproto/redisd/store"
)

func execPing(c Ping, ctx *ExecutionContext) resp.Value {
	if ctx.Conn.State == conn.Subscribed {
		msg := ""
		if c.HasMessage {
			msg = string(c.Message)
		}
		return resp.NewArray(resp.NewBulkStringFromString("pong"), resp.NewBulkStringFromString(msg))
	}
	if c.HasMessage {
		return resp.NewBulkString(c.Message)
	}
	return resp.NewSimpleString("PONG")
}

func execEcho(c Echo, _ *ExecutionContext) resp.Value {
	return resp.NewBulkString(c.Message)
}

// execGet stringifies numbers and booleans, passes BulkString/SimpleString
// through untouched, and rejects structured values per spec.md §4.G.
func execGet(c Get, ctx *ExecutionContext) resp.Value {
	if ctx.Streams.Exists(c.Key) {
		return wrongTypeError()
	}
	v, ok := ctx.Store.Lookup(c.Key)
	if !ok {
		return resp.NullValue
	}
	switch v.Type {
	case resp.BulkString:
		return v
	case resp.SimpleString:
		return resp.NewBulkStringFromString(v.Str)
	case resp.Integer:
		return resp.NewBulkStringFromString(strconv.FormatInt(v.Int, 10))
	case resp.Bool:
		return resp.NewBulkStringFromString(strconv.FormatBool(v.Bool))
	default:
		return wrongTypeError()
	}
}

func execSet(c Set, ctx *ExecutionContext) resp.Value {
	ctx.Store.Set(c.Key, resp.NewBulkString(c.Value), store.SetParams{
		HasExpiry: c.HasExpiry,
		ExpiryMs:  c.ExpiryMs,
	})
	return resp.NewSimpleString("OK")
}

// execIncr stores the result as an Integer regardless of the prior
// representation. TYPE still reports "string" for such a key, since it
// maps every non-aggregate value to "string".
func execIncr(c Incr, ctx *ExecutionContext) resp.Value {
	v, ok := ctx.Store.Lookup(c.Key)
	if !ok {
		ctx.Store.Set(c.Key, resp.NewInteger(1), store.SetParams{})
		return resp.NewInteger(1)
	}

	var n int64
	switch v.Type {
	case resp.Integer:
		n = v.Int + 1
	case resp.BulkString:
		parsed, err := strconv.ParseInt(string(v.Bytes), 10, 64)
		if err != nil {
			return notIntegerError()
		}
		n = parsed + 1
	default:
		return notIntegerError()
	}

	ctx.Store.Set(c.Key, resp.NewInteger(n), store.SetParams{})
	return resp.NewInteger(n)
}

func execType(c TypeCmd, ctx *ExecutionContext) resp.Value {
	if ctx.Streams.Exists(c.Key) {
		return resp.NewSimpleString("stream")
	}
	v, ok := ctx.Store.Lookup(c.Key)
	if !ok {
		return resp.NewSimpleString("none")
	}
	switch v.Type {
	case resp.Array, resp.Push:
		return resp.NewSimpleString("array")
	case resp.Set:
		return resp.NewSimpleString("set")
	default:
		return resp.NewSimpleString("string")
	}
}

func execDBSize(_ DBSize, ctx *ExecutionContext) resp.Value {
	return resp.NewInteger(int64(ctx.Store.Len()))
}

func execClientGetName(_ ClientGetName, ctx *ExecutionContext) resp.Value {
	return resp.NewBulkStringFromString(ctx.Conn.Name)
}

func execClientSetName(c ClientSetName, ctx *ExecutionContext) resp.Value {
	ctx.Conn.Name = c.Name
	return resp.NewSimpleString("OK")
}

func execCommandCount(_ CommandCount, _ *ExecutionContext) resp.Value {
	return resp.NewInteger(int64(Count()))
}
