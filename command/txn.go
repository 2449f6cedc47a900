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
	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/resp"
)

func execMulti(_ Multi, ctx *ExecutionContext) resp.Value {
	if ctx.Conn.State == conn.Multi {
		return stateError("MULTI calls can not be nested")
	}
	ctx.Conn.State = conn.Multi
	ctx.Conn.CommandQueue = nil
	return resp.NewSimpleString("OK")
}

// execExec replays every queued command through dispatch directly (not
// Execute), since a queued command already passed the Multi-state guard
// once when it was enqueued. NoBlock forces BLPOP/XREAD to resolve
// immediately instead of registering a blocked-waiter record: real Redis
// never suspends a client mid-EXEC, and a NoResponse reply nested in this
// array would desync the client's RESP parser (the array header already
// promises len(queue) elements).
func execExec(_ Exec, ctx *ExecutionContext) resp.Value {
	if ctx.Conn.State != conn.Multi {
		return stateError("EXEC without MULTI")
	}

	queue := ctx.Conn.CommandQueue
	ctx.Conn.CommandQueue = nil
	ctx.Conn.State = conn.Standard

	ctx.NoBlock = true
	defer func() { ctx.NoBlock = false }()

	results := make([]resp.Value, 0, len(queue))
	for _, item := range queue {
		cmd, ok := item.(Command)
		if !ok {
			results = append(results, resp.NewSimpleError("ERR internal"))
			continue
		}
		results = append(results, guardedDispatch(cmd, ctx))
	}
	return resp.NewArray(results...)
}

func execDiscard(_ Discard, ctx *ExecutionContext) resp.Value {
	if ctx.Conn.State != conn.Multi {
		return stateError("DISCARD without MULTI")
	}
	ctx.Conn.CommandQueue = nil
	ctx.Conn.State = conn.Standard
	return resp.NewSimpleString("OK")
}
