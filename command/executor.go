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
	"strings"

	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/internal/rescue"
	"github.com/kvproto/redisd/resp"
)

// Execute applies the two connection-state guards from spec.md §4.G ahead
// of dispatch, then runs the command. A handler panic becomes a generic
// "ERR internal" reply instead of taking down the executor goroutine that
// serializes every command in the server.
func Execute(cmd Command, ctx *ExecutionContext) resp.Value {
	if ctx.Conn.State == conn.Subscribed && !AllowedWhileSubscribed(cmd.CommandName()) {
		return argError("Can't execute '" + strings.ToLower(cmd.CommandName()) +
			"': only (P|S)SUBSCRIBE / (P|S)UNSUBSCRIBE / PING are allowed in this context")
	}

	if ctx.Conn.State == conn.Multi {
		switch cmd.(type) {
		case Multi, Exec, Discard:
			// handled below, never queued
		default:
			ctx.Conn.CommandQueue = append(ctx.Conn.CommandQueue, cmd)
			return resp.NewSimpleString("QUEUED")
		}
	}

	return guardedDispatch(cmd, ctx)
}

func guardedDispatch(cmd Command, ctx *ExecutionContext) resp.Value {
	var reply resp.Value
	if recovered := rescue.Guard(func() {
		reply = dispatch(cmd, ctx)
	}); recovered {
		return resp.NewSimpleError("ERR internal")
	}
	return reply
}

// dispatch is the single type switch mapping every parsed command to its
// handler. EXEC calls back into it directly (bypassing Execute's guards,
// since a queued command was already past them once) for each queued
// command.
func dispatch(cmd Command, ctx *ExecutionContext) resp.Value {
	switch c := cmd.(type) {
	case Ping:
		return execPing(c, ctx)
	case Echo:
		return execEcho(c, ctx)
	case Get:
		return execGet(c, ctx)
	case Set:
		return execSet(c, ctx)
	case Incr:
		return execIncr(c, ctx)
	case TypeCmd:
		return execType(c, ctx)
	case DBSize:
		return execDBSize(c, ctx)
	case RPush:
		return execRPush(c, ctx)
	case LPush:
		return execLPush(c, ctx)
	case RPop:
		return execRPop(c, ctx)
	case LPop:
		return execLPop(c, ctx)
	case BLPop:
		return execBLPop(c, ctx)
	case LLen:
		return execLLen(c, ctx)
	case LRange:
		return execLRange(c, ctx)
	case XAdd:
		return execXAdd(c, ctx)
	case XRange:
		return execXRange(c, ctx)
	case XRead:
		return execXRead(c, ctx)
	case Multi:
		return execMulti(c, ctx)
	case Exec:
		return execExec(c, ctx)
	case Discard:
		return execDiscard(c, ctx)
	case Subscribe:
		return execSubscribe(c, ctx)
	case Unsubscribe:
		return execUnsubscribe(c, ctx)
	case Publish:
		return execPublish(c, ctx)
	case ClientGetName:
		return execClientGetName(c, ctx)
	case ClientSetName:
		return execClientSetName(c, ctx)
	case CommandCount:
		return execCommandCount(c, ctx)
	default:
		return resp.NewSimpleError("ERR internal")
	}
}
