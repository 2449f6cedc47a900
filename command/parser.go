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

	"github.com/spf13/cast"

	"github.com/kvproto/redisd/resp"
	"github.com/kvproto/redisd/stream"
)

// Parse turns one RESP frame into a typed Command. The frame must be a
// RespArray whose head is a BulkString command name; leniently, any array
// whose head is a scalar carrying bytes is accepted the same way.
func Parse(frame resp.Value) (Command, *ParseError) {
	if frame.Type != resp.Array || len(frame.Items) == 0 {
		return nil, newParseError("ERR invalid command: expected a non-empty array")
	}

	args, err := toByteArgs(frame.Items)
	if err != nil {
		return nil, err
	}

	name := strings.ToUpper(string(args[0]))
	rest := args[1:]

	switch name {
	case "PING":
		return parsePing(rest)
	case "ECHO":
		return parseEcho(rest)
	case "GET":
		return parseGet(rest)
	case "SET":
		return parseSet(rest)
	case "INCR":
		return parseIncr(rest)
	case "TYPE":
		return parseType(rest)
	case "DBSIZE":
		if len(rest) != 0 {
			return nil, wrongArity("dbsize")
		}
		return DBSize{}, nil
	case "RPUSH":
		return parsePush(rest, "rpush")
	case "LPUSH":
		return parsePush(rest, "lpush")
	case "RPOP":
		return parsePop(rest, "rpop")
	case "LPOP":
		return parsePop(rest, "lpop")
	case "BLPOP":
		return parseBLPop(rest)
	case "LLEN":
		if len(rest) != 1 {
			return nil, wrongArity("llen")
		}
		return LLen{Key: string(rest[0])}, nil
	case "LRANGE":
		return parseLRange(rest)
	case "XADD":
		return parseXAdd(args)
	case "XRANGE":
		return parseXRange(rest)
	case "XREAD":
		return parseXRead(rest)
	case "MULTI":
		if len(rest) != 0 {
			return nil, wrongArity("multi")
		}
		return Multi{}, nil
	case "EXEC":
		if len(rest) != 0 {
			return nil, wrongArity("exec")
		}
		return Exec{}, nil
	case "DISCARD":
		if len(rest) != 0 {
			return nil, wrongArity("discard")
		}
		return Discard{}, nil
	case "SUBSCRIBE":
		if len(rest) != 1 {
			return nil, wrongArity("subscribe")
		}
		return Subscribe{Channel: string(rest[0])}, nil
	case "UNSUBSCRIBE":
		if len(rest) != 1 {
			return nil, wrongArity("unsubscribe")
		}
		return Unsubscribe{Channel: string(rest[0])}, nil
	case "PUBLISH":
		if len(rest) != 2 {
			return nil, wrongArity("publish")
		}
		return Publish{Channel: string(rest[0]), Message: rest[1]}, nil
	case "CLIENT":
		return parseClient(rest)
	case "COMMAND":
		return parseCommand(rest)
	default:
		return nil, newParseError("ERR unknown command '%s'", name)
	}
}

func toByteArgs(items []resp.Value) ([][]byte, *ParseError) {
	out := make([][]byte, len(items))
	for i, v := range items {
		switch v.Type {
		case resp.BulkString, resp.BulkError:
			out[i] = v.Bytes
		case resp.SimpleString, resp.SimpleError:
			out[i] = []byte(v.Str)
		default:
			return nil, newParseError("ERR protocol error: expected a bulk string argument")
		}
	}
	return out, nil
}

func parsePing(rest [][]byte) (Command, *ParseError) {
	switch len(rest) {
	case 0:
		return Ping{}, nil
	case 1:
		return Ping{Message: rest[0], HasMessage: true}, nil
	default:
		return nil, wrongArity("ping")
	}
}

func parseEcho(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 1 {
		return nil, wrongArity("echo")
	}
	return Echo{Message: rest[0]}, nil
}

func parseGet(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 1 {
		return nil, wrongArity("get")
	}
	return Get{Key: string(rest[0])}, nil
}

func parseSet(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 2 && len(rest) != 4 {
		return nil, wrongArity("set")
	}
	cmd := Set{Key: string(rest[0]), Value: rest[1]}
	if len(rest) == 4 {
		if !strings.EqualFold(string(rest[2]), "PX") {
			return nil, newParseError("ERR syntax error")
		}
		ms, err := cast.ToInt64E(string(rest[3]))
		if err != nil {
			return nil, newParseError("ERR value is not an integer or out of range")
		}
		cmd.HasExpiry = true
		cmd.ExpiryMs = ms
	}
	return cmd, nil
}

func parseIncr(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 1 {
		return nil, wrongArity("incr")
	}
	return Incr{Key: string(rest[0])}, nil
}

func parseType(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 1 {
		return nil, wrongArity("type")
	}
	return TypeCmd{Key: string(rest[0])}, nil
}

func parsePush(rest [][]byte, name string) (Command, *ParseError) {
	if len(rest) < 2 {
		return nil, wrongArity(name)
	}
	values := make([][]byte, len(rest)-1)
	copy(values, rest[1:])
	if name == "rpush" {
		return RPush{Key: string(rest[0]), Values: values}, nil
	}
	return LPush{Key: string(rest[0]), Values: values}, nil
}

func parsePop(rest [][]byte, name string) (Command, *ParseError) {
	if len(rest) != 1 && len(rest) != 2 {
		return nil, wrongArity(name)
	}
	key := string(rest[0])
	hasCount := len(rest) == 2
	count := 1
	if hasCount {
		n, err := cast.ToIntE(string(rest[1]))
		if err != nil {
			return nil, newParseError("ERR value is not an integer or out of range")
		}
		count = n
	}
	if name == "rpop" {
		return RPop{Key: key, Count: count, HasCount: hasCount}, nil
	}
	return LPop{Key: key, Count: count, HasCount: hasCount}, nil
}

func parseBLPop(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 2 {
		return nil, wrongArity("blpop")
	}
	timeout, err := cast.ToFloat64E(string(rest[1]))
	if err != nil {
		return nil, newParseError("ERR timeout is not a float or out of range")
	}
	return BLPop{Key: string(rest[0]), TimeoutSec: timeout}, nil
}

func parseLRange(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 3 {
		return nil, wrongArity("lrange")
	}
	start, err := cast.ToInt64E(string(rest[1]))
	if err != nil {
		return nil, newParseError("ERR value is not an integer or out of range")
	}
	end, err := cast.ToInt64E(string(rest[2]))
	if err != nil {
		return nil, newParseError("ERR value is not an integer or out of range")
	}
	return LRange{Key: string(rest[0]), Start: start, End: end}, nil
}

// parseXAdd takes the full token list (including the command name) because
// arity is defined in terms of total token count (spec.md §4.F: "an odd
// total length >= 5").
func parseXAdd(args [][]byte) (Command, *ParseError) {
	if len(args) < 5 || len(args)%2 == 0 {
		return nil, wrongArity("xadd")
	}
	key := string(args[1])
	idSpec := string(args[2])
	rest := args[3:]

	fields := make([]stream.Field, 0, len(rest)/2)
	for i := 0; i+1 < len(rest); i += 2 {
		fields = append(fields, stream.Field{Name: rest[i], Value: rest[i+1]})
	}
	return XAdd{Key: key, IDSpec: idSpec, Fields: fields}, nil
}

func parseXRange(rest [][]byte) (Command, *ParseError) {
	if len(rest) != 3 {
		return nil, wrongArity("xrange")
	}
	return XRange{Key: string(rest[0]), Start: string(rest[1]), End: string(rest[2])}, nil
}

func parseXRead(rest [][]byte) (Command, *ParseError) {
	idx := 0
	var hasBlock bool
	var blockMs int64

	if len(rest) > 0 && strings.EqualFold(string(rest[0]), "BLOCK") {
		if len(rest) < 2 {
			return nil, wrongArity("xread")
		}
		ms, err := cast.ToInt64E(string(rest[1]))
		if err != nil {
			return nil, newParseError("ERR timeout is not an integer or out of range")
		}
		hasBlock = true
		blockMs = ms
		idx = 2
	}

	if idx >= len(rest) || !strings.EqualFold(string(rest[idx]), "STREAMS") {
		return nil, newParseError("ERR syntax error")
	}
	idx++

	remaining := rest[idx:]
	if len(remaining) == 0 || len(remaining)%2 != 0 {
		return nil, wrongArity("xread")
	}
	half := len(remaining) / 2
	keys := make([]string, half)
	ids := make([]string, half)
	for i := 0; i < half; i++ {
		keys[i] = string(remaining[i])
		ids[i] = string(remaining[half+i])
	}
	return XRead{Keys: keys, IDSpecs: ids, HasBlock: hasBlock, BlockMs: blockMs}, nil
}

func parseClient(rest [][]byte) (Command, *ParseError) {
	if len(rest) == 0 {
		return nil, wrongArity("client")
	}
	sub := strings.ToUpper(string(rest[0]))
	switch sub {
	case "GETNAME":
		if len(rest) != 1 {
			return nil, wrongArity("client|getname")
		}
		return ClientGetName{}, nil
	case "SETNAME":
		if len(rest) != 2 {
			return nil, wrongArity("client|setname")
		}
		return ClientSetName{Name: string(rest[1])}, nil
	default:
		return nil, newParseError("ERR unknown subcommand '%s' for 'client'", sub)
	}
}

func parseCommand(rest [][]byte) (Command, *ParseError) {
	if len(rest) == 1 && strings.EqualFold(string(rest[0]), "COUNT") {
		return CommandCount{}, nil
	}
	return nil, newParseError("ERR unknown subcommand for 'command'")
}
