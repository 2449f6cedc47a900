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
	"fmt"

	"github.com/kvproto/redisd/resp"
)

// ParseError reports a well-formed RESP array that is not a valid command:
// an unknown name, wrong arity, or a malformed argument. It carries the
// exact RESP error text the client should see.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

// Reply renders the parse error as the RESP SimpleError the originating
// connection receives.
func (e *ParseError) Reply() resp.Value {
	return resp.NewSimpleError(e.msg)
}

func newParseError(format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

func wrongArity(name string) *ParseError {
	return newParseError("ERR wrong number of arguments for '%s' command", name)
}

// Typed RESP errors returned directly by the executor (never Go errors):
// see spec.md §7. These are plain constructors so every handler produces
// identically worded replies.

func wrongTypeError() resp.Value {
	return resp.NewSimpleError("WRONGTYPE Operation against a key holding the wrong kind of value")
}

func argError(msg string) resp.Value {
	return resp.NewSimpleError("ERR " + msg)
}

func stateError(msg string) resp.Value {
	return resp.NewSimpleError("ERR " + msg)
}

func notIntegerError() resp.Value {
	return resp.NewSimpleError("ERR value is not an integer or out of range")
}
