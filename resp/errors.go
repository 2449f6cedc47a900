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

import "github.com/pkg/errors"

// ProtocolError reports malformed framing, a violated codec bound, or
// unexpected EOF mid-frame. It is always fatal to the connection: the
// caller must stop the writer task and close the socket.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string {
	return "resp: protocol error: " + e.msg
}

func newProtocolError(format string, args ...any) error {
	return &ProtocolError{msg: errors.Errorf(format, args...).Error()}
}

// IsProtocolError reports whether err is (or wraps) a *ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// Limits bounds parser recursion and aggregate sizes so a malicious or
// buggy peer cannot exhaust memory with a single frame.
type Limits struct {
	MaxDepth          int
	MaxCollectionSize int
	MaxStringLength   int
}

// DefaultLimits matches the bounds spec.md §4.A requires.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:          1000,
		MaxCollectionSize: 1_000_000,
		MaxStringLength:   512 << 20,
	}
}
