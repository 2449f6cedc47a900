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
	"math"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Writer serializes Values onto an underlying byte sink, mirroring Parser.
// A Writer is not safe for concurrent use; each connection's writer
// goroutine owns exactly one.
type Writer struct {
	w byteSink
}

// byteSink is the minimal surface Writer needs; satisfied by *bufio.Writer
// and net.Conn alike.
type byteSink interface {
	Write(p []byte) (int, error)
}

// NewWriter wraps w for RESP serialization.
func NewWriter(w byteSink) *Writer {
	return &Writer{w: w}
}

// WriteValue serializes v and writes it to the underlying sink in a single
// call, using a pooled buffer to avoid per-frame allocation. NoResponse is
// silently dropped: callers (the per-connection writer task) must already
// skip it before reaching here, but Writer tolerates it defensively.
func (w *Writer) WriteValue(v Value) error {
	if v.Type == NoResponse {
		return nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := appendValue(buf, v); err != nil {
		return err
	}
	_, err := w.w.Write(buf.B)
	return err
}

func appendValue(buf *bytebufferpool.ByteBuffer, v Value) error {
	switch v.Type {
	case SimpleString:
		buf.WriteByte('+')
		buf.WriteString(v.Str)
		buf.WriteString("\r\n")
	case SimpleError:
		buf.WriteByte('-')
		buf.WriteString(v.Str)
		buf.WriteString("\r\n")
	case Integer:
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(v.Int, 10))
		buf.WriteString("\r\n")
	case BulkString:
		writeLengthPrefixed(buf, '$', v.Bytes)
	case BulkError:
		writeLengthPrefixed(buf, '!', v.Bytes)
	case VerbatimString:
		if len(v.Format) != 3 {
			return newProtocolError("verbatim string format %q must be 3 characters", v.Format)
		}
		body := append([]byte(v.Format+":"), v.Bytes...)
		writeLengthPrefixed(buf, '=', body)
	case Bool:
		buf.WriteByte('#')
		if v.Bool {
			buf.WriteByte('t')
		} else {
			buf.WriteByte('f')
		}
		buf.WriteString("\r\n")
	case Double:
		if math.IsNaN(v.Double) || math.IsInf(v.Double, 0) {
			return newProtocolError("double value must be finite")
		}
		buf.WriteByte(',')
		buf.WriteString(strconv.FormatFloat(v.Double, 'g', -1, 64))
		buf.WriteString("\r\n")
	case BigNumber:
		buf.WriteByte('(')
		buf.WriteString(v.Str)
		buf.WriteString("\r\n")
	case Null:
		// Legacy RESP2 encoding, not "_\r\n", to retain client compatibility.
		buf.WriteString("$-1\r\n")
	case NullArray:
		buf.WriteString("*-1\r\n")
	case Array:
		return appendAggregate(buf, '*', v.Items)
	case Set:
		return appendAggregate(buf, '~', v.Items)
	case Push:
		return appendAggregate(buf, '>', v.Items)
	case Map:
		return appendPairs(buf, '%', v.Pairs)
	case Attributes:
		return appendPairs(buf, '|', v.Pairs)
	case NoResponse:
		return newProtocolError("NoResponse value cannot be nested inside an aggregate reply")
	default:
		return newProtocolError("unknown value type %v", v.Type)
	}
	return nil
}

func writeLengthPrefixed(buf *bytebufferpool.ByteBuffer, marker byte, body []byte) {
	buf.WriteByte(marker)
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\n")
	buf.Write(body)
	buf.WriteString("\r\n")
}

func appendAggregate(buf *bytebufferpool.ByteBuffer, marker byte, items []Value) error {
	buf.WriteByte(marker)
	buf.WriteString(strconv.Itoa(len(items)))
	buf.WriteString("\r\n")
	for _, item := range items {
		if err := appendValue(buf, item); err != nil {
			return err
		}
	}
	return nil
}

func appendPairs(buf *bytebufferpool.ByteBuffer, marker byte, pairs []Pair) error {
	buf.WriteByte(marker)
	buf.WriteString(strconv.Itoa(len(pairs)))
	buf.WriteString("\r\n")
	for _, pair := range pairs {
		if err := appendValue(buf, pair.Key); err != nil {
			return err
		}
		if err := appendValue(buf, pair.Val); err != nil {
			return err
		}
	}
	return nil
}
