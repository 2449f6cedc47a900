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

// Package resp implements the Redis Serialization Protocol (RESP2/RESP3):
// a recursive, depth- and size-bounded parser reading from a *bufio.Reader,
// and a mirror writer serializing typed values back onto the wire.
package resp

import "fmt"

// Type tags the concrete shape held by a Value.
type Type int

const (
	SimpleString Type = iota
	SimpleError
	Integer
	BulkString
	Array
	Bool
	Double
	BigNumber
	BulkError
	VerbatimString
	Map
	Attributes
	Set
	Push
	Null
	NullArray
	// NoResponse is a non-serializable sentinel: the executor suppressed a
	// reply because the client is now blocked. The writer task must ignore
	// it rather than attempt to encode it.
	NoResponse
)

func (t Type) String() string {
	switch t {
	case SimpleString:
		return "SimpleString"
	case SimpleError:
		return "SimpleError"
	case Integer:
		return "Integer"
	case BulkString:
		return "BulkString"
	case Array:
		return "Array"
	case Bool:
		return "Bool"
	case Double:
		return "Double"
	case BigNumber:
		return "BigNumber"
	case BulkError:
		return "BulkError"
	case VerbatimString:
		return "VerbatimString"
	case Map:
		return "Map"
	case Attributes:
		return "Attributes"
	case Set:
		return "Set"
	case Push:
		return "Push"
	case Null:
		return "Null"
	case NullArray:
		return "NullArray"
	case NoResponse:
		return "NoResponse"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Pair is a single Map/Attributes entry, kept in insertion order for wire
// encoding.
type Pair struct {
	Key Value
	Val Value
}

// Value is the tagged union shared by wire values and in-store values: the
// same type represents what a command reads back from the store and what
// gets serialized to a client socket. Only the fields relevant to Type are
// meaningful; callers must not read fields belonging to other variants.
type Value struct {
	Type Type

	Str    string // SimpleString, SimpleError, BigNumber (decimal digits)
	Bytes  []byte // BulkString, BulkError, VerbatimString payload
	Format string // VerbatimString's 3-character format tag

	Int    int64
	Bool   bool
	Double float64

	Items []Value // Array, Set, Push
	Pairs []Pair  // Map, Attributes
}

func NewSimpleString(s string) Value { return Value{Type: SimpleString, Str: s} }
func NewSimpleError(s string) Value  { return Value{Type: SimpleError, Str: s} }
func NewInteger(n int64) Value       { return Value{Type: Integer, Int: n} }
func NewBulkString(b []byte) Value   { return Value{Type: BulkString, Bytes: b} }
func NewBulkStringFromString(s string) Value {
	return Value{Type: BulkString, Bytes: []byte(s)}
}
func NewBulkError(b []byte) Value { return Value{Type: BulkError, Bytes: b} }
func NewArray(items ...Value) Value {
	return Value{Type: Array, Items: items}
}
func NewBool(b bool) Value      { return Value{Type: Bool, Bool: b} }
func NewDouble(f float64) Value { return Value{Type: Double, Double: f} }
func NewBigNumber(digits string) Value {
	return Value{Type: BigNumber, Str: digits}
}
func NewVerbatimString(format string, b []byte) Value {
	return Value{Type: VerbatimString, Format: format, Bytes: b}
}
func NewMap(pairs ...Pair) Value {
	return Value{Type: Map, Pairs: pairs}
}
func NewAttributes(pairs ...Pair) Value {
	return Value{Type: Attributes, Pairs: pairs}
}
func NewSet(items ...Value) Value {
	return Value{Type: Set, Items: items}
}
func NewPush(items ...Value) Value {
	return Value{Type: Push, Items: items}
}

// NullValue is the wire-level absence of a scalar (encoded "$-1\r\n").
var NullValue = Value{Type: Null}

// NullArrayValue is the wire-level absence of an aggregate (encoded
// "*-1\r\n"), used as the timeout reply for BLPOP/XREAD.
var NullArrayValue = Value{Type: NullArray}

// NoResponseValue signals that no reply should be written at all.
var NoResponseValue = Value{Type: NoResponse}

// IsError reports whether v is a SimpleError or BulkError.
func (v Value) IsError() bool {
	return v.Type == SimpleError || v.Type == BulkError
}

// IsNull reports whether v is the scalar or aggregate null sentinel.
func (v Value) IsNull() bool {
	return v.Type == Null || v.Type == NullArray
}

// Equal reports deep equality between two values. Null and NullArray are
// distinct: callers relying on round-trip equivalence must account for
// which sentinel the writer chose.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case SimpleString, SimpleError, BigNumber:
		return v.Str == o.Str
	case Integer:
		return v.Int == o.Int
	case BulkString, BulkError:
		return bytesEqual(v.Bytes, o.Bytes)
	case VerbatimString:
		return v.Format == o.Format && bytesEqual(v.Bytes, o.Bytes)
	case Bool:
		return v.Bool == o.Bool
	case Double:
		return v.Double == o.Double
	case Array, Set, Push:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case Map, Attributes:
		if len(v.Pairs) != len(o.Pairs) {
			return false
		}
		for i := range v.Pairs {
			if !v.Pairs[i].Key.Equal(o.Pairs[i].Key) || !v.Pairs[i].Val.Equal(o.Pairs[i].Val) {
				return false
			}
		}
		return true
	case Null, NullArray, NoResponse:
		return true
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
