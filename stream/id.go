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

// Package stream implements the ordered, append-only entry log behind
// XADD/XRANGE/XREAD: a 128-bit lexicographically ordered ID keyed log with
// range and tail queries. Because entry IDs are required to be strictly
// increasing, the log is always appended at its tail; no rebalancing
// structure is needed to keep it ordered.
package stream

import (
	"encoding/binary"
	"math"
)

// ID is the 128-bit (timestampMs, sequence) stream entry key, ordered
// lexicographically by timestamp then sequence.
type ID struct {
	Ms  uint64
	Seq uint64
}

// Zero is the reserved "0-0" ID; the server refuses to store an entry
// under it.
var Zero = ID{Ms: 0, Seq: 0}

// Min is the smallest possible ID, used to resolve the XRANGE "-" bound.
var Min = ID{Ms: 0, Seq: 0}

// Max is the largest possible ID, used to resolve the XRANGE "+" bound.
var Max = ID{Ms: math.MaxUint64, Seq: math.MaxUint64}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than
// b.
func (a ID) Compare(b ID) int {
	switch {
	case a.Ms < b.Ms:
		return -1
	case a.Ms > b.Ms:
		return 1
	case a.Seq < b.Seq:
		return -1
	case a.Seq > b.Seq:
		return 1
	default:
		return 0
	}
}

func (a ID) Less(b ID) bool    { return a.Compare(b) < 0 }
func (a ID) LessEq(b ID) bool  { return a.Compare(b) <= 0 }
func (a ID) Greater(b ID) bool { return a.Compare(b) > 0 }

// Bytes encodes the ID as 16 big-endian bytes, the canonical sortable key
// form spec.md §4.C describes.
func (a ID) Bytes() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], a.Ms)
	binary.BigEndian.PutUint64(b[8:], a.Seq)
	return b
}
