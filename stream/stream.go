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

package stream

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrZeroID is returned when an XADD resolves to the reserved 0-0 ID.
var ErrZeroID = errors.New("The ID specified in XADD must be greater than 0-0")

// ErrNonMonotonic is returned when an XADD resolves to an ID not strictly
// greater than the stream's current maximum.
var ErrNonMonotonic = errors.New("The ID specified in XADD is equal or smaller than the target stream top item")

// Field is a single name/value pair attached to an entry, stored in the
// order the client sent them.
type Field struct {
	Name  []byte
	Value []byte
}

// Entry is one appended record.
type Entry struct {
	ID     ID
	Fields []Field
}

// Stream is the ordered, append-only entry log for one key. Because
// Insert refuses any ID not strictly greater than the current maximum,
// entries are always appended at the tail and the backing slice stays
// sorted without any rebalancing.
type Stream struct {
	entries []Entry
	last    ID
	hasLast bool
}

// New returns an empty stream.
func New() *Stream {
	return &Stream{}
}

// MaxID returns the stream's current maximum ID, or Zero and false if the
// stream holds no entries yet.
func (s *Stream) MaxID() (ID, bool) {
	return s.last, s.hasLast
}

// AutoID resolves "*": the current wall-clock millisecond as timestamp,
// with the sequence bumped past any existing entry sharing that
// millisecond.
func (s *Stream) AutoID(nowMs uint64) ID {
	if s.hasLast && s.last.Ms == nowMs {
		return ID{Ms: nowMs, Seq: s.last.Seq + 1}
	}
	if s.hasLast && s.last.Ms > nowMs {
		// Clock went backwards relative to the stream; stay monotonic by
		// reusing the stream's last timestamp.
		return ID{Ms: s.last.Ms, Seq: s.last.Seq + 1}
	}
	return ID{Ms: nowMs, Seq: 0}
}

// AutoSeq resolves "<ts>-*": the sequence continues from whatever entry
// already occupies ts, or starts at 1 for ts==0 and 0 otherwise.
func (s *Stream) AutoSeq(ts uint64) uint64 {
	if s.hasLast && s.last.Ms == ts {
		return s.last.Seq + 1
	}
	if ts == 0 {
		return 1
	}
	return 0
}

// Insert appends id/fields, rejecting 0-0 and any id not strictly greater
// than the current maximum. On success it updates the stream's maximum.
func (s *Stream) Insert(id ID, fields []Field) error {
	if id == Zero {
		return ErrZeroID
	}
	if s.hasLast && !id.Greater(s.last) {
		return ErrNonMonotonic
	}
	s.entries = append(s.entries, Entry{ID: id, Fields: fields})
	s.last = id
	s.hasLast = true
	return nil
}

// Search returns the entry stored under id, if any.
func (s *Stream) Search(id ID) (Entry, bool) {
	i := sort.Search(len(s.entries), func(i int) bool { return !s.entries[i].ID.Less(id) })
	if i < len(s.entries) && s.entries[i].ID == id {
		return s.entries[i], true
	}
	return Entry{}, false
}

// Delete removes the entry stored under id, reporting whether it was
// present.
func (s *Stream) Delete(id ID) bool {
	i := sort.Search(len(s.entries), func(i int) bool { return !s.entries[i].ID.Less(id) })
	if i < len(s.entries) && s.entries[i].ID == id {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return true
	}
	return false
}

// RangeQuery returns entries with id in [start, end], or (start, end] when
// startExclusive is set, in strictly ascending order.
func (s *Stream) RangeQuery(start, end ID, startExclusive bool) []Entry {
	lo := sort.Search(len(s.entries), func(i int) bool { return !s.entries[i].ID.Less(start) })
	if startExclusive {
		for lo < len(s.entries) && s.entries[lo].ID == start {
			lo++
		}
	}
	hi := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].ID.Greater(end) })
	if lo >= hi {
		return nil
	}

	out := make([]Entry, hi-lo)
	copy(out, s.entries[lo:hi])
	return out
}

// TrimBefore removes every entry with ID < id and reports how many were
// removed.
func (s *Stream) TrimBefore(id ID) int {
	i := sort.Search(len(s.entries), func(i int) bool { return !s.entries[i].ID.Less(id) })
	if i == 0 {
		return 0
	}
	s.entries = append([]Entry(nil), s.entries[i:]...)
	return i
}

// TrimToMaxLength keeps only the newest n entries, reporting how many were
// removed. A non-positive n empties the stream.
func (s *Stream) TrimToMaxLength(n int) int {
	if n < 0 {
		n = 0
	}
	if len(s.entries) <= n {
		return 0
	}
	removed := len(s.entries) - n
	s.entries = append([]Entry(nil), s.entries[removed:]...)
	return removed
}

// Size reports the number of live entries.
func (s *Stream) Size() int {
	return len(s.entries)
}
