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

// Package blocked tracks clients suspended on BLPOP/XREAD: a per-key FIFO
// of waiters plus a timeout priority queue, kept mutually consistent. Like
// store and stream, the registry belongs to the single executor goroutine
// and needs no internal locking.
package blocked

import (
	"container/heap"
	"time"

	"github.com/kvproto/redisd/stream"
)

// Command identifies which blocking command suspended a client.
type Command int

const (
	BLPop Command = iota
	XRead
)

// Record describes one blocked client, returned by NextClientForKey and
// ExpireBefore so the caller can shape the right reply.
type Record struct {
	ClientID string
	Cmd      Command
	// XReadStarts is nil for BLPop; for XRead it maps each requested key to
	// the exclusive-start ID resolved at block time.
	XReadStarts map[string]stream.ID
}

// Registry is the blocked-waiter map described in spec.md §4.D: entries
// (per-key FIFOs), clientToKeys (for O(waiter-key-count) unblock), and a
// timeout min-heap carrying stale tombstones rather than eager removal.
type Registry struct {
	entries      map[string][]string
	clientToKeys map[string][]string
	records      map[string]Record
	timeouts     timeoutHeap
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		entries:      make(map[string][]string),
		clientToKeys: make(map[string][]string),
		records:      make(map[string]Record),
	}
}

// Block registers clientID on every key in keys, in order, and arms a
// timeout if timeoutSec > 0. xreadStarts is carried verbatim for XRead and
// ignored for BLPop.
func (r *Registry) Block(clientID string, keys []string, cmd Command, timeoutSec float64, xreadStarts map[string]stream.ID) {
	r.records[clientID] = Record{ClientID: clientID, Cmd: cmd, XReadStarts: xreadStarts}

	keysCopy := make([]string, len(keys))
	copy(keysCopy, keys)
	r.clientToKeys[clientID] = keysCopy

	for _, k := range keys {
		r.entries[k] = append(r.entries[k], clientID)
	}

	if timeoutSec > 0 {
		deadline := time.Now().Add(time.Duration(timeoutSec * float64(time.Second)))
		heap.Push(&r.timeouts, timeoutItem{deadline: deadline, clientID: clientID})
	}
}

// NextClientForKey pops and returns the head waiter on key, if any, fully
// unblocking it from every key it was registered on (B1/B3).
func (r *Registry) NextClientForKey(key string) (Record, bool) {
	fifo := r.entries[key]
	if len(fifo) == 0 {
		return Record{}, false
	}

	clientID := fifo[0]
	r.entries[key] = fifo[1:]

	rec, ok := r.records[clientID]
	if !ok {
		// B1 violation would put us here; treat as absent rather than panic.
		return Record{}, false
	}

	r.unblockLocked(clientID)
	return rec, true
}

// Unblock removes clientID from every FIFO it appears in. Its timeout-heap
// entry, if any, is left as a stale tombstone rather than located and
// removed.
func (r *Registry) Unblock(clientID string) {
	if _, ok := r.clientToKeys[clientID]; !ok {
		return
	}
	r.unblockLocked(clientID)
}

func (r *Registry) unblockLocked(clientID string) {
	for _, k := range r.clientToKeys[clientID] {
		r.entries[k] = removeFirst(r.entries[k], clientID)
	}
	delete(r.clientToKeys, clientID)
	delete(r.records, clientID)
}

func removeFirst(fifo []string, clientID string) []string {
	for i, id := range fifo {
		if id == clientID {
			return append(fifo[:i], fifo[i+1:]...)
		}
	}
	return fifo
}

// EarliestTimeout peeks the timeout heap without popping. It may return a
// stale entry's deadline; ExpireBefore discards staleness on pop.
func (r *Registry) EarliestTimeout() (time.Time, bool) {
	if len(r.timeouts) == 0 {
		return time.Time{}, false
	}
	return r.timeouts[0].deadline, true
}

// ExpireBefore pops every heap entry with deadline <= threshold and
// returns the records for the ones still registered (skipping stale
// tombstones), unblocking each in turn. Results are in non-decreasing
// deadline order.
func (r *Registry) ExpireBefore(threshold time.Time) []Record {
	var expired []Record
	for len(r.timeouts) > 0 && !r.timeouts[0].deadline.After(threshold) {
		item := heap.Pop(&r.timeouts).(timeoutItem)
		if _, ok := r.clientToKeys[item.clientID]; !ok {
			continue // stale tombstone
		}
		rec := r.records[item.clientID]
		r.unblockLocked(item.clientID)
		expired = append(expired, rec)
	}
	return expired
}

type timeoutItem struct {
	deadline time.Time
	clientID string
}

type timeoutHeap []timeoutItem

func (h timeoutHeap) Len() int           { return len(h) }
func (h timeoutHeap) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }
func (h timeoutHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timeoutHeap) Push(x any) {
	*h = append(*h, x.(timeoutItem))
}
func (h *timeoutHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
