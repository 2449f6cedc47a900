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

// Package store implements the flat key/value map at the base of redisd:
// RespValue entries with optional absolute expiry, accessed exclusively by
// the single executor goroutine. Expiry is lazy: a key only disappears when
// something reads or writes it past its deadline, never via a background
// sweep.
package store

import (
	"time"

	"github.com/kvproto/redisd/resp"
)

// entry pairs a stored value with its optional absolute deadline.
type entry struct {
	value     resp.Value
	deadline  time.Time
	hasExpiry bool
}

func (e entry) expired(now time.Time) bool {
	return e.hasExpiry && now.After(e.deadline)
}

// Store is the flat key/value map. Keys are the raw bytes of the
// BulkString the client sent, compared as Go strings. It has no internal
// locking: every command touches it only from the executor goroutine.
type Store struct {
	data map[string]entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string]entry)}
}

// SetParams configures an optional expiry on Set.
type SetParams struct {
	ExpiryMs  int64
	HasExpiry bool
}

// Get returns the live value stored at key, or resp.NullValue if the key
// is absent or its deadline has passed. A lazily-observed expired entry is
// removed as a side effect.
func (s *Store) Get(key string) resp.Value {
	e, ok := s.data[key]
	if !ok {
		return resp.NullValue
	}
	if e.expired(time.Now()) {
		delete(s.data, key)
		return resp.NullValue
	}
	return e.value
}

// Lookup is like Get but also reports whether the key is live, letting
// callers distinguish "absent" from "present but holding Null" without
// re-deriving it from the returned Value.
func (s *Store) Lookup(key string) (resp.Value, bool) {
	e, ok := s.data[key]
	if !ok {
		return resp.Value{}, false
	}
	if e.expired(time.Now()) {
		delete(s.data, key)
		return resp.Value{}, false
	}
	return e.value, true
}

// Set unconditionally overwrites key's value. When params.HasExpiry is
// set, the deadline is now()+params.ExpiryMs; otherwise the key never
// expires.
func (s *Store) Set(key string, v resp.Value, params SetParams) {
	e := entry{value: v}
	if params.HasExpiry {
		e.hasExpiry = true
		e.deadline = time.Now().Add(time.Duration(params.ExpiryMs) * time.Millisecond)
	}
	s.data[key] = e
}

// GetOrPut returns the live value at key if present, otherwise stores and
// returns factory()'s result with no expiry.
func (s *Store) GetOrPut(key string, factory func() resp.Value) resp.Value {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	v := factory()
	s.data[key] = entry{value: v}
	return v
}

// Delete removes key unconditionally and reports whether it was present
// and live.
func (s *Store) Delete(key string) bool {
	_, ok := s.Lookup(key)
	delete(s.data, key)
	return ok
}

// Len reports the number of currently-live keys, purging any it finds
// expired along the way. This is the only place the store visits every
// key at once; it is still access-driven (triggered by a DBSIZE command),
// not a background sweep.
func (s *Store) Len() int {
	now := time.Now()
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
		}
	}
	return len(s.data)
}
