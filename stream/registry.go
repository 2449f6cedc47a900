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

// Registry maps key names to their Stream, the sibling of store.Store for
// the stream half of the keyspace. Like Store, it is executor-owned and
// needs no internal locking.
type Registry struct {
	streams map[string]*Stream
}

// NewRegistry returns an empty stream registry.
func NewRegistry() *Registry {
	return &Registry{streams: make(map[string]*Stream)}
}

// Get returns the stream stored at key, if any.
func (r *Registry) Get(key string) (*Stream, bool) {
	s, ok := r.streams[key]
	return s, ok
}

// GetOrCreate returns the stream at key, creating an empty one if absent.
func (r *Registry) GetOrCreate(key string) *Stream {
	s, ok := r.streams[key]
	if !ok {
		s = New()
		r.streams[key] = s
	}
	return s
}

// Exists reports whether key names a stream.
func (r *Registry) Exists(key string) bool {
	_, ok := r.streams[key]
	return ok
}
