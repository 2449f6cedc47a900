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

package conn

import "sync"

// Registry is the clientId -> *Connection lookup spec.md §5 calls out as
// needing concurrency safety: it is read by the executor on every command
// dispatch (to find another connection's outbound queue for side-effect
// replies) but written from connection setup/teardown, which runs on the
// accept loop and reader/writer goroutines rather than the executor.
type Registry struct {
	mut  sync.RWMutex
	byID map[string]*Connection
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Connection)}
}

// Add registers c under its ID.
func (r *Registry) Add(c *Connection) {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.byID[c.ID] = c
}

// Remove drops the connection with the given ID.
func (r *Registry) Remove(id string) {
	r.mut.Lock()
	defer r.mut.Unlock()
	delete(r.byID, id)
}

// Get looks up a connection by ID.
func (r *Registry) Get(id string) (*Connection, bool) {
	r.mut.RLock()
	defer r.mut.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// Len reports the number of live connections, for the active-connections
// gauge.
func (r *Registry) Len() int {
	r.mut.RLock()
	defer r.mut.RUnlock()
	return len(r.byID)
}
