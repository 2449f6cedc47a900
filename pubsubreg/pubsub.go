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

// Package pubsubreg tracks channel subscriptions for PUBLISH/SUBSCRIBE.
//
// The registry itself holds no message queues: once PUBLISH resolves the
// subscriber set for a channel, delivery happens by pushing straight onto
// each subscriber's own outbound queue (see package conn), exactly as
// RPUSH/XADD deliver to blocked waiters. The registry is read by the
// executor goroutine on every SUBSCRIBE/UNSUBSCRIBE/PUBLISH, but may also be
// mutated directly during connection teardown, so it guards its map with a
// mutex rather than relying on single-goroutine ownership.
package pubsubreg

import "sync"

// PubSub is a mutex-guarded channel -> subscriber-set registry.
type PubSub struct {
	mut      sync.RWMutex
	channels map[string]map[string]struct{}
}

// New returns an empty registry.
func New() *PubSub {
	return &PubSub{
		channels: make(map[string]map[string]struct{}),
	}
}

// Subscribe adds clientID to channel's subscriber set and reports the
// resulting subscriber count. Subscribing twice to the same channel is a
// no-op on the set but still reports the current count.
func (p *PubSub) Subscribe(channel, clientID string) int {
	p.mut.Lock()
	defer p.mut.Unlock()

	set, ok := p.channels[channel]
	if !ok {
		set = make(map[string]struct{})
		p.channels[channel] = set
	}
	set[clientID] = struct{}{}
	return len(set)
}

// Unsubscribe removes clientID from channel's subscriber set and reports the
// resulting subscriber count. Removing the last subscriber drops the
// channel entirely.
func (p *PubSub) Unsubscribe(channel, clientID string) int {
	p.mut.Lock()
	defer p.mut.Unlock()

	set, ok := p.channels[channel]
	if !ok {
		return 0
	}
	delete(set, clientID)
	n := len(set)
	if n == 0 {
		delete(p.channels, channel)
	}
	return n
}

// Subscribers returns a snapshot of channel's current subscriber client IDs.
func (p *PubSub) Subscribers(channel string) []string {
	p.mut.RLock()
	defer p.mut.RUnlock()

	set := p.channels[channel]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// NumChannels reports how many channels currently have at least one
// subscriber.
func (p *PubSub) NumChannels() int {
	p.mut.RLock()
	defer p.mut.RUnlock()

	return len(p.channels)
}
