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

// Package engine ties the component pieces (store, streams, blocked
// registry, pub/sub, connections) together behind the single executor
// goroutine described in spec.md §4.H: one task drains a request channel
// or wakes on the nearest blocked-waiter deadline, decodes and executes
// each command, and writes replies to the originating (or a woken)
// connection's outbound queue.
package engine

import (
	"context"
	"time"

	"github.com/kvproto/redisd/blocked"
	"github.com/kvproto/redisd/command"
	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/internal/tracekit"
	"github.com/kvproto/redisd/logger"
	"github.com/kvproto/redisd/metrics"
	"github.com/kvproto/redisd/pubsubreg"
	"github.com/kvproto/redisd/resp"
	"github.com/kvproto/redisd/store"
	"github.com/kvproto/redisd/stream"
)

// requestQueueCapacity approximates spec.md's "unbounded request channel":
// generous enough that a reader goroutine practically never blocks
// submitting a parsed frame.
const requestQueueCapacity = 65536

// defaultPollInterval bounds how long the executor ever waits with no
// blocked waiter pending, so expireTimeouts still runs promptly after a
// waiter is newly registered between ticks. Overridable at startup via
// SetPollInterval from the server.blockPollInterval config key.
const defaultPollInterval = 100 * time.Millisecond

// commandRequest is one unit of executor work: either a parsed-or-to-be-
// parsed frame, or a disconnect notification. Disconnect is routed through
// the same channel as ordinary frames so that purging the blocked-waiter
// registry — executor-owned, unlike conn.Registry and pubsubreg.PubSub —
// only ever happens on the executor goroutine.
type commandRequest struct {
	connID     string
	frame      resp.Value
	disconnect bool
}

// Engine owns every piece of shared state B-E from spec.md §3 and runs the
// single executor goroutine that mutates it.
type Engine struct {
	store   *store.Store
	streams *stream.Registry
	blocked *blocked.Registry
	pubsub  *pubsubreg.PubSub
	conns   *conn.Registry

	requests     chan commandRequest
	pollInterval time.Duration
}

// New builds an Engine with empty state and the default poll interval.
func New() *Engine {
	return &Engine{
		store:        store.New(),
		streams:      stream.NewRegistry(),
		blocked:      blocked.New(),
		pubsub:       pubsubreg.New(),
		conns:        conn.NewRegistry(),
		requests:     make(chan commandRequest, requestQueueCapacity),
		pollInterval: defaultPollInterval,
	}
}

// SetPollInterval overrides the executor's no-waiter wake cadence, wired
// from the server.blockPollInterval config key. A non-positive value is
// ignored and the default is kept.
func (e *Engine) SetPollInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	e.pollInterval = d
}

// Connections exposes the connection registry so the accept loop can
// register/unregister connections around their lifetime.
func (e *Engine) Connections() *conn.Registry { return e.conns }

// PubSub exposes the pub/sub registry so connection teardown can unwind a
// disconnecting client's subscriptions.
func (e *Engine) PubSub() *pubsubreg.PubSub { return e.pubsub }

// Blocked exposes the blocked-waiter registry so connection teardown can
// purge a disconnecting client's registrations (spec.md §3: "on
// destruction the blocked-waiter registry is purged of this client").
func (e *Engine) Blocked() *blocked.Registry { return e.blocked }

// Submit enqueues a parsed frame from connID for execution. Called from a
// connection's reader goroutine, never from the executor itself.
func (e *Engine) Submit(connID string, frame resp.Value) {
	e.requests <- commandRequest{connID: connID, frame: frame}
}

// SubmitDisconnect enqueues the teardown of connID's blocked-registry
// registrations. The caller is still responsible for removing connID from
// the connection registry and unwinding its pub/sub subscriptions, both of
// which (unlike the blocked registry) are safe to mutate off the executor
// goroutine per spec.md §6.
func (e *Engine) SubmitDisconnect(connID string) {
	e.requests <- commandRequest{connID: connID, disconnect: true}
}

// Run drains the request channel, dispatching to the command package, and
// wakes on a timer to expire timed-out blocked waiters. It returns when
// ctx is canceled.
func (e *Engine) Run(ctx context.Context) {
	for {
		wait := e.pollInterval
		if deadline, ok := e.blocked.EarliestTimeout(); ok {
			if until := time.Until(deadline); until < wait {
				wait = until
			}
		}
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case req := <-e.requests:
			timer.Stop()
			e.handle(req)
		case <-timer.C:
			e.expireTimeouts(time.Now())
		}
	}
}

func (e *Engine) handle(req commandRequest) {
	if req.disconnect {
		e.blocked.Unblock(req.connID)
		return
	}

	c, ok := e.conns.Get(req.connID)
	if !ok {
		// Connection tore down between submit and dispatch; nothing to
		// reply to.
		return
	}

	cmd, parseErr := command.Parse(req.frame)
	if parseErr != nil {
		c.Enqueue(parseErr.Reply())
		return
	}

	start := time.Now()
	name := cmd.CommandName()
	span := tracekit.SpanHex(tracekit.RandomSpanID())
	logger.Debugf("trace=%s span=%s command=%s", c.TraceID, span, name)
	reply := command.Execute(cmd, &command.ExecutionContext{
		Store:   e.store,
		Streams: e.streams,
		Blocked: e.blocked,
		PubSub:  e.pubsub,
		Conns:   e.conns,
		Conn:    c,
	})
	metrics.CommandsTotal.WithLabelValues(name).Inc()
	metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if reply.IsError() {
		metrics.CommandErrorsTotal.WithLabelValues(name).Inc()
	}

	if reply.Type != resp.NoResponse {
		c.Enqueue(reply)
	}
}

// expireTimeouts delivers NullArrayValue to every waiter whose deadline
// has passed, per spec.md §6: "expiration delivers NullArray ... and
// removes the registration."
func (e *Engine) expireTimeouts(now time.Time) {
	for _, rec := range e.blocked.ExpireBefore(now) {
		if c, ok := e.conns.Get(rec.ClientID); ok {
			c.Enqueue(resp.NullArrayValue)
		}
		metrics.ExpiredWaitersTotal.Inc()
	}
}

// Disconnect tears down every trace of clientID: pub/sub subscriptions and
// the connection-registry entry are unwound here directly (both are
// mutex-guarded for exactly this off-executor write), while the blocked
// registry's cleanup is routed onto the executor via SubmitDisconnect.
func (e *Engine) Disconnect(clientID string) {
	if c, ok := e.conns.Get(clientID); ok {
		for _, ch := range c.ChannelNames() {
			e.pubsub.Unsubscribe(ch, clientID)
		}
	}
	e.conns.Remove(clientID)
	e.SubmitDisconnect(clientID)
}
