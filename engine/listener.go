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

package engine

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"github.com/kvproto/redisd/common"
	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/internal/rescue"
	"github.com/kvproto/redisd/logger"
	"github.com/kvproto/redisd/metrics"
	"github.com/kvproto/redisd/resp"
)

// Listener runs the TCP accept loop: one reader and one writer goroutine
// per accepted connection, per spec.md §6's "each connection handled by
// independent reader+writer tasks."
type Listener struct {
	engine *Engine
	ln     net.Listener
	limits resp.Limits
}

// Listen binds addr and returns a Listener ready to Serve. limits bounds
// the codec for every connection this listener accepts, wired from the
// server.maxDepth/maxCollectionSize/maxStringLength config keys; a
// zero-value Limits falls back to resp.DefaultLimits().
func Listen(addr string, e *Engine, limits resp.Limits) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{engine: e, ln: ln, limits: limits}, nil
}

// Addr reports the bound address, useful when addr was ":0" in tests.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Serve accepts connections until the listener is closed.
func (l *Listener) Serve() {
	for {
		nc, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warnf("accept failed: %v", err)
			continue
		}
		l.handleConnection(nc)
	}
}

func (l *Listener) handleConnection(nc net.Conn) {
	id := uuid.NewString()
	c := conn.New(id)
	l.engine.Connections().Add(c)

	logger.Debugf("connection %s accepted, trace=%s", c.ID, c.TraceID)
	metrics.ConnectionsTotal.Inc()
	metrics.ConnectionsActive.Inc()

	go l.writeLoop(nc, c)
	go l.readLoop(nc, c)
}

// effectiveLimits falls back to resp.DefaultLimits() when limits is the
// zero value, so a Listener built without an explicit config (tests, or a
// future caller that forgets) still parses sane-sized frames instead of
// rejecting everything past depth zero.
func effectiveLimits(limits resp.Limits) resp.Limits {
	if limits == (resp.Limits{}) {
		return resp.DefaultLimits()
	}
	return limits
}

func (l *Listener) readLoop(nc net.Conn, c *conn.Connection) {
	defer rescue.HandleCrash()
	defer func() {
		_ = nc.Close()
		l.engine.Disconnect(c.ID)
		c.Close()
		metrics.ConnectionsActive.Dec()
	}()

	br := bufio.NewReaderSize(nc, common.ReadBufferSize)
	parser := resp.NewParserWithLimits(br, effectiveLimits(l.limits))
	for {
		frame, err := parser.Parse()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debugf("connection %s: parse error: %v", c.ID, err)
			}
			return
		}
		l.engine.Submit(c.ID, frame)
	}
}

// writeLoop drains c's outbound queue to the socket until the queue is
// closed (on disconnect) or the write fails.
func (l *Listener) writeLoop(nc net.Conn, c *conn.Connection) {
	defer rescue.HandleCrash()

	w := resp.NewWriter(nc)
	for v := range c.Outbound {
		if err := w.WriteValue(v); err != nil {
			logger.Debugf("connection %s: write error: %v", c.ID, err)
			_ = nc.Close()
			return
		}
	}
}
