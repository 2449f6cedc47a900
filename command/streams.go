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

package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kvproto/redisd/blocked"
	"github.com/kvproto/redisd/resp"
	"github.com/kvproto/redisd/stream"
)

func execXAdd(c XAdd, ctx *ExecutionContext) resp.Value {
	s := ctx.Streams.GetOrCreate(c.Key)

	id, parseErr := resolveXAddID(c.IDSpec, s)
	if parseErr != nil {
		return argError(parseErr.Error())
	}

	if err := s.Insert(id, c.Fields); err != nil {
		return resp.NewSimpleError("ERR " + err.Error())
	}

	wakeXReadWaiter(c.Key, s, ctx)
	return resp.NewBulkStringFromString(formatStreamID(id))
}

// resolveXAddID implements the three ID-spec forms from spec.md §4.C:
// "*" uses the stream's auto-increment clock, "<ts>-*" auto-increments only
// the sequence, and "<ts>-<seq>" is taken verbatim.
func resolveXAddID(spec string, s *stream.Stream) (stream.ID, error) {
	if spec == "*" {
		return s.AutoID(uint64(time.Now().UnixMilli())), nil
	}

	ts, seqPart, ok := strings.Cut(spec, "-")
	if !ok {
		return stream.ID{}, fmt.Errorf("Invalid stream ID specified as stream command argument")
	}
	tsVal, err := strconv.ParseUint(ts, 10, 64)
	if err != nil {
		return stream.ID{}, fmt.Errorf("Invalid stream ID specified as stream command argument")
	}
	if seqPart == "*" {
		return stream.ID{Ms: tsVal, Seq: s.AutoSeq(tsVal)}, nil
	}
	seqVal, err := strconv.ParseUint(seqPart, 10, 64)
	if err != nil {
		return stream.ID{}, fmt.Errorf("Invalid stream ID specified as stream command argument")
	}
	return stream.ID{Ms: tsVal, Seq: seqVal}, nil
}

func formatStreamID(id stream.ID) string {
	return fmt.Sprintf("%d-%d", id.Ms, id.Seq)
}

func execXRange(c XRange, ctx *ExecutionContext) resp.Value {
	s, ok := ctx.Streams.Get(c.Key)
	if !ok {
		return resp.NewArray()
	}
	start := resolveRangeBound(c.Start, false)
	end := resolveRangeBound(c.End, true)
	entries := s.RangeQuery(start, end, false)
	return entriesToReply(entries)
}

// resolveRangeBound expands "-", "+" and bare timestamps into full IDs.
// A bare timestamp used as the end bound defaults to the widest possible
// sequence so it still matches every entry at that millisecond.
func resolveRangeBound(spec string, isEnd bool) stream.ID {
	switch spec {
	case "-":
		return stream.Min
	case "+":
		return stream.Max
	}
	if ts, seq, ok := strings.Cut(spec, "-"); ok {
		tsVal, _ := strconv.ParseUint(ts, 10, 64)
		seqVal, _ := strconv.ParseUint(seq, 10, 64)
		return stream.ID{Ms: tsVal, Seq: seqVal}
	}
	tsVal, _ := strconv.ParseUint(spec, 10, 64)
	if isEnd {
		return stream.ID{Ms: tsVal, Seq: stream.Max.Seq}
	}
	return stream.ID{Ms: tsVal, Seq: 0}
}

func execXRead(c XRead, ctx *ExecutionContext) resp.Value {
	starts := make(map[string]stream.ID, len(c.Keys))
	entriesByKey := make(map[string][]stream.Entry, len(c.Keys))
	any := false

	for i, key := range c.Keys {
		start := resolveXReadStart(c.IDSpecs[i], ctx, key)
		starts[key] = start

		if s, ok := ctx.Streams.Get(key); ok {
			entries := s.RangeQuery(start, stream.Max, true)
			if len(entries) > 0 {
				entriesByKey[key] = entries
				any = true
			}
		}
	}

	if any || !c.HasBlock {
		if !any {
			return resp.NullArrayValue
		}
		return buildXReadReply(c.Keys, entriesByKey)
	}

	if ctx.NoBlock {
		return resp.NullArrayValue
	}

	ctx.Blocked.Block(ctx.Conn.ID, c.Keys, blocked.XRead, float64(c.BlockMs)/1000.0, starts)
	return resp.NoResponseValue
}

// resolveXReadStart resolves "$" to the stream's current maximum (or Min
// if the stream does not exist yet), and otherwise parses the ID verbatim.
func resolveXReadStart(spec string, ctx *ExecutionContext, key string) stream.ID {
	if spec == "$" {
		if s, ok := ctx.Streams.Get(key); ok {
			if max, hasMax := s.MaxID(); hasMax {
				return max
			}
		}
		return stream.Min
	}
	ts, seq, ok := strings.Cut(spec, "-")
	tsVal, _ := strconv.ParseUint(ts, 10, 64)
	if !ok {
		return stream.ID{Ms: tsVal, Seq: 0}
	}
	seqVal, _ := strconv.ParseUint(seq, 10, 64)
	return stream.ID{Ms: tsVal, Seq: seqVal}
}

// wakeXReadWaiter delivers the per-key exclusive-start result set to the
// single waiter (if any) registered for an XREAD on key, per spec.md
// §4.G: XADD "peeks for a waiter on this key ... computes the per-key
// exclusive-start result set and delivers it."
func wakeXReadWaiter(key string, s *stream.Stream, ctx *ExecutionContext) {
	rec, ok := ctx.Blocked.NextClientForKey(key)
	if !ok {
		return
	}

	start, hasStart := rec.XReadStarts[key]
	if !hasStart {
		start = stream.Min
	}
	entries := s.RangeQuery(start, stream.Max, true)
	if len(entries) == 0 {
		return
	}

	if conn, ok := ctx.Conns.Get(rec.ClientID); ok {
		conn.Enqueue(buildXReadReply([]string{key}, map[string][]stream.Entry{key: entries}))
	}
}

// buildXReadReply renders the nested [key, [[id, [field, value, ...]], ...]]
// structure XREAD replies with, in keys order, omitting keys with no
// entries.
func buildXReadReply(keys []string, entriesByKey map[string][]stream.Entry) resp.Value {
	items := make([]resp.Value, 0, len(keys))
	for _, k := range keys {
		entries, ok := entriesByKey[k]
		if !ok || len(entries) == 0 {
			continue
		}
		items = append(items, resp.NewArray(resp.NewBulkStringFromString(k), entriesToReply(entries)))
	}
	return resp.NewArray(items...)
}

func entriesToReply(entries []stream.Entry) resp.Value {
	out := make([]resp.Value, len(entries))
	for i, e := range entries {
		flat := make([]resp.Value, 0, len(e.Fields)*2)
		for _, f := range e.Fields {
			flat = append(flat, resp.NewBulkString(f.Name), resp.NewBulkString(f.Value))
		}
		out[i] = resp.NewArray(resp.NewBulkStringFromString(formatStreamID(e.ID)), resp.NewArray(flat...))
	}
	return resp.NewArray(out...)
}
