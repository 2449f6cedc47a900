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

// Package tracekit mints lightweight trace identifiers for correlating log
// lines belonging to the same client connection, without pulling in a full
// OpenTelemetry SDK and exporter pipeline.
package tracekit

import (
	"crypto/rand"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/otel/trace"
)

// RandomTraceID generates a fresh, random trace ID, one per connection.
func RandomTraceID() pcommon.TraceID {
	b := make([]byte, 16)
	rand.Read(b)

	ret := [16]byte{}
	copy(ret[:], b)
	return ret
}

// RandomSpanID generates a fresh, random span ID, one per command.
func RandomSpanID() pcommon.SpanID {
	b := make([]byte, 8)
	rand.Read(b)

	ret := [8]byte{}
	copy(ret[:], b)
	return ret
}

// Hex renders a trace ID as lowercase hex, suitable for structured log
// fields.
func Hex(id pcommon.TraceID) string {
	return trace.TraceID(id).String()
}

// SpanHex renders a span ID as lowercase hex.
func SpanHex(id pcommon.SpanID) string {
	return trace.SpanID(id).String()
}
