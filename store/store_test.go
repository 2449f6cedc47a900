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

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kvproto/redisd/resp"
)

func TestGetAbsentKey(t *testing.T) {
	s := New()
	assert.True(t, s.Get("missing").IsNull())
}

func TestSetAndGet(t *testing.T) {
	s := New()
	s.Set("k", resp.NewBulkStringFromString("v"), SetParams{})
	got := s.Get("k")
	assert.True(t, resp.NewBulkStringFromString("v").Equal(got))
}

func TestExpiryLazyOnAccess(t *testing.T) {
	s := New()
	s.Set("k", resp.NewBulkStringFromString("v"), SetParams{ExpiryMs: 10, HasExpiry: true})

	assert.True(t, resp.NewBulkStringFromString("v").Equal(s.Get("k")))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, s.Get("k").IsNull())

	_, ok := s.Lookup("k")
	assert.False(t, ok)
}

func TestGetOrPut(t *testing.T) {
	s := New()
	calls := 0
	factory := func() resp.Value {
		calls++
		return resp.NewArray()
	}

	first := s.GetOrPut("list", factory)
	second := s.GetOrPut("list", factory)

	assert.Equal(t, 1, calls)
	assert.True(t, first.Equal(second))
}

func TestDelete(t *testing.T) {
	s := New()
	s.Set("k", resp.NewInteger(1), SetParams{})

	assert.True(t, s.Delete("k"))
	assert.False(t, s.Delete("k"))
	assert.True(t, s.Get("k").IsNull())
}

func TestLenPurgesExpired(t *testing.T) {
	s := New()
	s.Set("live", resp.NewInteger(1), SetParams{})
	s.Set("dead", resp.NewInteger(1), SetParams{ExpiryMs: 1, HasExpiry: true})

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
}
