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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvproto/redisd/resp"
)

func TestNewConnectionStartsStandard(t *testing.T) {
	c := New("client-1")
	assert.Equal(t, Standard, c.State)
	assert.Equal(t, 0, c.SubCount())
}

func TestSubscribeUnsubscribe(t *testing.T) {
	c := New("client-1")

	assert.True(t, c.Subscribe("news"))
	assert.False(t, c.Subscribe("news"))
	assert.Equal(t, 1, c.SubCount())

	assert.True(t, c.Unsubscribe("news"))
	assert.False(t, c.Unsubscribe("news"))
	assert.Equal(t, 0, c.SubCount())
}

func TestChannelNamesSnapshot(t *testing.T) {
	c := New("client-1")
	c.Subscribe("a")
	c.Subscribe("b")
	assert.ElementsMatch(t, []string{"a", "b"}, c.ChannelNames())
}

func TestEnqueueAndDrain(t *testing.T) {
	c := New("client-1")
	c.Enqueue(resp.NewSimpleString("OK"))

	got := <-c.Outbound
	assert.True(t, resp.NewSimpleString("OK").Equal(got))
}

func TestCommandQueueHoldsOpaqueValues(t *testing.T) {
	c := New("client-1")
	c.CommandQueue = append(c.CommandQueue, "queued-command-placeholder")
	assert.Len(t, c.CommandQueue, 1)
}
