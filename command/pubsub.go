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
	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/resp"
)

func execSubscribe(c Subscribe, ctx *ExecutionContext) resp.Value {
	ctx.Conn.Subscribe(c.Channel)
	ctx.PubSub.Subscribe(c.Channel, ctx.Conn.ID)
	ctx.Conn.State = conn.Subscribed
	return resp.NewArray(
		resp.NewBulkStringFromString("subscribe"),
		resp.NewBulkStringFromString(c.Channel),
		resp.NewInteger(int64(ctx.Conn.SubCount())),
	)
}

func execUnsubscribe(c Unsubscribe, ctx *ExecutionContext) resp.Value {
	ctx.Conn.Unsubscribe(c.Channel)
	ctx.PubSub.Unsubscribe(c.Channel, ctx.Conn.ID)

	subCount := ctx.Conn.SubCount()
	if subCount == 0 {
		ctx.Conn.State = conn.Standard
	}
	return resp.NewArray(
		resp.NewBulkStringFromString("unsubscribe"),
		resp.NewBulkStringFromString(c.Channel),
		resp.NewInteger(int64(subCount)),
	)
}

func execPublish(c Publish, ctx *ExecutionContext) resp.Value {
	subscribers := ctx.PubSub.Subscribers(c.Channel)
	for _, id := range subscribers {
		if target, ok := ctx.Conns.Get(id); ok {
			target.Enqueue(resp.NewArray(
				resp.NewBulkStringFromString("message"),
				resp.NewBulkStringFromString(c.Channel),
				resp.NewBulkString(c.Message),
			))
		}
	}
	return resp.NewInteger(int64(len(subscribers)))
}
