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
	"github.com/kvproto/redisd/blocked"
	"github.com/kvproto/redisd/resp"
	"github.com/kvproto/redisd/store"
)

// List values live in the same keyspace as strings, stored as an
// Array-typed resp.Value (spec.md §9: "the same value type is used for
// wire values and in-store values... the store owns the vector").

func execRPush(c RPush, ctx *ExecutionContext) resp.Value {
	v, ok, typeErr := loadList(ctx, c.Key)
	if typeErr != nil {
		return *typeErr
	}
	if !ok {
		v = resp.NewArray()
	}
	for _, val := range c.Values {
		v.Items = append(v.Items, resp.NewBulkString(val))
	}
	ctx.Store.Set(c.Key, v, store.SetParams{})
	wakeListWaiters(c.Key, ctx)
	return resp.NewInteger(int64(len(v.Items)))
}

// execLPush prepends the given values in the literal order they arrived,
// not reversed as stock Redis does.
func execLPush(c LPush, ctx *ExecutionContext) resp.Value {
	v, ok, typeErr := loadList(ctx, c.Key)
	if typeErr != nil {
		return *typeErr
	}
	if !ok {
		v = resp.NewArray()
	}
	front := make([]resp.Value, len(c.Values))
	for i, val := range c.Values {
		front[i] = resp.NewBulkString(val)
	}
	v.Items = append(front, v.Items...)
	ctx.Store.Set(c.Key, v, store.SetParams{})
	wakeListWaiters(c.Key, ctx)
	return resp.NewInteger(int64(len(v.Items)))
}

func execRPop(c RPop, ctx *ExecutionContext) resp.Value {
	return popFromList(ctx, c.Key, c.Count, c.HasCount, true)
}

func execLPop(c LPop, ctx *ExecutionContext) resp.Value {
	return popFromList(ctx, c.Key, c.Count, c.HasCount, false)
}

// popFromList implements the single-element and counted forms of
// LPOP/RPOP. count > size or count <= 0 returns Null rather than a
// shorter array, per spec.md §9's documented deviation from stock Redis.
func popFromList(ctx *ExecutionContext, key string, count int, hasCount bool, fromRight bool) resp.Value {
	v, ok, typeErr := loadList(ctx, key)
	if typeErr != nil {
		return *typeErr
	}
	if !ok || len(v.Items) == 0 {
		return resp.NullValue
	}

	if !hasCount {
		var popped resp.Value
		if fromRight {
			popped = v.Items[len(v.Items)-1]
			v.Items = v.Items[:len(v.Items)-1]
		} else {
			popped = v.Items[0]
			v.Items = v.Items[1:]
		}
		storeOrDeleteList(ctx, key, v)
		return popped
	}

	if count <= 0 || count > len(v.Items) {
		return resp.NullValue
	}

	var popped []resp.Value
	if fromRight {
		popped = make([]resp.Value, count)
		for i := 0; i < count; i++ {
			popped[i] = v.Items[len(v.Items)-1-i]
		}
		v.Items = v.Items[:len(v.Items)-count]
	} else {
		popped = append([]resp.Value(nil), v.Items[:count]...)
		v.Items = v.Items[count:]
	}
	storeOrDeleteList(ctx, key, v)
	return resp.NewArray(popped...)
}

func execBLPop(c BLPop, ctx *ExecutionContext) resp.Value {
	v, ok, typeErr := loadList(ctx, c.Key)
	if typeErr != nil {
		return *typeErr
	}
	if ok && len(v.Items) > 0 {
		elem := v.Items[0]
		v.Items = v.Items[1:]
		storeOrDeleteList(ctx, c.Key, v)
		return resp.NewArray(resp.NewBulkStringFromString(c.Key), elem)
	}
	if ctx.NoBlock {
		return resp.NullArrayValue
	}
	ctx.Blocked.Block(ctx.Conn.ID, []string{c.Key}, blocked.BLPop, c.TimeoutSec, nil)
	return resp.NoResponseValue
}

func execLLen(c LLen, ctx *ExecutionContext) resp.Value {
	v, ok, typeErr := loadList(ctx, c.Key)
	if typeErr != nil {
		return *typeErr
	}
	if !ok {
		return resp.NewInteger(0)
	}
	return resp.NewInteger(int64(len(v.Items)))
}

func execLRange(c LRange, ctx *ExecutionContext) resp.Value {
	v, ok, typeErr := loadList(ctx, c.Key)
	if typeErr != nil {
		return *typeErr
	}
	if !ok {
		return resp.NewArray()
	}

	n := int64(len(v.Items))
	start, end := c.Start, c.End
	if start < 0 {
		start = n + start
	}
	if end < 0 {
		end = n + end
	}
	if start < 0 {
		start = 0
	}
	if end >= n {
		end = n - 1
	}
	if n == 0 || start > end {
		return resp.NewArray()
	}

	items := make([]resp.Value, 0, end-start+1)
	for i := start; i <= end; i++ {
		items = append(items, v.Items[i])
	}
	return resp.NewArray(items...)
}

// loadList fetches key as a list, returning ok=false when absent and a
// non-nil type error when the key holds something other than an Array.
func loadList(ctx *ExecutionContext, key string) (resp.Value, bool, *resp.Value) {
	v, ok := ctx.Store.Lookup(key)
	if !ok {
		return resp.Value{}, false, nil
	}
	if v.Type != resp.Array {
		err := wrongTypeError()
		return resp.Value{}, false, &err
	}
	return v, true, nil
}

func storeOrDeleteList(ctx *ExecutionContext, key string, v resp.Value) {
	if len(v.Items) == 0 {
		ctx.Store.Delete(key)
		return
	}
	ctx.Store.Set(key, v, store.SetParams{})
}

// wakeListWaiters delivers one element per registered BLPOP waiter on key,
// in FIFO registration order, until the list is empty or no waiter
// remains: exactly min(waiters, pushed elements) get woken.
func wakeListWaiters(key string, ctx *ExecutionContext) {
	for {
		v, ok := ctx.Store.Lookup(key)
		if !ok || len(v.Items) == 0 {
			return
		}
		rec, ok := ctx.Blocked.NextClientForKey(key)
		if !ok {
			return
		}
		elem := v.Items[0]
		v.Items = v.Items[1:]
		storeOrDeleteList(ctx, key, v)

		if c, ok := ctx.Conns.Get(rec.ClientID); ok {
			c.Enqueue(resp.NewArray(resp.NewBulkStringFromString(key), elem))
		}
	}
}
