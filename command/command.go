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

// Package command is the typed command surface: a pure parser turning a
// RESP array into one of the structs below, and an executor applying a
// parsed command to an ExecutionContext. Each command is its own struct
// rather than one struct with a type tag and many unused fields, which
// keeps the zero-value footprint of every command small and lets the
// executor's dispatch be an ordinary Go type switch.
package command

import "github.com/kvproto/redisd/stream"

// Command is implemented by every parsed command variant. CommandName
// drives the Subscribed-state allow-list check (spec.md §4.G guard 1).
type Command interface {
	CommandName() string
}

type Ping struct {
	Message    []byte
	HasMessage bool
}

func (Ping) CommandName() string { return "PING" }

type Echo struct {
	Message []byte
}

func (Echo) CommandName() string { return "ECHO" }

type Get struct {
	Key string
}

func (Get) CommandName() string { return "GET" }

type Set struct {
	Key       string
	Value     []byte
	HasExpiry bool
	ExpiryMs  int64
}

func (Set) CommandName() string { return "SET" }

type Incr struct {
	Key string
}

func (Incr) CommandName() string { return "INCR" }

type TypeCmd struct {
	Key string
}

func (TypeCmd) CommandName() string { return "TYPE" }

type DBSize struct{}

func (DBSize) CommandName() string { return "DBSIZE" }

type RPush struct {
	Key    string
	Values [][]byte
}

func (RPush) CommandName() string { return "RPUSH" }

type LPush struct {
	Key    string
	Values [][]byte
}

func (LPush) CommandName() string { return "LPUSH" }

type RPop struct {
	Key      string
	Count    int
	HasCount bool
}

func (RPop) CommandName() string { return "RPOP" }

type LPop struct {
	Key      string
	Count    int
	HasCount bool
}

func (LPop) CommandName() string { return "LPOP" }

type BLPop struct {
	Key        string
	TimeoutSec float64
}

func (BLPop) CommandName() string { return "BLPOP" }

type LLen struct {
	Key string
}

func (LLen) CommandName() string { return "LLEN" }

type LRange struct {
	Key   string
	Start int64
	End   int64
}

func (LRange) CommandName() string { return "LRANGE" }

type XAdd struct {
	Key    string
	IDSpec string // "*", "<ts>-*", or "<ts>-<seq>" as sent by the client
	Fields []stream.Field
}

func (XAdd) CommandName() string { return "XADD" }

type XRange struct {
	Key   string
	Start string // "-", "<ts>", or "<ts>-<seq>"
	End   string // "+", "<ts>", or "<ts>-<seq>"
}

func (XRange) CommandName() string { return "XRANGE" }

type XRead struct {
	Keys     []string
	IDSpecs  []string // "$" or "<ts>-<seq>", aligned with Keys
	HasBlock bool
	BlockMs  int64
}

func (XRead) CommandName() string { return "XREAD" }

type Multi struct{}

func (Multi) CommandName() string { return "MULTI" }

type Exec struct{}

func (Exec) CommandName() string { return "EXEC" }

type Discard struct{}

func (Discard) CommandName() string { return "DISCARD" }

type Subscribe struct {
	Channel string
}

func (Subscribe) CommandName() string { return "SUBSCRIBE" }

type Unsubscribe struct {
	Channel string
}

func (Unsubscribe) CommandName() string { return "UNSUBSCRIBE" }

type Publish struct {
	Channel string
	Message []byte
}

func (Publish) CommandName() string { return "PUBLISH" }

type ClientGetName struct{}

func (ClientGetName) CommandName() string { return "CLIENT" }

type ClientSetName struct {
	Name string
}

func (ClientSetName) CommandName() string { return "CLIENT" }

type CommandCount struct{}

func (CommandCount) CommandName() string { return "COMMAND" }
