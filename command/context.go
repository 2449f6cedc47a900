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
	"github.com/kvproto/redisd/conn"
	"github.com/kvproto/redisd/pubsubreg"
	"github.com/kvproto/redisd/store"
	"github.com/kvproto/redisd/stream"
)

// ExecutionContext bundles every piece of shared state a command handler
// may need: the two keyspaces, the blocked-waiter registry, the pub/sub
// registry, the connection lookup (for delivering side-effect replies to
// other clients), and the connection that sent the command currently being
// executed.
type ExecutionContext struct {
	Store   *store.Store
	Streams *stream.Registry
	Blocked *blocked.Registry
	PubSub  *pubsubreg.PubSub
	Conns   *conn.Registry
	Conn    *conn.Connection

	// NoBlock is set by execExec while replaying a transaction's queued
	// commands: real Redis never suspends a client mid-EXEC, so BLPOP/
	// XREAD must resolve immediately (as their timeout/no-match case)
	// instead of registering a blocked-waiter record nobody will ever
	// unblock from inside this already-completed EXEC reply.
	NoBlock bool
}
