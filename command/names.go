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
	_ "embed"
	"strings"
)

//go:embed command.list
var commandListContent string

var (
	knownCommands map[string]struct{}
	knownSubs     map[string]map[string]struct{}
)

func init() {
	knownCommands = make(map[string]struct{})
	knownSubs = make(map[string]map[string]struct{})

	for _, line := range strings.Split(commandListContent, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]
		knownCommands[cmd] = struct{}{}
		if len(fields) > 1 {
			if knownSubs[cmd] == nil {
				knownSubs[cmd] = make(map[string]struct{})
			}
			knownSubs[cmd][fields[1]] = struct{}{}
		}
	}
}

// IsKnownCommand reports whether name (already uppercased) is a
// recognized top-level command.
func IsKnownCommand(name string) bool {
	_, ok := knownCommands[name]
	return ok
}

// IsKnownSubCommand reports whether sub is a recognized subcommand of cmd.
func IsKnownSubCommand(cmd, sub string) bool {
	subs, ok := knownSubs[cmd]
	if !ok {
		return false
	}
	_, ok = subs[sub]
	return ok
}

// Count returns the number of recognized top-level command names, backing
// COMMAND COUNT.
func Count() int {
	return len(knownCommands)
}

// subscribedAllowList is the set of commands permitted while a connection
// is in the Subscribed state (spec.md §4.E): PING plus the subscription
// commands themselves.
var subscribedAllowList = map[string]struct{}{
	"PING":        {},
	"SUBSCRIBE":   {},
	"UNSUBSCRIBE": {},
}

// AllowedWhileSubscribed reports whether name may run on a connection in
// the Subscribed state.
func AllowedWhileSubscribed(name string) bool {
	_, ok := subscribedAllowList[name]
	return ok
}
