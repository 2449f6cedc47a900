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

// Package metrics exposes the server's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kvproto/redisd/common"
)

var (
	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "connections_total",
		Help:      "TCP connections accepted total.",
	})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Name:      "connections_active",
		Help:      "Currently open connections.",
	})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "commands_total",
		Help:      "Commands executed total, by command name.",
	}, []string{"command"})

	CommandErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "command_errors_total",
		Help:      "Commands that produced an error reply, by command name.",
	}, []string{"command"})

	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: common.App,
		Name:      "command_duration_seconds",
		Help:      "Time spent executing a single command on the executor goroutine.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"command"})

	BlockedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Name:      "blocked_clients",
		Help:      "Clients currently suspended on BLPOP or XREAD.",
	})

	ExpiredWaitersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "expired_waiters_total",
		Help:      "Blocked waiters that timed out without being woken.",
	})

	KeyspaceSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: common.App,
		Name:      "keyspace_size",
		Help:      "Live keys in the string/list keyspace (DBSIZE).",
	})
)
