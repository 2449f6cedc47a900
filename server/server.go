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

// Package server exposes the admin HTTP surface: Prometheus metrics,
// pprof, and small operational endpoints for live log-level tuning and
// config reload. It never touches RESP traffic, which is served entirely
// over the engine's own TCP listener.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kvproto/redisd/common"
	"github.com/kvproto/redisd/internal/sigs"
	"github.com/kvproto/redisd/logger"
)

// Server is the admin HTTP server, separate from the RESP listener.
type Server struct {
	httpServer *http.Server
}

// New builds the admin server bound to addr. pprof gates whether
// /debug/pprof/* is mounted, wired from the admin.pprof config key.
func New(addr string, pprofEnabled bool) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/-/healthy", handleHealthy).Methods(http.MethodGet)
	router.HandleFunc("/-/logger", handleSetLoggerLevel).Methods(http.MethodPost)
	router.HandleFunc("/-/reload", handleReload).Methods(http.MethodPost)
	router.HandleFunc("/-/buildinfo", handleBuildInfo).Methods(http.MethodGet)

	if pprofEnabled {
		debug := router.PathPrefix("/debug/pprof").Subrouter()
		debug.HandleFunc("/", pprof.Index)
		debug.HandleFunc("/cmdline", pprof.Cmdline)
		debug.HandleFunc("/profile", pprof.Profile)
		debug.HandleFunc("/symbol", pprof.Symbol)
		debug.HandleFunc("/trace", pprof.Trace)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: router,
		},
	}
}

// Serve blocks until the server stops, returning http.ErrServerClosed on a
// clean Shutdown.
func (s *Server) Serve() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func handleHealthy(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleBuildInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(common.GetBuildInfo())
}

func handleSetLoggerLevel(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	if level == "" {
		http.Error(w, "missing level query parameter", http.StatusBadRequest)
		return
	}
	logger.SetLoggerLevel(level)
	w.WriteHeader(http.StatusOK)
}

// handleReload self-sends SIGHUP, routing through the same config-reload
// path sigs.Reload() feeds in cmd/serve.go rather than duplicating it.
func handleReload(w http.ResponseWriter, _ *http.Request) {
	if err := sigs.SelfReload(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
