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

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvproto/redisd/internal/sigs"
)

func TestHandleHealthy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/-/healthy", nil)
	rec := httptest.NewRecorder()

	handleHealthy(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleBuildInfo(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/-/buildinfo", nil)
	rec := httptest.NewRecorder()

	handleBuildInfo(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Version")
}

func TestHandleSetLoggerLevelRequiresLevel(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/-/logger", nil)
	rec := httptest.NewRecorder()

	handleSetLoggerLevel(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSetLoggerLevelAccepted(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/-/logger?level=debug", nil)
	rec := httptest.NewRecorder()

	handleSetLoggerLevel(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRegistersRoutes(t *testing.T) {
	s := New("127.0.0.1:0", true)
	require.NotNil(t, s.httpServer)
	assert.NotNil(t, s.httpServer.Handler)
}

// TestHandleReloadSendsSIGHUP registers a SIGHUP listener (as sigs.Reload
// does for the real reload loop) before invoking the handler, so the
// self-sent signal is observed on a channel instead of falling through to
// the OS default action for SIGHUP.
func TestHandleReloadSendsSIGHUP(t *testing.T) {
	reload := sigs.Reload()

	req := httptest.NewRequest(http.MethodPost, "/-/reload", nil)
	rec := httptest.NewRecorder()
	handleReload(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	select {
	case <-reload:
	case <-time.After(2 * time.Second):
		t.Fatal("expected /-/reload to deliver SIGHUP")
	}
}
