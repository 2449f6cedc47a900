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

package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/kvproto/redisd/common"
	"github.com/kvproto/redisd/confengine"
	"github.com/kvproto/redisd/engine"
	"github.com/kvproto/redisd/internal/sigs"
	"github.com/kvproto/redisd/logger"
	"github.com/kvproto/redisd/resp"
	"github.com/kvproto/redisd/server"
)

// serverSection configures the RESP TCP listener and the codec bounds
// every connection it accepts is parsed under, plus the executor's
// no-waiter wake cadence (spec.md §4.H's 100ms poll cap).
type serverSection struct {
	Address             string `config:"address"`
	MaxDepth            int    `config:"maxDepth"`
	MaxCollectionSize   int    `config:"maxCollectionSize"`
	MaxStringLength     int    `config:"maxStringLength"`
	BlockPollIntervalMs int    `config:"blockPollInterval"`
}

// adminSection configures the secondary HTTP server exposing metrics,
// pprof, and the live-reload/log-level endpoints.
type adminSection struct {
	Enabled bool   `config:"enabled"`
	Address string `config:"address"`
	Pprof   bool   `config:"pprof"`
}

// serveConfig is the top-level shape unpacked from --config's YAML, with
// defaults from defaultServeConfig when the file is absent or a key is
// unset.
type serveConfig struct {
	Server serverSection  `config:"server"`
	Admin  adminSection   `config:"admin"`
	Logger logger.Options `config:"logger"`
}

func defaultServeConfig() serveConfig {
	limits := resp.DefaultLimits()
	return serveConfig{
		Server: serverSection{
			Address:             common.DefaultAddress,
			MaxDepth:            limits.MaxDepth,
			MaxCollectionSize:   limits.MaxCollectionSize,
			MaxStringLength:     limits.MaxStringLength,
			BlockPollIntervalMs: 100,
		},
		Admin: adminSection{
			Enabled: true,
			Address: "127.0.0.1:9121",
			Pprof:   true,
		},
		Logger: logger.Options{Stdout: true, Level: "info"},
	}
}

func (s serverSection) limits() resp.Limits {
	return resp.Limits{
		MaxDepth:          s.MaxDepth,
		MaxCollectionSize: s.MaxCollectionSize,
		MaxStringLength:   s.MaxStringLength,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the RESP server and admin HTTP endpoint.",
	RunE:  runServe,
}

func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()
	if path == "" {
		return cfg, nil
	}
	c, err := confengine.LoadConfigPath(path)
	if err != nil {
		return cfg, err
	}
	if err := c.Unpack(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig(configPath)
	if err != nil {
		return err
	}
	logger.SetOptions(cfg.Logger)

	e := engine.New()
	e.SetPollInterval(time.Duration(cfg.Server.BlockPollIntervalMs) * time.Millisecond)
	listener, err := engine.Listen(cfg.Server.Address, e, cfg.Server.limits())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)
	go listener.Serve()
	logger.Infof("redisd listening on %s", cfg.Server.Address)

	var admin *server.Server
	if cfg.Admin.Enabled {
		admin = server.New(cfg.Admin.Address, cfg.Admin.Pprof)
		go func() {
			if err := admin.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("admin server stopped: %v", err)
			}
		}()
		logger.Infof("admin endpoint listening on %s", cfg.Admin.Address)
	}

	reload := sigs.Reload()
	terminate := sigs.Terminate()
	for {
		select {
		case <-reload:
			newCfg, err := loadServeConfig(configPath)
			if err != nil {
				logger.Errorf("config reload failed: %v", err)
				continue
			}
			logger.SetOptions(newCfg.Logger)
			e.SetPollInterval(time.Duration(newCfg.Server.BlockPollIntervalMs) * time.Millisecond)
			logger.Infof("config reloaded")
		case <-terminate:
			return shutdown(cancel, listener, admin)
		}
	}
}

func shutdown(cancel context.CancelFunc, listener *engine.Listener, admin *server.Server) error {
	logger.Infof("shutting down")
	cancel()

	var result *multierror.Error
	if err := listener.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	if admin != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := admin.Shutdown(shutdownCtx); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
