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

// Package cmd wires the cobra CLI surface for the redisd binary.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kvproto/redisd/common"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "redisd",
	Short:   "A RESP-compatible in-memory key/value server.",
	Version: common.Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (optional)")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI; it is the only symbol main calls.
func Execute() error {
	return rootCmd.Execute()
}
