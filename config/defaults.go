// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "runtime"

const (
	// DefaultOutput is the catalog written when no output is configured.
	DefaultOutput = "messages.po"
	// DefaultFromCode is the input and output charset.
	DefaultFromCode = "utf-8"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Input.Directories = []string{"."}
	cfg.Input.FromCode = DefaultFromCode

	cfg.Output.Path = DefaultOutput
	cfg.Output.ForcePO = false
	cfg.Output.JoinExisting = false
	cfg.Output.NoLocation = false

	cfg.Keywords.NoDefaults = false

	cfg.Runtime.Jobs = runtime.NumCPU()
	cfg.Runtime.Progress = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
