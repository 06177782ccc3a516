// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// print dumps the effective configuration at debug level.
func (cfg *Config) print() {
	log.Debug().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Msg("Starting tplxgettext")

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	configYAML, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2))
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Str("config", string(configYAML)).
		Msg("Application configuration")
}
