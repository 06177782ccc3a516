// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// readEnv populates cfg with values from TPLXGETTEXT_* environment
// variables. Unset variables leave the current value in place.
func readEnv(cfg *Config) error {
	return env.Parse(cfg)
}

// useDotEnv loads environment variables from a .env file, checking
// the current working directory, then the directory of the binary.
//
// Variables already present in the environment are never overridden.
// Missing or unreadable files are logged and skipped.
func useDotEnv() {
	var candidates []string

	if cwd, err := os.Getwd(); err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}

	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".env"))
	}

	for _, envPath := range candidates {
		err := godotenv.Load(envPath)
		if err == nil {
			log.Debug().
				Str("path", envPath).
				Msg("Loaded configuration from .env file")

			return
		}

		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().
				Err(err).
				Str("path", envPath).
				Msg("Error trying to load .env file")
		}
	}
}
