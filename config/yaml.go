// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// errInvalidConfigFile wraps every decoding failure of the YAML file,
// including unknown keys.
var errInvalidConfigFile = errors.New("invalid configuration file")

// readYAML layers the YAML file at path over cfg. A missing file is skipped;
// unknown keys are rejected so a misspelt option is not silently ignored.
func (cfg *Config) readYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user supplied config file
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().
			Str("path", path).
			Msg("No YAML configuration file, using defaults")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("%w %s: %w", errInvalidConfigFile, path, err)
	}

	return nil
}
