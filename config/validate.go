// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"codeberg.org/tplxgettext/tplxgettext/keyword"
)

// validation errors.
var (
	errNoInput         = errors.New("no input file given")
	errInvalidJobs     = errors.New("jobs must be at least 1")
	errInvalidLogLevel = errors.New("invalid Log.Level value")
	errInvalidLogFmt   = errors.New("invalid Log.Format value")
	errUnknownEncoding = errors.New("unknown input encoding")
	errEmptyOutput     = errors.New("output path cannot be empty")
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if len(cfg.Input.Files) == 0 && cfg.Input.FilesFrom == "" {
		return errNoInput
	}

	if len(cfg.Input.Directories) == 0 {
		cfg.Input.Directories = []string{"."}
	}

	enc, err := htmlindex.Get(cfg.Input.FromCode)
	if err != nil {
		return fmt.Errorf("%w %q: %w", errUnknownEncoding, cfg.Input.FromCode, err)
	}

	cfg.Input.Encoding = enc

	if cfg.Output.Path == "" {
		return errEmptyOutput
	}

	if cfg.Runtime.Jobs < 1 {
		return errInvalidJobs
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return errInvalidLogLevel
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return errInvalidLogFmt
	}

	spec, err := cfg.resolveKeywords()
	if err != nil {
		return err
	}

	cfg.Keywords.Resolved = spec

	return nil
}

// resolveKeywords layers the built-in keywords, the keyword spec file, the
// inline spec and keyword flags, in that order.
func (cfg *Config) resolveKeywords() (keyword.Spec, error) {
	spec := keyword.Spec{}
	if !cfg.Keywords.NoDefaults {
		spec = keyword.Default()
	}

	if cfg.Keywords.SpecFile != "" {
		data, err := os.ReadFile(cfg.Keywords.SpecFile) // #nosec G304 -- user supplied keyword spec
		if err != nil {
			return nil, fmt.Errorf("failed to read keyword spec %s: %w", cfg.Keywords.SpecFile, err)
		}

		fromFile, err := keyword.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("keyword spec %s: %w", cfg.Keywords.SpecFile, err)
		}

		spec = spec.Merge(fromFile)
	}

	spec = spec.Merge(cfg.Keywords.Spec)

	flags := make([]string, 0, len(cfg.Keywords.Flags))
	for _, f := range cfg.Keywords.Flags {
		if f = strings.TrimSpace(f); f != "" {
			flags = append(flags, f)
		}
	}

	fromFlags, err := keyword.FromFlags(flags)
	if err != nil {
		return nil, err
	}

	spec = spec.Merge(fromFlags)

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return spec, nil
}
