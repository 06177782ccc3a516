// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/tplxgettext/tplxgettext/config"
)

// ErrNoInput is returned when no template is left to read.
var ErrNoInput = errors.New("no input files")

// source is one template to read.
type source struct {
	// path is the file system path.
	path string
	// label prefixes the references of this file; it always uses "/".
	label string
}

// resolveSources lists every input joined with every directory, directories
// first. Input names from files-from replace the positional inputs.
func resolveSources(cfg *config.Config) ([]source, error) {
	inputs := cfg.Input.Files

	if cfg.Input.FilesFrom != "" {
		var err error

		inputs, err = readFilesFrom(cfg)
		if err != nil {
			return nil, err
		}
	}

	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	dirs := cfg.Input.Directories
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	sources := make([]source, 0, len(dirs)*len(inputs))

	for _, dir := range dirs {
		for _, in := range inputs {
			name := filepath.FromSlash(strings.ReplaceAll(in, `\`, "/"))
			p := filepath.Join(dir, name)

			sources = append(sources, source{path: p, label: filepath.ToSlash(p)})
		}
	}

	return sources, nil
}

// readFilesFrom reads one input name per line, skipping blank lines.
func readFilesFrom(cfg *config.Config) ([]string, error) {
	data, err := os.ReadFile(cfg.Input.FilesFrom) // #nosec G304 -- user supplied file list
	if err != nil {
		return nil, fmt.Errorf("failed to read file list %s: %w", cfg.Input.FilesFrom, err)
	}

	text, err := decode(data, cfg.Input.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file list %s: %w", cfg.Input.FilesFrom, err)
	}

	var inputs []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		inputs = append(inputs, line)
	}

	return inputs, nil
}
