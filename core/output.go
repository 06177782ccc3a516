// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"codeberg.org/tplxgettext/tplxgettext/catalog"
)

const (
	outputDirPermissions  = 0o755
	outputFilePermissions = 0o644
)

// write gates, reconciles and writes cat to the configured output.
func (r *Runner) write(cat *catalog.Catalog) error {
	cfg := r.cfg

	if !cat.Writable(cfg.Output.ForcePO) {
		log.Info().Msg("No translatable strings found, nothing to write")

		return nil
	}

	toStdout := cfg.WritesToStdout()

	if cfg.Output.JoinExisting && !toStdout {
		if err := r.joinExisting(cat); err != nil {
			return err
		}
	}

	var buf bytes.Buffer

	header := catalog.Header{
		ProjectIDVersion:  cfg.ProjectIDVersion(),
		ReportMsgidBugsTo: cfg.Output.MsgidBugsAddress,
		CreationDate:      r.Now(),
		Charset:           cfg.Input.FromCode,
	}

	if err := cat.Write(&buf, header); err != nil {
		return err
	}

	out, err := encode(buf.Bytes(), cfg.Input.Encoding)
	if err != nil {
		return fmt.Errorf("failed to encode catalog as %s: %w", cfg.Input.FromCode, err)
	}

	if toStdout {
		if _, err := r.Stdout.Write(out); err != nil {
			return fmt.Errorf("failed to write catalog to standard output: %w", err)
		}

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output.Path), outputDirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(cfg.Output.Path, out, outputFilePermissions); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", cfg.Output.Path, err)
	}

	log.Info().
		Str("path", cfg.Output.Path).
		Int("entries", cat.Len()).
		Msg("Wrote catalog")

	return nil
}

// joinExisting merges the catalog already at the output path into cat.
// A missing file is not an error.
func (r *Runner) joinExisting(cat *catalog.Catalog) error {
	path := r.cfg.Output.Path

	data, err := os.ReadFile(path) // #nosec G304 -- path is the configured output catalog
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().
			Str("path", path).
			Msg("No existing catalog to join")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read existing catalog %s: %w", path, err)
	}

	text, err := decode(data, r.cfg.Input.Encoding)
	if err != nil {
		return fmt.Errorf("failed to decode existing catalog %s: %w", path, err)
	}

	existing := catalog.Parse([]byte(text))
	cat.Merge(existing)

	log.Info().
		Str("path", path).
		Int("existing", existing.Len()).
		Msg("Joined existing catalog")

	return nil
}
