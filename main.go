// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
tplxgettext extracts translatable strings from template files into a
gettext PO catalog.

	tplxgettext -o po/messages.pot -D src -k '__:1c,2' views/*.vue
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"codeberg.org/tplxgettext/tplxgettext/config"
	"codeberg.org/tplxgettext/tplxgettext/core"
	"codeberg.org/tplxgettext/tplxgettext/core/audit"
)

// main is the entry point of the application.
func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
}

// run loads the configuration and performs one extraction.
func run(args []string) error {
	audit.SetDefaultLogger()

	var cfg config.Config
	if err := cfg.LoadConfig(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.ShowVersion {
		fmt.Println(cfg.Build.Version())

		return nil
	}

	runner, err := core.NewRunner(&cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	return runner.Run(context.Background())
}
