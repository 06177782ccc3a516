// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/trace"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"codeberg.org/tplxgettext/tplxgettext/catalog"
	"codeberg.org/tplxgettext/tplxgettext/config"
	"codeberg.org/tplxgettext/tplxgettext/core/audit"
	"codeberg.org/tplxgettext/tplxgettext/extract"
	"codeberg.org/tplxgettext/tplxgettext/keyword"
)

const progressBarWidth = 40

// Runner executes one extraction run for a loaded configuration.
type Runner struct {
	cfg    *config.Config
	parser *extract.Parser

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	// Now stamps the catalog header.
	Now func() time.Time
}

// NewRunner builds a runner. It fails if the resolved keyword spec is invalid.
func NewRunner(cfg *config.Config) (*Runner, error) {
	parser, err := extract.New(cfg.Keywords.Resolved)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		parser: parser,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Now:    time.Now,
	}, nil
}

// Run extracts, aggregates and writes the catalog. Any read error or plural
// conflict aborts the run before anything is written.
func (r *Runner) Run(ctx context.Context) error {
	cat, err := r.Collect(ctx)
	if err != nil {
		return err
	}

	return r.write(cat)
}

// Collect extracts every configured input into a new catalog.
func (r *Runner) Collect(ctx context.Context) (*catalog.Catalog, error) {
	cat := catalog.New(catalog.Options{NoLocation: r.cfg.Output.NoLocation})

	if r.cfg.ReadsStdin() {
		data, err := io.ReadAll(r.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}

		text, err := decode(data, r.cfg.Input.Encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to decode standard input: %w", err)
		}

		if err := cat.Add(catalog.StandardInput, r.parser.Parse(text)); err != nil {
			return nil, err
		}

		return cat, nil
	}

	sources, err := resolveSources(r.cfg)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("files", len(sources)).
		Int("jobs", r.cfg.Runtime.Jobs).
		Msg("Extracting")

	if err := r.fold(ctx, cat, sources); err != nil {
		return nil, err
	}

	return cat, nil
}

// extracted is one finished per-file result waiting to be folded.
type extracted struct {
	label  string
	result extract.Result
}

// fold extracts sources with at most Runtime.Jobs workers and adds each
// result to cat from a single consumer goroutine, in completion order.
func (r *Runner) fold(ctx context.Context, cat *catalog.Catalog, sources []source) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	bar := r.progressBar(len(sources))

	results := make(chan extracted)
	done := make(chan struct{})

	var foldErr error

	go func() {
		defer close(done)

		for res := range results {
			if foldErr != nil {
				continue
			}

			if err := cat.Add(res.label, res.result); err != nil {
				foldErr = err
				cancel(err)

				continue
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Runtime.Jobs)

	for _, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := r.extractFile(gctx, src)
			if err != nil {
				return err
			}

			select {
			case results <- extracted{label: src.label, result: res}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	err := g.Wait()

	close(results)
	<-done

	if bar != nil {
		_ = bar.Finish()
	}

	if foldErr != nil {
		return foldErr
	}

	return err
}

func (r *Runner) extractFile(ctx context.Context, src source) (extract.Result, error) {
	span := audit.Span{Label: src.label}
	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Log()
	}()

	var (
		data []byte
		err  error
	)

	trace.WithRegion(ctx, "read", func() {
		data, err = os.ReadFile(src.path) // #nosec G304 -- reading user supplied templates is the point
	})

	if err != nil {
		span.Error = err

		return nil, fmt.Errorf("failed to read %s: %w", src.path, err)
	}

	span.Bytes = len(data)

	text, err := decode(data, r.cfg.Input.Encoding)
	if err != nil {
		span.Error = err

		return nil, fmt.Errorf("failed to decode %s as %s: %w", src.path, r.cfg.Input.FromCode, err)
	}

	var res extract.Result

	trace.WithRegion(ctx, "parse", func() {
		res = r.parser.Parse(text)
	})

	span.Entries = len(res)

	return res, nil
}

// progressBar returns nil unless progress output is enabled and stderr is a terminal.
func (r *Runner) progressBar(n int) *progressbar.ProgressBar {
	if !r.cfg.Runtime.Progress || n == 0 || !config.IsTerminal(os.Stderr) {
		return nil
	}

	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(progressBarWidth),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("[cyan]extracting[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// ExtractString extracts text synchronously, labelling references as
// [catalog.StandardInput].
func ExtractString(text string, spec keyword.Spec, opts catalog.Options) (*catalog.Catalog, error) {
	parser, err := extract.New(spec)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(opts)
	if err := cat.Add(catalog.StandardInput, parser.Parse(text)); err != nil {
		return nil, err
	}

	return cat, nil
}
