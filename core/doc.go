// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package core runs an extraction: it enumerates the configured templates,
extracts messages from them in parallel, folds the results into one catalog
and writes it out.

Extraction is parallel; folding is not. Every per-file result passes
through a single consumer goroutine that owns the catalog.
*/
package core
