// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"codeberg.org/tplxgettext/tplxgettext/catalog"
	"codeberg.org/tplxgettext/tplxgettext/config"
	"codeberg.org/tplxgettext/tplxgettext/keyword"
)

// newTestRunner returns a runner reading from dir and writing dir/out/messages.po.
func newTestRunner(t *testing.T, dir string, files ...string) (*Runner, *config.Config) {
	t.Helper()

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Input.Files = files
	cfg.Input.Directories = []string{dir}
	cfg.Input.Encoding = unicode.UTF8
	cfg.Keywords.Resolved = keyword.Default()
	cfg.Output.Path = filepath.Join(dir, "out", "messages.po")
	cfg.Runtime.Jobs = 2

	r, err := NewRunner(cfg)
	require.NoError(t, err)

	r.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC) }

	return r, cfg
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func label(dir, name string) string {
	return filepath.ToSlash(filepath.Join(dir, name))
}

func TestRunWritesCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.vue":     "<p>{{ $t('Hello') }}</p>\n<p>{{ $t('Bye') }}</p>",
		"sub/b.vue": "\n{{ $t('Hello') }}\n{{ $ngettext('1 file', '%d files', n) }}",
	})

	r, cfg := newTestRunner(t, dir, "a.vue", "sub/b.vue")
	require.NoError(t, r.Run(context.Background()))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"POT-Creation-Date: 2025-01-02 03:04+0000\n"`)
	assert.Contains(t, out, "#: "+label(dir, "a.vue")+":1\n#: "+label(dir, "sub/b.vue")+":2\nmsgid \"Hello\"\n")
	assert.Contains(t, out, "#: "+label(dir, "a.vue")+":2\nmsgid \"Bye\"\n")
	assert.Contains(t, out, "msgid \"1 file\"\nmsgid_plural \"%d files\"\nmsgstr[0] \"\"\nmsgstr[1] \"\"\n")
}

func TestRunFatalErrorsWriteNothing(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"a.vue": "$t('Hello')"})

		r, cfg := newTestRunner(t, dir, "a.vue", "missing.vue")
		err := r.Run(context.Background())
		require.ErrorIs(t, err, os.ErrNotExist)

		_, statErr := os.Stat(cfg.Output.Path)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})

	t.Run("conflicting plural", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"a.vue": "$ngettext('1 file', '%d files', n)",
			"b.vue": "$ngettext('1 file', '%d documents', n)",
		})

		r, cfg := newTestRunner(t, dir, "a.vue", "b.vue")
		err := r.Run(context.Background())
		require.ErrorIs(t, err, catalog.ErrConflictingPlural)

		_, statErr := os.Stat(cfg.Output.Path)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})

	t.Run("conflicting plural in one file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"a.vue": "$ngettext('1 file', '%d files', n)\n$ngettext('1 file', '%d documents', n)",
		})

		r, cfg := newTestRunner(t, dir, "a.vue")
		err := r.Run(context.Background())
		require.ErrorIs(t, err, catalog.ErrConflictingPlural)

		_, statErr := os.Stat(cfg.Output.Path)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})
}

func TestRunNothingToWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.vue": "<p>no messages here</p>"})

	r, cfg := newTestRunner(t, dir, "a.vue")
	require.NoError(t, r.Run(context.Background()))

	_, err := os.Stat(cfg.Output.Path)
	require.ErrorIs(t, err, os.ErrNotExist)

	cfg.Output.ForcePO = true
	require.NoError(t, r.Run(context.Background()))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "msgid \"\"\nmsgstr \"\"\n"))
	assert.NotContains(t, string(data), "#:")
}

func TestRunJoinExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.vue": "\n$t('Hello')",
		"out/messages.po": `msgid ""
msgstr ""
"Content-Type: text/plain; charset=utf-8\n"

#: old.vue:9
msgid "Hello"
msgstr "Bonjour"

msgid "Obsolete"
msgstr "Obsolète"
`,
	})

	r, cfg := newTestRunner(t, dir, "a.vue")
	cfg.Output.JoinExisting = true
	require.NoError(t, r.Run(context.Background()))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "#: "+label(dir, "a.vue")+":2\nmsgid \"Hello\"\nmsgstr \"Bonjour\"\n")
	assert.NotContains(t, out, "old.vue:9")
	assert.Contains(t, out, "msgid \"Obsolete\"\nmsgstr \"Obsolète\"\n")
}

func TestRunJoinExistingMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.vue": "$t('Hello')"})

	r, cfg := newTestRunner(t, dir, "a.vue")
	cfg.Output.JoinExisting = true
	require.NoError(t, r.Run(context.Background()))

	_, err := os.Stat(cfg.Output.Path)
	require.NoError(t, err)
}

func TestRunStdin(t *testing.T) {
	t.Parallel()

	r, cfg := newTestRunner(t, t.TempDir(), "-")
	cfg.Output.Path = "-"
	cfg.Output.NoLocation = false

	var stdout bytes.Buffer
	r.Stdin = strings.NewReader("\n\n{{ $pgettext('menu', 'File') }}")
	r.Stdout = &stdout

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, stdout.String(), "#: standard input:3\nmsgctxt \"menu\"\nmsgid \"File\"\nmsgstr \"\"\n")
}

func TestRunNoLocation(t *testing.T) {
	t.Parallel()

	r, cfg := newTestRunner(t, t.TempDir(), "-")
	cfg.Output.Path = "-"
	cfg.Output.NoLocation = true

	var stdout bytes.Buffer
	r.Stdin = strings.NewReader("$t('Hello')")
	r.Stdout = &stdout

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, stdout.String(), "msgid \"Hello\"")
	assert.NotContains(t, stdout.String(), "#:")
}

func TestRunLatin1(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.tpl": "$t('caf\xe9')"})

	r, cfg := newTestRunner(t, dir, "a.tpl")
	cfg.Input.FromCode = "iso-8859-1"
	cfg.Input.Encoding = charmap.ISO8859_1

	cat, err := r.Collect(context.Background())
	require.NoError(t, err)

	_, ok := cat.Lookup("", "café")
	require.True(t, ok)

	require.NoError(t, r.Run(context.Background()))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msgid \"caf\xe9\"")
	assert.Contains(t, string(data), "charset=iso-8859-1")
}

func TestRunManyFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{}
	names := []string{}

	for i := range 50 {
		name := filepath.Join("views", strings.Repeat("x", i+1)+".vue")
		files[name] = "$t('Shared')\n$t('Own " + name + "')"
		names = append(names, name)
	}

	writeFiles(t, dir, files)

	r, _ := newTestRunner(t, dir, names...)

	cat, err := r.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 51, cat.Len())

	shared, ok := cat.Lookup("", "Shared")
	require.True(t, ok)
	assert.Len(t, shared.References, 50)
}

func TestResolveSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"list.txt": "a.vue\n\n  \nsub\\b.vue\r\n"})

	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Input.Directories = []string{"x", "y"}
	cfg.Input.FilesFrom = filepath.Join(dir, "list.txt")

	sources, err := resolveSources(cfg)
	require.NoError(t, err)

	labels := make([]string, len(sources))
	for i, s := range sources {
		labels[i] = s.label
	}

	assert.Equal(t, []string{"x/a.vue", "x/sub/b.vue", "y/a.vue", "y/sub/b.vue"}, labels)

	cfg.Input.FilesFrom = ""
	_, err = resolveSources(cfg)
	require.ErrorIs(t, err, ErrNoInput)
}

func TestExtractString(t *testing.T) {
	t.Parallel()

	cat, err := ExtractString("$t('Hello')\n\n\n\n$t('Hello')", keyword.Default(), catalog.Options{})
	require.NoError(t, err)

	e, ok := cat.Lookup("", "Hello")
	require.True(t, ok)
	assert.Equal(t, []string{"standard input:1", "standard input:5"}, e.References)

	_, err = ExtractString("", keyword.Spec{}, catalog.Options{})
	require.ErrorIs(t, err, keyword.ErrInvalidSpec)
}
