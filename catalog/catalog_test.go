// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tplxgettext/tplxgettext/extract"
	"codeberg.org/tplxgettext/tplxgettext/keyword"
)

func TestAddReferences(t *testing.T) {
	t.Parallel()

	c := New(Options{})

	require.NoError(t, c.Add("b.vue", extract.Result{
		"Hello": {Msgid: "Hello", Lines: []int{2, 10}},
	}))
	require.NoError(t, c.Add("a.vue", extract.Result{
		"Hello": {Msgid: "Hello", Lines: []int{7, 7}},
	}))

	e, ok := c.Lookup("", "Hello")
	require.True(t, ok)

	// Lexical, not numeric, order.
	assert.Equal(t, []string{"a.vue:7", "b.vue:10", "b.vue:2"}, e.References)
	assert.Equal(t, "a.vue:7\nb.vue:10\nb.vue:2", e.Reference())
	assert.Equal(t, []string{""}, e.Msgstr)
	assert.False(t, e.IsPlural())
	assert.Equal(t, 1, c.Len())
}

func TestAddNoLocation(t *testing.T) {
	t.Parallel()

	c := New(Options{NoLocation: true})
	require.NoError(t, c.Add("a.vue", extract.Result{"Hello": {Msgid: "Hello", Lines: []int{1}}}))

	e, ok := c.Lookup("", "Hello")
	require.True(t, ok)
	assert.Empty(t, e.References)
}

func TestAddContextIdentity(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	require.NoError(t, c.Add(StandardInput, extract.Result{
		"Yes":              {Msgid: "Yes", Lines: []int{1}},
		extract.Key("ctx", "Yes"): {Msgid: "Yes", Context: "ctx", Lines: []int{2}},
	}))

	assert.Equal(t, 2, c.Len())

	plain, ok := c.Lookup("", "Yes")
	require.True(t, ok)
	assert.Equal(t, []string{"standard input:1"}, plain.References)

	ctx, ok := c.Lookup("ctx", "Yes")
	require.True(t, ok)
	assert.Equal(t, "ctx", ctx.Context)
	assert.Equal(t, []string{"standard input:2"}, ctx.References)
}

func TestAddPlural(t *testing.T) {
	t.Parallel()

	t.Run("one sided plural", func(t *testing.T) {
		t.Parallel()

		c := New(Options{})
		require.NoError(t, c.Add("a", extract.Result{"item": {Msgid: "item", Lines: []int{1}}}))
		require.NoError(t, c.Add("b", extract.Result{"item": {Msgid: "item", Plural: "items", Lines: []int{1}}}))
		require.NoError(t, c.Add("c", extract.Result{"item": {Msgid: "item", Lines: []int{1}}}))

		e, _ := c.Lookup("", "item")
		assert.Equal(t, "items", e.Plural)
		assert.Equal(t, []string{"", ""}, e.Msgstr)
	})

	t.Run("same plural twice", func(t *testing.T) {
		t.Parallel()

		c := New(Options{})
		require.NoError(t, c.Add("a", extract.Result{"item": {Msgid: "item", Plural: "items", Lines: []int{1}}}))
		require.NoError(t, c.Add("b", extract.Result{"item": {Msgid: "item", Plural: "items", Lines: []int{1}}}))
	})

	t.Run("conflicting plural", func(t *testing.T) {
		t.Parallel()

		c := New(Options{})
		require.NoError(t, c.Add("a", extract.Result{"item": {Msgid: "item", Plural: "items", Lines: []int{1}}}))

		err := c.Add("b", extract.Result{"item": {Msgid: "item", Plural: "things", Lines: []int{1}}})
		require.ErrorIs(t, err, ErrConflictingPlural)

		var conflict *PluralConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "item", conflict.Msgid)
		assert.Equal(t, "items", conflict.Existing)
		assert.Equal(t, "things", conflict.Incoming)
		assert.Contains(t, err.Error(), `"items"`)
		assert.Contains(t, err.Error(), `"things"`)
	})

	t.Run("conflicting plural within one file", func(t *testing.T) {
		t.Parallel()

		p, err := extract.New(keyword.Default())
		require.NoError(t, err)

		res := p.Parse("$ngettext('1 item', '%d items', n)\n$ngettext('1 item', '%d things', n)")

		c := New(Options{})
		err = c.Add("a.vue", res)
		require.ErrorIs(t, err, ErrConflictingPlural)

		var conflict *PluralConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "%d items", conflict.Existing)
		assert.Equal(t, "%d things", conflict.Incoming)
	})
}

func TestWritable(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	assert.False(t, c.Writable(false))
	assert.True(t, c.Writable(true))

	require.NoError(t, c.Add("a", extract.Result{"x": {Msgid: "x", Lines: []int{1}}}))
	assert.True(t, c.Writable(false))
}

func TestEntriesOrder(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	require.NoError(t, c.Add("a", extract.Result{
		"b":                     {Msgid: "b", Lines: []int{1}},
		"a":                     {Msgid: "a", Lines: []int{1}},
		extract.Key("menu", "a"): {Msgid: "a", Context: "menu", Lines: []int{1}},
	}))

	var got []string
	for _, e := range c.Entries() {
		got = append(got, e.Context+"|"+e.Msgid)
	}

	assert.Equal(t, []string{"|a", "|b", "menu|a"}, got)
	assert.Len(t, c.Translations(), 2)
}
