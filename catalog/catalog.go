// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog folds per-template extraction results into a single
gettext catalog keyed by context and msgid.

A Catalog is owned by one goroutine. Results from concurrent extraction
must be handed to Add one at a time.
*/
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"codeberg.org/tplxgettext/tplxgettext/extract"
)

// StandardInput labels references for text that did not come from a file.
const StandardInput = "standard input"

// ErrConflictingPlural is matched by every *PluralConflictError.
var ErrConflictingPlural = errors.New("conflicting plural forms")

// PluralConflictError reports a msgid seen with two different plural forms.
type PluralConflictError struct {
	Context  string
	Msgid    string
	Existing string
	Incoming string
}

func (e *PluralConflictError) Error() string {
	id := strconv.Quote(e.Msgid)
	if e.Context != "" {
		id += " (context " + strconv.Quote(e.Context) + ")"
	}

	return fmt.Sprintf("%s for msgid %s: %q and %q", ErrConflictingPlural, id, e.Existing, e.Incoming)
}

func (e *PluralConflictError) Is(target error) bool {
	return target == ErrConflictingPlural
}

// Entry is one catalog message.
type Entry struct {
	Context string
	Msgid   string
	Plural  string
	// Msgstr holds one slot for singular entries and at least two once a
	// plural form is known. Empty slots are untranslated.
	Msgstr []string
	// References holds sorted "<label>:<line>" tokens without duplicates.
	References []string
}

// Reference returns the references joined by newlines.
func (e *Entry) Reference() string {
	return strings.Join(e.References, "\n")
}

// IsPlural reports whether the entry carries a plural form.
func (e *Entry) IsPlural() bool {
	return e.Plural != ""
}

// Options tune aggregation.
type Options struct {
	// NoLocation skips reference bookkeeping entirely.
	NoLocation bool
}

// Catalog maps context -> msgid -> entry. Entries without context live
// under the empty context.
type Catalog struct {
	opts         Options
	translations map[string]map[string]*Entry
}

// New returns an empty catalog.
func New(opts Options) *Catalog {
	return &Catalog{
		opts:         opts,
		translations: make(map[string]map[string]*Entry),
	}
}

// Add folds the extraction result of one source into the catalog. label
// prefixes every reference, e.g. a file path or [StandardInput].
//
// Keys are visited in sorted order so a conflict is reported the same way on
// every run. The catalog may be partially updated when an error is returned.
func (c *Catalog) Add(label string, res extract.Result) error {
	keys := make([]string, 0, len(res))
	for k := range res {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if err := c.add(label, res[k]); err != nil {
			return err
		}
	}

	return nil
}

func (c *Catalog) add(label string, x *extract.Entry) error {
	entry := c.bucket(x.Context, x.Msgid)

	if x.Plural != "" {
		if entry.Plural != "" && entry.Plural != x.Plural {
			return &PluralConflictError{
				Context:  x.Context,
				Msgid:    x.Msgid,
				Existing: entry.Plural,
				Incoming: x.Plural,
			}
		}

		entry.Plural = x.Plural
		entry.Msgstr = widen(entry.Msgstr, 2)
	}

	if x.ConflictingPlural != "" {
		return &PluralConflictError{
			Context:  x.Context,
			Msgid:    x.Msgid,
			Existing: entry.Plural,
			Incoming: x.ConflictingPlural,
		}
	}

	if c.opts.NoLocation {
		return nil
	}

	refs := entry.References
	for _, line := range x.Lines {
		refs = append(refs, label+":"+strconv.Itoa(line))
	}

	entry.References = normalizeRefs(refs)

	return nil
}

// bucket returns the entry for (context, msgid), creating it if needed.
func (c *Catalog) bucket(context, msgid string) *Entry {
	msgs, ok := c.translations[context]
	if !ok {
		msgs = make(map[string]*Entry)
		c.translations[context] = msgs
	}

	entry, ok := msgs[msgid]
	if !ok {
		entry = &Entry{Context: context, Msgid: msgid, Msgstr: []string{""}}
		msgs[msgid] = entry
	}

	return entry
}

// Lookup returns the entry for (context, msgid).
func (c *Catalog) Lookup(context, msgid string) (*Entry, bool) {
	entry, ok := c.translations[context][msgid]

	return entry, ok
}

// Translations exposes the context -> msgid -> entry mapping.
func (c *Catalog) Translations() map[string]map[string]*Entry {
	return c.translations
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	n := 0
	for _, msgs := range c.translations {
		n += len(msgs)
	}

	return n
}

// Writable reports whether the catalog should be written out: it must hold
// at least one entry unless output is forced.
func (c *Catalog) Writable(force bool) bool {
	return force || c.Len() > 0
}

// Entries returns all entries ordered by context, then msgid.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, 0, c.Len())
	for _, msgs := range c.translations {
		for _, e := range msgs {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Context != out[j].Context {
			return out[i].Context < out[j].Context
		}

		return out[i].Msgid < out[j].Msgid
	})

	return out
}

// widen grows msgstr to at least n slots.
func widen(msgstr []string, n int) []string {
	for len(msgstr) < n {
		msgstr = append(msgstr, "")
	}

	return msgstr
}

// normalizeRefs sorts refs lexically and drops duplicates and blanks.
func normalizeRefs(refs []string) []string {
	refs = slices.DeleteFunc(refs, func(r string) bool { return strings.TrimSpace(r) == "" })
	slices.Sort(refs)

	return slices.Compact(refs)
}
