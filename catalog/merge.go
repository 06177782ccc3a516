// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "slices"

// Merge reconciles c, freshly extracted, with existing, a previously
// written catalog.
//
// Fields already set on an entry of c are kept, so plural forms and
// references always follow the latest scan. Fields that are empty on c are
// filled from existing; this carries translator-written msgstr text over.
// Entries only present in existing are copied in. existing is not modified.
func (c *Catalog) Merge(existing *Catalog) {
	if existing == nil {
		return
	}

	for context, msgs := range existing.translations {
		for msgid, old := range msgs {
			entry, ok := c.Lookup(context, msgid)
			if !ok {
				c.bucket(context, msgid)
				c.translations[context][msgid] = old.clone()

				continue
			}

			entry.fill(old)
		}
	}
}

// fill copies fields that are empty on e from old.
func (e *Entry) fill(old *Entry) {
	if e.Plural == "" && old.Plural != "" {
		e.Plural = old.Plural
		e.Msgstr = widen(e.Msgstr, 2)
	}

	if len(e.References) == 0 && len(old.References) > 0 {
		e.References = slices.Clone(old.References)
	}

	for i, s := range old.Msgstr {
		switch {
		case i >= len(e.Msgstr):
			// Languages with more than two plural forms keep their extra slots.
			if e.IsPlural() {
				e.Msgstr = append(e.Msgstr, s)
			}
		case e.Msgstr[i] == "":
			e.Msgstr[i] = s
		}
	}
}

func (e *Entry) clone() *Entry {
	out := *e
	out.Msgstr = slices.Clone(e.Msgstr)
	out.References = slices.Clone(e.References)

	return &out
}
