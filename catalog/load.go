// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"

	"codeberg.org/tplxgettext/tplxgettext/extract"
)

// Parse reads PO text, as produced by [Catalog.Write] or by translators'
// tools, into a catalog suitable for [Catalog.Merge].
//
// Messages and translations come from gotext. References are read
// separately, since gotext does not keep them per entry.
func Parse(data []byte) *Catalog {
	po := gotext.NewPo()
	po.Parse(data)

	return fromDomain(po.GetDomain(), scanReferences(data))
}

func fromDomain(d *gotext.Domain, refs map[string][]string) *Catalog {
	c := New(Options{})

	for _, tr := range d.GetTranslations() {
		c.put("", tr, refs)
	}

	for context, trs := range d.GetCtxTranslations() {
		for _, tr := range trs {
			c.put(context, tr, refs)
		}
	}

	return c
}

// put stores a gotext translation. The header entry has an empty msgid and
// is skipped.
func (c *Catalog) put(context string, tr *gotext.Translation, refs map[string][]string) {
	if tr == nil || tr.ID == "" {
		return
	}

	entry := c.bucket(context, tr.ID)
	entry.Plural = tr.PluralID

	slots := 1
	if entry.Plural != "" {
		slots = 2
	}

	for i := range tr.Trs {
		if i+1 > slots {
			slots = i + 1
		}
	}

	entry.Msgstr = make([]string, slots)
	for i, s := range tr.Trs {
		entry.Msgstr[i] = s
	}

	entry.References = normalizeRefs(append([]string(nil), refs[extract.Key(context, tr.ID)]...))
}

// scanReferences maps extract.Key(context, msgid) to the "#:" references
// written directly above each entry. A reference belongs to the next msgid
// only; blank lines and the start of the next entry reset it.
func scanReferences(data []byte) map[string][]string {
	var (
		refs    = map[string][]string{}
		pending []string
		context strings.Builder
		msgid   strings.Builder
		field   string // keyword the current string continuation belongs to
		inEntry bool   // a msgid has been seen for the pending entry
	)

	flush := func() {
		if inEntry && len(pending) > 0 {
			key := extract.Key(context.String(), msgid.String())
			refs[key] = append(refs[key], pending...)
		}

		pending = nil
		inEntry = false
		field = ""

		context.Reset()
		msgid.Reset()
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(nil, len(data)+1)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#:"):
			if inEntry {
				flush()
			}

			pending = append(pending, strings.Fields(line[2:])...)
		case strings.HasPrefix(line, "#"):
			if inEntry {
				flush()
			}
		case strings.HasPrefix(line, "msgctxt "):
			if inEntry {
				flush()
			}

			field = "msgctxt"
			context.WriteString(unquotePO(line[len("msgctxt "):]))
		case strings.HasPrefix(line, "msgid "):
			if inEntry {
				flush()
			}

			field = "msgid"
			inEntry = true
			msgid.WriteString(unquotePO(line[len("msgid "):]))
		case strings.HasPrefix(line, `"`):
			switch field {
			case "msgctxt":
				context.WriteString(unquotePO(line))
			case "msgid":
				msgid.WriteString(unquotePO(line))
			}
		default:
			// msgid_plural, msgstr and msgstr[n]
			field = ""
		}
	}

	flush()

	return refs
}

// unquotePO decodes one quoted PO string, falling back to stripping the
// quotes when it is not a valid Go string literal.
func unquotePO(s string) string {
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}

	return strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
}
