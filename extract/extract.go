// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract finds translatable string literals in template text.

It is a lexical scan, not a parser for the host template language: any
occurrence of a configured keyword followed by "(" and one or more string
literals is treated as a translation call, wherever it appears.

	p, err := extract.New(keyword.Default())
	res := p.Parse(`<h1>{{ $t('Hello') }}</h1>`)
	// res["Hello"].Lines == []int{1}
*/
package extract

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"

	"codeberg.org/tplxgettext/tplxgettext/keyword"
)

// literalPattern matches one double-, single- or back-quoted string literal.
// A backslash escapes the following character, including a newline.
const literalPattern = `"(?:[^"\\]|\\[\s\S])*"` +
	`|'(?:[^'\\]|\\[\s\S])*'` +
	"|`(?:[^`\\\\]|\\\\[\\s\\S])*`"

var (
	literalRegexp = regexp.MustCompile(literalPattern)
	newlineRegexp = regexp.MustCompile(`\r\n|\r|\n`)

	unescaper = strings.NewReplacer(`\"`, `"`, `\'`, `'`)
)

// Entry is one extracted message.
type Entry struct {
	Msgid   string
	Plural  string
	Context string
	// ConflictingPlural is the first plural form seen for this message that
	// differs from Plural. Plural itself keeps the first one.
	ConflictingPlural string
	// Lines holds the 1-based line of every occurrence, ascending.
	// The same line may appear more than once.
	Lines []int
}

// Result maps Key(context, msgid) to the extracted entry.
type Result map[string]*Entry

// Key returns the identity of a message: msgid alone, or context and msgid
// joined by the gettext EOT separator.
func Key(context, msgid string) string {
	if context != "" {
		return context + gotext.EotSeparator + msgid
	}

	return msgid
}

// Parser extracts messages for a fixed keyword spec. It holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	spec    keyword.Spec
	pattern *regexp.Regexp
}

// New compiles a parser for spec. An invalid spec is rejected here, before
// any text is scanned.
func New(spec keyword.Spec) (*Parser, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	names := spec.Names()

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}

	pattern, err := regexp.Compile(fmt.Sprintf(
		`(%s)\s*\(\s*((?:(?:%s)\s*,?\s*)+)`,
		strings.Join(quoted, "|"),
		literalPattern,
	))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", keyword.ErrInvalidSpec, err)
	}

	return &Parser{spec: spec, pattern: pattern}, nil
}

// Parse returns every message found in template.
func (p *Parser) Parse(template string) Result {
	result := Result{}

	var (
		line   = 1
		offset = 0
	)

	for _, m := range p.pattern.FindAllStringSubmatchIndex(template, -1) {
		// Matches are ordered, so counting line breaks from the previous
		// match keeps the whole scan linear.
		line += len(newlineRegexp.FindAllStringIndex(template[offset:m[0]], -1))
		offset = m[0]

		name := template[m[2]:m[3]]
		args := literals(template[m[4]:m[5]])

		msgid, plural, context, ok := resolve(p.spec[name], args)
		if !ok {
			continue
		}

		key := Key(context, msgid)

		entry, found := result[key]
		if !found {
			entry = &Entry{Msgid: msgid, Context: context}
			result[key] = entry
		}

		entry.Lines = append(entry.Lines, line)
		slices.Sort(entry.Lines)

		switch {
		case entry.Plural == "":
			entry.Plural = plural
		case plural != "" && plural != entry.Plural && entry.ConflictingPlural == "":
			entry.ConflictingPlural = plural
		}
	}

	return result
}

// literals splits an argument run into clean literal values.
func literals(run string) []string {
	tokens := literalRegexp.FindAllString(run, -1)

	values := make([]string, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		values[i] = unescaper.Replace(tok[1 : len(tok)-1])
	}

	return values
}

// resolve maps roles onto args. It fails when the msgid or context role
// points past the literal run, and when the msgid is empty.
func resolve(roles keyword.Roles, args []string) (msgid, plural, context string, ok bool) {
	at := func(idx *int) (string, bool) {
		if idx == nil || *idx >= len(args) {
			return "", false
		}

		return args[*idx], true
	}

	msgid, ok = at(roles.Msgid)
	if !ok || msgid == "" {
		return "", "", "", false
	}

	if roles.Context != nil {
		if context, ok = at(roles.Context); !ok {
			return "", "", "", false
		}
	}

	plural, _ = at(roles.Plural)

	return msgid, plural, context, true
}
