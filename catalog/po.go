// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Header holds the values written to the catalog header entry.
type Header struct {
	ProjectIDVersion  string
	ReportMsgidBugsTo string
	CreationDate      time.Time
	Charset           string
}

var poEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\t", `\t`,
	"\r", `\r`,
	"\n", `\n`,
)

// Write renders the catalog as PO text: a header entry followed by every
// entry in [Catalog.Entries] order.
func (c *Catalog) Write(w io.Writer, h Header) error {
	bw := bufio.NewWriter(w)

	writeHeader(bw, h)

	for _, e := range c.Entries() {
		fmt.Fprintln(bw)

		for _, ref := range e.References {
			fmt.Fprintf(bw, "#: %s\n", ref)
		}

		if e.Context != "" {
			writeString(bw, "msgctxt", e.Context)
		}

		writeString(bw, "msgid", e.Msgid)

		if e.IsPlural() {
			writeString(bw, "msgid_plural", e.Plural)

			for i, s := range widen(e.Msgstr, 2) {
				writeString(bw, fmt.Sprintf("msgstr[%d]", i), s)
			}

			continue
		}

		msgstr := ""
		if len(e.Msgstr) > 0 {
			msgstr = e.Msgstr[0]
		}

		writeString(bw, "msgstr", msgstr)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}

func writeHeader(w io.Writer, h Header) {
	charset := h.Charset
	if charset == "" {
		charset = "UTF-8"
	}

	fmt.Fprintln(w, `msgid ""`)
	fmt.Fprintln(w, `msgstr ""`)

	if h.ProjectIDVersion != "" {
		fmt.Fprintf(w, "\"Project-Id-Version: %s\\n\"\n", poEscaper.Replace(h.ProjectIDVersion))
	}

	if h.ReportMsgidBugsTo != "" {
		fmt.Fprintf(w, "\"Report-Msgid-Bugs-To: %s\\n\"\n", poEscaper.Replace(h.ReportMsgidBugsTo))
	}

	if !h.CreationDate.IsZero() {
		fmt.Fprintf(w, "\"POT-Creation-Date: %s\\n\"\n", h.CreationDate.UTC().Format("2006-01-02 15:04+0000"))
	}

	fmt.Fprintln(w, `"MIME-Version: 1.0\n"`)
	fmt.Fprintf(w, "\"Content-Type: text/plain; charset=%s\\n\"\n", charset)
	fmt.Fprintln(w, `"Content-Transfer-Encoding: 8bit\n"`)
}

// writeString writes a keyword and its quoted value. Values with inner
// newlines are split after each newline, gettext style.
func writeString(w io.Writer, kw, s string) {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) <= 1 {
		fmt.Fprintf(w, "%s \"%s\"\n", kw, poEscaper.Replace(s))

		return
	}

	fmt.Fprintf(w, "%s \"\"\n", kw)

	for _, line := range lines {
		fmt.Fprintf(w, "\"%s\"\n", poEscaper.Replace(line))
	}
}
