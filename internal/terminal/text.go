// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended to labels cut to fit the screen.
const Ellipsis = "..."

// DisplayWidth returns the number of cells s occupies once ANSI sequences
// are removed.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// RunesWidth returns the display width of a rune slice.
func RunesWidth(rs []rune) int {
	w := 0
	for _, r := range rs {
		w += runewidth.RuneWidth(r)
	}
	return w
}

// SanitizeLabel makes s safe to draw on one row:
//   - NFC normalised
//   - ANSI escape sequences stripped
//   - every run of \r, \n and \t collapsed to one space
//   - other control characters dropped
//   - truncated to maxWidth cells with Ellipsis when maxWidth > 0
func SanitizeLabel(s string, maxWidth int) string {
	s = norm.NFC.String(ansi.Strip(s))

	var b strings.Builder
	b.Grow(len(s))
	inBreak := false
	for _, r := range s {
		switch {
		case r == '\r' || r == '\n' || r == '\t':
			if !inBreak {
				b.WriteByte(' ')
				inBreak = true
			}
			continue
		case unicode.IsControl(r):
			continue
		}
		inBreak = false
		b.WriteRune(r)
	}

	out := b.String()
	if maxWidth > 0 && runewidth.StringWidth(out) > maxWidth {
		out = runewidth.Truncate(out, maxWidth, Ellipsis)
	}
	return out
}
