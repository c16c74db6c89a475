// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"regexp"
	"strings"

	"github.com/muesli/termenv"
)

// markupToken matches [$name] and the closing [$/].
var markupToken = regexp.MustCompile(`\[\$(/|[a-z]+)\]`)

var markupColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
}

type markupStyle func(termenv.Style) termenv.Style

func styleFor(out *termenv.Output, name string) (markupStyle, bool) {
	if code, ok := markupColors[name]; ok {
		c := out.Color(code)
		return func(s termenv.Style) termenv.Style { return s.Foreground(c) }, true
	}
	switch name {
	case "bold":
		return termenv.Style.Bold, true
	case "dim":
		return termenv.Style.Faint, true
	case "italic":
		return termenv.Style.Italic, true
	case "underline":
		return termenv.Style.Underline, true
	}
	return nil, false
}

// RenderMarkup converts [$color]text[$/] tokens into ANSI sequences for out's
// profile. Tokens stack until [$/], which resets all of them. Unknown names
// are left in the text as written.
func RenderMarkup(out *termenv.Output, s string) string {
	if !strings.Contains(s, "[$") {
		return s
	}

	var b strings.Builder
	var active []markupStyle
	last := 0

	flush := func(text string) {
		if text == "" {
			return
		}
		if len(active) == 0 {
			b.WriteString(text)
			return
		}
		st := out.String(text)
		for _, apply := range active {
			st = apply(st)
		}
		b.WriteString(st.String())
	}

	for _, loc := range markupToken.FindAllStringSubmatchIndex(s, -1) {
		name := s[loc[2]:loc[3]]
		if name == "/" {
			flush(s[last:loc[0]])
			active = active[:0]
			last = loc[1]
			continue
		}
		apply, ok := styleFor(out, name)
		if !ok {
			continue
		}
		flush(s[last:loc[0]])
		active = append(active, apply)
		last = loc[1]
	}
	flush(s[last:])
	return b.String()
}
