// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineedit

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Completer suggests a replacement for the text left of the cursor.
// Complete must not have side effects.
type Completer interface {
	Complete(prefix string) (string, bool)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(prefix string) (string, bool)

// Complete implements Completer.
func (f CompleterFunc) Complete(prefix string) (string, bool) {
	return f(prefix)
}

// =============================================================================
// PREFIX COMPLETER
// =============================================================================

// PrefixCompleter completes against a fixed list of words such as command names.
type PrefixCompleter struct {
	words []string
}

// NewPrefixCompleter creates a completer over words. Duplicates are dropped.
func NewPrefixCompleter(words ...string) *PrefixCompleter {
	seen := make(map[string]bool, len(words))
	uniq := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		uniq = append(uniq, w)
	}
	sort.Strings(uniq)
	return &PrefixCompleter{words: uniq}
}

// Words returns the completion candidates in sorted order.
func (c *PrefixCompleter) Words() []string {
	out := make([]string, len(c.words))
	copy(out, c.words)
	return out
}

// Matches returns every word starting with prefix.
func (c *PrefixCompleter) Matches(prefix string) []string {
	var out []string
	for _, w := range c.words {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out
}

// Complete implements Completer. A single match completes to that word;
// several matches complete to their longest common prefix when it is longer
// than prefix.
func (c *PrefixCompleter) Complete(prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	matches := c.Matches(prefix)
	switch len(matches) {
	case 0:
		return "", false
	case 1:
		if matches[0] == prefix {
			return "", false
		}
		return matches[0], true
	}

	common := longestCommonPrefix(matches)
	if len(common) <= len(prefix) {
		return "", false
	}
	return common, true
}

func longestCommonPrefix(words []string) string {
	if len(words) == 0 {
		return ""
	}
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	// never split a multi-byte rune
	for len(prefix) > 0 && !utf8.ValidString(prefix) {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
