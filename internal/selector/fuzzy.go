// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selector

import "unicode"

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// FuzzyScore scores target against query as a case-insensitive subsequence
// match. It returns 0 when some query rune cannot be matched in order and a
// positive score otherwise; higher is better.
//
// Scoring:
//   - 1 per matched rune
//   - +5 when the previous rune also matched
//   - +10 for a match at the start of target
//   - +7 for a match at a word boundary
//   - +2 when the case matches exactly
//   - minus len(target)/4, floored at 1
//
// An empty query matches everything with score 1.
func FuzzyScore(query, target string) int {
	if query == "" {
		return 1
	}

	queryOrig := []rune(query)
	targetOrig := []rune(target)
	if len(queryOrig) > len(targetOrig) {
		return 0
	}

	queryRunes := lowerRunes(queryOrig)
	targetRunes := lowerRunes(targetOrig)

	queryPos := 0
	score := 0
	lastMatchPos := -1

	for targetPos := 0; targetPos < len(targetRunes) && queryPos < len(queryRunes); targetPos++ {
		if targetRunes[targetPos] != queryRunes[queryPos] {
			continue
		}

		matchScore := 1
		if lastMatchPos == targetPos-1 {
			matchScore += 5
		}
		if targetPos == 0 {
			matchScore += 10
		}
		if isWordBoundary(targetOrig, targetPos) {
			matchScore += 7
		}
		if targetOrig[targetPos] == queryOrig[queryPos] {
			matchScore += 2
		}

		score += matchScore
		lastMatchPos = targetPos
		queryPos++
	}

	if queryPos != len(queryRunes) {
		return 0
	}

	score -= len(targetRunes) / 4
	if score < 1 {
		score = 1
	}
	return score
}

// lowerRunes lowercases rune by rune so positions line up with the original.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// isWordBoundary reports whether pos starts a word: after a space, slash,
// dash, underscore or dot, or at a lower-to-upper camelCase change.
func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(runes) {
		return false
	}

	prev := runes[pos-1]
	switch prev {
	case ' ', '/', '-', '_', '.':
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(runes[pos])
}

// Entry is an item that survived filtering.
type Entry struct {
	Index int    // position in the original item list
	Label string // label as given
}

// Filter keeps the labels that match query, in their original order.
func Filter(query string, labels []string) []Entry {
	out := make([]Entry, 0, len(labels))
	for i, l := range labels {
		if FuzzyScore(query, l) > 0 {
			out = append(out, Entry{Index: i, Label: l})
		}
	}
	return out
}
