// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		target    string
		wantMatch bool
	}{
		{"empty query", "", "anything", true},
		{"exact", "help", "help", true},
		{"subsequence", "hlp", "/help", true},
		{"case insensitive", "HELP", "help", true},
		{"out of order", "ba", "abc", false},
		{"missing rune", "xyz", "/save", false},
		{"query longer", "abcdef", "abc", false},
		{"unicode", "ñu", "ÑANDÚ ñu", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyScore(tt.query, tt.target)
			if tt.wantMatch {
				assert.Positive(t, got)
			} else {
				assert.Zero(t, got)
			}
		})
	}
}

func TestFuzzyScore_LongTargetStillPositive(t *testing.T) {
	long := "a label that goes on and on and on for a very long time before z appears"
	assert.Positive(t, FuzzyScore("z", long))
}

func TestFuzzyScore_Ranking(t *testing.T) {
	consecutive := FuzzyScore("sv", "/sv-tool")
	scattered := FuzzyScore("sv", "/sessions-overview")
	assert.Greater(t, consecutive, scattered)

	prefix := FuzzyScore("he", "help")
	middle := FuzzyScore("he", "the")
	assert.Greater(t, prefix, middle)
}

func TestIsWordBoundary(t *testing.T) {
	rs := []rune("fooBar baz_qux")
	assert.True(t, isWordBoundary(rs, 0))
	assert.True(t, isWordBoundary(rs, 3), "camelCase")
	assert.True(t, isWordBoundary(rs, 7), "after space")
	assert.True(t, isWordBoundary(rs, 11), "after underscore")
	assert.False(t, isWordBoundary(rs, 1))
	assert.False(t, isWordBoundary(rs, 99))
}

func TestFilter_PreservesOrder(t *testing.T) {
	items := []string{"apple", "banana", "cherry"}

	assert.Equal(t, []Entry{{Index: 1, Label: "banana"}}, Filter("ban", items))
	assert.Equal(t, []Entry{{0, "apple"}, {1, "banana"}}, Filter("a", items)[:2])
	assert.Len(t, Filter("", items), 3)
	assert.Empty(t, Filter("zzz", items))

	// order follows the item list, not the score
	got := Filter("e", items)
	assert.Equal(t, []Entry{{0, "apple"}, {2, "cherry"}}, got)
}
