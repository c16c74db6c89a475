// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicHistory_NewestFirst(t *testing.T) {
	h := NewBasicHistory()
	h.Write("first")
	h.Write("second")
	h.Write("")

	assert.Equal(t, 2, h.Len())
	got, ok := h.Read(0)
	assert.True(t, ok)
	assert.Equal(t, "second", got)
	got, ok = h.Read(1)
	assert.True(t, ok)
	assert.Equal(t, "first", got)

	_, ok = h.Read(2)
	assert.False(t, ok)
	_, ok = h.Read(-1)
	assert.False(t, ok)
}

func TestBasicHistory_MaxEntries(t *testing.T) {
	h := NewBasicHistory(WithMaxEntries(2))
	h.Write("a")
	h.Write("b")
	h.Write("c")
	assert.Equal(t, []string{"c", "b"}, h.Entries())
}

func TestBasicHistory_WithoutDuplicates(t *testing.T) {
	h := NewBasicHistory(WithoutDuplicates())
	h.Write("a")
	h.Write("b")
	h.Write("a")
	assert.Equal(t, []string{"a", "b"}, h.Entries())

	dup := NewBasicHistory()
	dup.Write("a")
	dup.Write("a")
	assert.Equal(t, 2, dup.Len())
}

func TestBasicHistory_Remove(t *testing.T) {
	h := NewBasicHistory()
	for _, l := range []string{"a", "b", "c"} {
		h.Write(l)
	}
	assert.True(t, h.Remove(1))
	assert.Equal(t, []string{"c", "a"}, h.Entries())
	assert.False(t, h.Remove(5))
	assert.False(t, h.Remove(-1))
}

func TestBasicHistory_EntriesIsCopy(t *testing.T) {
	h := NewBasicHistory()
	h.Write("x")
	e := h.Entries()
	e[0] = "mutated"
	got, _ := h.Read(0)
	assert.Equal(t, "x", got)
}
