// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineedit

import "unicode"

// Buffer is the text being edited and the cursor position within it.
// The cursor is a rune index and always satisfies 0 <= cursor <= Len().
//
// Mutating methods report whether anything changed so the caller can skip
// a redraw.
type Buffer struct {
	runes  []rune
	cursor int
}

// NewBuffer creates a buffer holding s with the cursor at the end.
func NewBuffer(s string) *Buffer {
	b := &Buffer{}
	b.Set(s)
	return b
}

// String returns the buffer contents.
func (b *Buffer) String() string { return string(b.runes) }

// Runes returns the underlying runes. The slice must not be modified.
func (b *Buffer) Runes() []rune { return b.runes }

// Len returns the number of runes.
func (b *Buffer) Len() int { return len(b.runes) }

// Cursor returns the cursor position.
func (b *Buffer) Cursor() int { return b.cursor }

// Set replaces the contents and moves the cursor to the end.
func (b *Buffer) Set(s string) {
	b.runes = []rune(s)
	b.cursor = len(b.runes)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.runes = b.runes[:0]
	b.cursor = 0
}

// Insert puts r at the cursor and advances the cursor.
func (b *Buffer) Insert(r rune) {
	b.runes = append(b.runes, 0)
	copy(b.runes[b.cursor+1:], b.runes[b.cursor:])
	b.runes[b.cursor] = r
	b.cursor++
}

// Left moves the cursor one rune left.
func (b *Buffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

// Right moves the cursor one rune right.
func (b *Buffer) Right() bool {
	if b.cursor >= len(b.runes) {
		return false
	}
	b.cursor++
	return true
}

// Home moves the cursor to the start.
func (b *Buffer) Home() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor = 0
	return true
}

// End moves the cursor past the last rune.
func (b *Buffer) End() bool {
	if b.cursor == len(b.runes) {
		return false
	}
	b.cursor = len(b.runes)
	return true
}

// Backspace deletes the rune left of the cursor.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
	return true
}

// Delete deletes the rune under the cursor.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+1:]...)
	return true
}

// prevWordStart skips whitespace left of the cursor, then non-whitespace.
func (b *Buffer) prevWordStart() int {
	i := b.cursor
	for i > 0 && unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	return i
}

// nextWordEnd skips whitespace right of the cursor, then non-whitespace.
func (b *Buffer) nextWordEnd() int {
	i := b.cursor
	n := len(b.runes)
	for i < n && unicode.IsSpace(b.runes[i]) {
		i++
	}
	for i < n && !unicode.IsSpace(b.runes[i]) {
		i++
	}
	return i
}

// WordLeft moves the cursor to the start of the previous word.
func (b *Buffer) WordLeft() bool {
	i := b.prevWordStart()
	if i == b.cursor {
		return false
	}
	b.cursor = i
	return true
}

// WordRight moves the cursor to the end of the next word.
func (b *Buffer) WordRight() bool {
	i := b.nextWordEnd()
	if i == b.cursor {
		return false
	}
	b.cursor = i
	return true
}

// DeleteWord removes trailing whitespace and the word before the cursor.
func (b *Buffer) DeleteWord() bool {
	i := b.prevWordStart()
	if i == b.cursor {
		return false
	}
	b.runes = append(b.runes[:i], b.runes[b.cursor:]...)
	b.cursor = i
	return true
}

// DeleteToStart removes everything left of the cursor.
func (b *Buffer) DeleteToStart() bool {
	if b.cursor == 0 {
		return false
	}
	b.runes = append(b.runes[:0], b.runes[b.cursor:]...)
	b.cursor = 0
	return true
}

// Prefix returns the text left of the cursor.
func (b *Buffer) Prefix() string { return string(b.runes[:b.cursor]) }

// Suffix returns the text from the cursor on.
func (b *Buffer) Suffix() string { return string(b.runes[b.cursor:]) }

// ReplacePrefix swaps the text left of the cursor for s and puts the
// cursor at the end of s.
func (b *Buffer) ReplacePrefix(s string) {
	head := []rune(s)
	rest := b.runes[b.cursor:]
	out := make([]rune, 0, len(head)+len(rest))
	out = append(out, head...)
	out = append(out, rest...)
	b.runes = out
	b.cursor = len(head)
}
