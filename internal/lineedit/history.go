// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineedit

import "sync"

// History is the recall capability used by the Up and Down keys.
//
// Read returns the entry offset steps back from the most recent one; offset 0
// is the newest entry. It reports false for negative or out-of-range offsets.
type History interface {
	Read(offset int) (string, bool)
	Write(line string)
}

// =============================================================================
// BASIC HISTORY
// =============================================================================

// BasicHistory is an in-memory History, newest entry first.
type BasicHistory struct {
	mu         sync.Mutex
	entries    []string // entries[0] is the newest
	maxEntries int
	noDups     bool
}

// HistoryOption configures a BasicHistory.
type HistoryOption func(*BasicHistory)

// WithMaxEntries keeps at most n entries, dropping the oldest. n <= 0 means unbounded.
func WithMaxEntries(n int) HistoryOption {
	return func(h *BasicHistory) { h.maxEntries = n }
}

// WithoutDuplicates drops an older copy of a line when it is written again.
func WithoutDuplicates() HistoryOption {
	return func(h *BasicHistory) { h.noDups = true }
}

// NewBasicHistory creates an empty history.
func NewBasicHistory(opts ...HistoryOption) *BasicHistory {
	h := &BasicHistory{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Read implements History.
func (h *BasicHistory) Read(offset int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if offset < 0 || offset >= len(h.entries) {
		return "", false
	}
	return h.entries[offset], true
}

// Write implements History. Empty lines are ignored.
func (h *BasicHistory) Write(line string) {
	if line == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.noDups {
		for i, e := range h.entries {
			if e == line {
				h.entries = append(h.entries[:i], h.entries[i+1:]...)
				break
			}
		}
	}

	h.entries = append(h.entries, "")
	copy(h.entries[1:], h.entries)
	h.entries[0] = line

	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.entries = h.entries[:h.maxEntries]
	}
}

// Len returns the number of stored entries.
func (h *BasicHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the entries, newest first.
func (h *BasicHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Remove deletes the entry at offset. It reports false if offset is out of range.
func (h *BasicHistory) Remove(offset int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if offset < 0 || offset >= len(h.entries) {
		return false
	}
	h.entries = append(h.entries[:offset], h.entries[offset+1:]...)
	return true
}
