// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selector

import "sort"

// DefaultWindowCap is the most item rows shown at once.
const DefaultWindowCap = 10

// Model is the selection state behind a Selector: query, filtered entries,
// highlighted row, viewport offset and the chosen item indices.
//
// While Filtered is non-empty, Offset <= Highlight < Offset+Window.
// Selected indices always lie within the item list.
type Model struct {
	labels []string
	single bool
	window int

	query     []rune
	filtered  []Entry
	highlight int
	offset    int
	selected  map[int]struct{}
}

// NewModel builds the initial state. Preselected indices outside the item
// list are dropped; in single mode only the first valid one is kept. The
// first valid preselected item starts highlighted and visible.
func NewModel(labels []string, single bool, preselected []int, windowCap int) *Model {
	if windowCap <= 0 {
		windowCap = DefaultWindowCap
	}
	m := &Model{
		labels:   labels,
		single:   single,
		window:   min(len(labels), windowCap),
		selected: make(map[int]struct{}),
	}
	m.filtered = Filter("", labels)

	first := -1
	for _, idx := range preselected {
		if idx < 0 || idx >= len(labels) {
			continue
		}
		if first < 0 {
			first = idx
		}
		m.selected[idx] = struct{}{}
		if single {
			break
		}
	}

	if first >= 0 {
		m.highlight = first
		m.offset = max(0, first-m.window+1)
	}
	return m
}

// Window returns the number of item rows in the viewport.
func (m *Model) Window() int { return m.window }

// Single reports whether at most one item may be chosen.
func (m *Model) Single() bool { return m.single }

// Query returns the filter text.
func (m *Model) Query() string { return string(m.query) }

// Filtered returns the entries matching the query, in item order.
func (m *Model) Filtered() []Entry { return m.filtered }

// Highlight returns the highlighted position within Filtered.
func (m *Model) Highlight() int { return m.highlight }

// Offset returns the index in Filtered of the first visible row.
func (m *Model) Offset() int { return m.offset }

// Visible returns the entries inside the viewport.
func (m *Model) Visible() []Entry {
	end := min(m.offset+m.window, len(m.filtered))
	if m.offset >= end {
		return nil
	}
	return m.filtered[m.offset:end]
}

// =============================================================================
// QUERY
// =============================================================================

// AppendQuery adds r to the query and refilters.
func (m *Model) AppendQuery(r rune) {
	m.query = append(m.query, r)
	m.refilter()
}

// PopQuery removes the last query rune. It reports false for an empty query.
func (m *Model) PopQuery() bool {
	if len(m.query) == 0 {
		return false
	}
	m.query = m.query[:len(m.query)-1]
	m.refilter()
	return true
}

// ClearQuery empties the query. It reports false if it was already empty.
func (m *Model) ClearQuery() bool {
	if len(m.query) == 0 {
		return false
	}
	m.query = m.query[:0]
	m.refilter()
	return true
}

func (m *Model) refilter() {
	m.filtered = Filter(string(m.query), m.labels)
	m.highlight = 0
	m.offset = 0
}

// =============================================================================
// NAVIGATION
// =============================================================================

// Up moves the highlight one row up, scrolling if needed.
func (m *Model) Up() bool {
	if m.highlight == 0 {
		return false
	}
	m.highlight--
	if m.highlight < m.offset {
		m.offset = m.highlight
	}
	return true
}

// Down moves the highlight one row down, scrolling if needed.
func (m *Model) Down() bool {
	if m.highlight >= len(m.filtered)-1 {
		return false
	}
	m.highlight++
	if m.highlight >= m.offset+m.window {
		m.offset = m.highlight - m.window + 1
	}
	return true
}

// current returns the highlighted entry.
func (m *Model) current() (Entry, bool) {
	if m.highlight < 0 || m.highlight >= len(m.filtered) {
		return Entry{}, false
	}
	return m.filtered[m.highlight], true
}

// =============================================================================
// SELECTION
// =============================================================================

// Toggle flips the highlighted item. In single mode it replaces the
// selection with the highlighted item instead.
func (m *Model) Toggle() bool {
	e, ok := m.current()
	if !ok {
		return false
	}
	if m.single {
		clear(m.selected)
		m.selected[e.Index] = struct{}{}
		return true
	}
	if _, on := m.selected[e.Index]; on {
		delete(m.selected, e.Index)
	} else {
		m.selected[e.Index] = struct{}{}
	}
	return true
}

// Accept finalises the selection. In single mode with nothing chosen the
// highlighted item is taken.
func (m *Model) Accept() []int {
	if m.single && len(m.selected) == 0 {
		if e, ok := m.current(); ok {
			m.selected[e.Index] = struct{}{}
		}
	}
	return m.Selected()
}

// Cancel clears the selection.
func (m *Model) Cancel() []int {
	clear(m.selected)
	return m.Selected()
}

// IsSelected reports whether item idx is chosen.
func (m *Model) IsSelected(idx int) bool {
	_, ok := m.selected[idx]
	return ok
}

// Selected returns the chosen item indices in ascending order.
func (m *Model) Selected() []int {
	out := make([]int, 0, len(m.selected))
	for idx := range m.selected {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
