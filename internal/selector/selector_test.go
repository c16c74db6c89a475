// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selector

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chad-llm/internal/terminal"
)

// scriptSource replays events then fails with err (io.EOF by default).
type scriptSource struct {
	events []terminal.KeyEvent
	err    error
}

func (s *scriptSource) Poll(time.Duration) (terminal.KeyEvent, bool, error) {
	if len(s.events) == 0 {
		if s.err != nil {
			return terminal.KeyEvent{}, false, s.err
		}
		return terminal.KeyEvent{}, false, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	if ev.Code == terminal.KeyNone {
		return ev, false, nil
	}
	return ev, true, nil
}

var (
	keyEnter = terminal.Key(terminal.KeyEnter, 0)
	keyEsc   = terminal.Key(terminal.KeyEsc, 0)
	keyUp    = terminal.Key(terminal.KeyUp, 0)
	keyDown  = terminal.Key(terminal.KeyDown, 0)
	keySpace = terminal.Char(' ', 0)
	keyBack  = terminal.Key(terminal.KeyBackspace, 0)
)

func text(s string) []terminal.KeyEvent {
	var out []terminal.KeyEvent
	for _, r := range s {
		out = append(out, terminal.Char(r, 0))
	}
	return out
}

func keys(parts ...[]terminal.KeyEvent) []terminal.KeyEvent {
	var out []terminal.KeyEvent
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func newTestSelector(events []terminal.KeyEvent, width int, opts ...Option) (*Selector, *bytes.Buffer, *scriptSource) {
	out := &bytes.Buffer{}
	src := &scriptSource{events: events}
	screen := terminal.NewScreen(out, terminal.WithProfile(termenv.Ascii), terminal.WithWidth(width))
	return New(src, screen, opts...), out, src
}

var fruit = []string{"apple", "banana", "cherry"}

// =============================================================================
// RESULT SEMANTICS
// =============================================================================

func TestSelect_SingleQueryEnter(t *testing.T) {
	s, _, _ := newTestSelector(keys(text("ban"), []terminal.KeyEvent{keyEnter}), 80)
	assert.Equal(t, []int{1}, s.Select("Pick: ", fruit, true, nil))
}

func TestSelect_MultiPreselectedEnter(t *testing.T) {
	s, _, _ := newTestSelector([]terminal.KeyEvent{keyEnter}, 80)
	assert.Equal(t, []int{0, 2}, s.Select("Pick: ", fruit, false, []int{0, 2}))
}

func TestSelect_MultiToggleSorted(t *testing.T) {
	evs := []terminal.KeyEvent{keyDown, keyDown, keySpace, keyUp, keyUp, keySpace, keyDown, keySpace, keySpace, keyEnter}
	s, _, _ := newTestSelector(evs, 80)
	assert.Equal(t, []int{0, 2}, s.Select("Pick: ", fruit, false, nil))
}

func TestSelect_SingleSpaceReplaces(t *testing.T) {
	evs := []terminal.KeyEvent{keySpace, keyDown, keySpace, keyDown, keySpace, keyEnter}
	s, _, _ := newTestSelector(evs, 80)
	assert.Equal(t, []int{2}, s.Select("Pick: ", fruit, true, nil))
}

func TestSelect_EscReturnsEmpty(t *testing.T) {
	s, _, _ := newTestSelector([]terminal.KeyEvent{keySpace, keyEsc}, 80)
	assert.Empty(t, s.Select("Pick: ", fruit, false, []int{1}))
}

func TestSelect_CtrlCReturnsEmpty(t *testing.T) {
	s, _, _ := newTestSelector([]terminal.KeyEvent{keySpace, terminal.Char('c', terminal.ModCtrl)}, 80)
	assert.Empty(t, s.Select("Pick: ", fruit, false, nil))
}

func TestSelect_ReadErrorReturnsEmpty(t *testing.T) {
	s, _, src := newTestSelector([]terminal.KeyEvent{keySpace}, 80)
	src.err = errors.New("tty closed")
	assert.Empty(t, s.Select("Pick: ", fruit, false, []int{0}))
}

func TestSelect_EmptyItems(t *testing.T) {
	s, out, _ := newTestSelector(nil, 80)
	got := s.Select("Pick: ", nil, false, []int{0})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, out.String())
}

func TestSelect_BackspaceAndClearQuery(t *testing.T) {
	// "bx" matches nothing; Backspace leaves "b" which keeps banana first
	evs := keys(text("bx"), []terminal.KeyEvent{keyBack, keyEnter})
	s, _, _ := newTestSelector(evs, 80)
	assert.Equal(t, []int{1}, s.Select("Pick: ", fruit, true, nil))

	evs = keys(text("cher"), []terminal.KeyEvent{terminal.Char('w', terminal.ModCtrl), keyEnter})
	s, _, _ = newTestSelector(evs, 80)
	assert.Equal(t, []int{0}, s.Select("Pick: ", fruit, true, nil))

	evs = keys(text("cher"), []terminal.KeyEvent{terminal.Key(terminal.KeyBackspace, terminal.ModCtrl), keyDown, keyEnter})
	s, _, _ = newTestSelector(evs, 80)
	assert.Equal(t, []int{1}, s.Select("Pick: ", fruit, true, nil))
}

func TestSelect_TimeoutsIgnored(t *testing.T) {
	evs := []terminal.KeyEvent{{}, keyDown, {}, {}, keyEnter}
	s, _, _ := newTestSelector(evs, 80)
	assert.Equal(t, []int{1}, s.Select("Pick: ", fruit, true, nil))
}

func TestSelect_Labels(t *testing.T) {
	items := []namedItem{{"one"}, {"two"}}
	assert.Equal(t, []string{"one", "two"}, Labels(items))
}

type namedItem struct{ s string }

func (f namedItem) String() string { return f.s }

// =============================================================================
// RENDERING
// =============================================================================

func TestSelect_RendersMarkersAndQuery(t *testing.T) {
	s, out, _ := newTestSelector(keys(text("an"), []terminal.KeyEvent{keySpace, keyEnter}), 80)
	s.Select("Pick: ", fruit, false, []int{2})

	rendered := out.String()
	assert.Contains(t, rendered, "Pick: ")
	assert.Contains(t, rendered, "> [ ] apple")
	assert.Contains(t, rendered, "  [ ] banana")
	assert.Contains(t, rendered, "> [x] cherry", "preselected cherry starts highlighted")
	assert.Contains(t, rendered, "Query: an")
	assert.Contains(t, rendered, "> [x] banana")
}

func TestSelect_LabelHygiene(t *testing.T) {
	items := []string{"line one\nline two\tend", "\x1b[31mred\x1b[0m", strings.Repeat("x", 100)}
	s, out, _ := newTestSelector([]terminal.KeyEvent{keyEnter}, 40)
	s.Select("", items, false, nil)

	rendered := out.String()
	assert.Contains(t, rendered, "line one line two end")
	assert.Contains(t, rendered, "[ ] red")
	assert.NotContains(t, rendered, "\x1b[31m")
	// 40 columns less the 10 column margin and the 6 column markers
	assert.Contains(t, rendered, strings.Repeat("x", 21)+"...")
	assert.NotContains(t, rendered, strings.Repeat("x", 22))
}

// rowWidths returns the display width of every row written to out.
func rowWidths(out string) []int {
	var widths []int
	for _, row := range strings.Split(out, "\r\n") {
		widths = append(widths, terminal.DisplayWidth(row))
	}
	return widths
}

func TestSelect_RowsFitScreen(t *testing.T) {
	long := strings.Repeat("a", 100)
	tests := []struct {
		name      string
		width     int
		margin    int
		truncated bool
	}{
		{"no margin", 40, 0, true},
		{"small margin", 40, 3, true},
		{"default margin", 40, DefaultLabelMargin, true},
		{"narrow screen", 10, 0, true},
		{"narrower than markers", 5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := keys(text(long[:30]), []terminal.KeyEvent{keyEnter})
			s, out, _ := newTestSelector(events, tt.width, WithLabelMargin(tt.margin))
			assert.Equal(t, []int{}, s.Select("", []string{long, "b"}, false, nil))

			for i, w := range rowWidths(out.String()) {
				assert.LessOrEqual(t, w, tt.width, "row %d", i)
			}
			if tt.truncated {
				assert.Contains(t, out.String(), "a...")
			}
		})
	}
}

func TestSelect_NoMarginKeepsLabelBudget(t *testing.T) {
	s, out, _ := newTestSelector([]terminal.KeyEvent{keyEnter}, 40, WithLabelMargin(0))
	s.Select("", []string{strings.Repeat("x", 100)}, false, nil)

	rendered := out.String()
	assert.Contains(t, rendered, "> [ ] "+strings.Repeat("x", 31)+"...")
	assert.NotContains(t, rendered, strings.Repeat("x", 32))
}

func TestSelect_WindowLimitsRows(t *testing.T) {
	items := make([]string, 25)
	for i := range items {
		items[i] = "row" + string(rune('A'+i))
	}
	s, out, _ := newTestSelector([]terminal.KeyEvent{keyEnter}, 80, WithWindowCap(4))
	s.Select("", items, false, nil)

	rendered := out.String()
	assert.Contains(t, rendered, "rowD")
	assert.NotContains(t, rendered, "rowE")
}

func TestSelect_ErasesOnExit(t *testing.T) {
	s, out, _ := newTestSelector([]terminal.KeyEvent{keyEnter}, 80)
	s.Select("Pick: ", fruit, false, nil)

	// three item rows plus the query row
	rendered := out.String()
	idx := strings.LastIndex(rendered, "\x1b[4A")
	require.NotEqual(t, -1, idx)
	tail := rendered[idx-len("\r\n\r\x1b[2K")*4-len("\r\x1b[2K"):]
	assert.Equal(t, "\r\x1b[2K"+strings.Repeat("\r\n\r\x1b[2K", 4)+"\x1b[4A\r", tail)
}
