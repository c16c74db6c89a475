// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selector

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/jeranaias/chad-llm/internal/logging"
	"github.com/jeranaias/chad-llm/internal/terminal"
)

const (
	// DefaultLabelMargin is the number of columns kept free right of a label.
	// Row markers are not counted against it.
	DefaultLabelMargin = 10

	// DefaultPollTimeout bounds each wait for a key event.
	DefaultPollTimeout = 500 * time.Millisecond

	minLabelWidth = 4
)

// Row markers.
const (
	cursorMark   = "> "
	noCursorMark = "  "
	checkedMark  = "[x] "
	uncheckMark  = "[ ] "
	queryLabel   = "Query: "
)

// Labels converts items to their display strings.
func Labels[T fmt.Stringer](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out
}

// Selector draws a filterable list under a prompt and lets the user pick
// one or more items with the keyboard.
type Selector struct {
	src         terminal.EventSource
	screen      *terminal.Screen
	windowCap   int
	labelMargin int
	pollTimeout time.Duration
	log         *clog.Logger

	cursorStyle lipgloss.Style
	checkStyle  lipgloss.Style
	queryStyle  lipgloss.Style
}

// Option configures a Selector.
type Option func(*Selector)

// WithWindowCap sets the most item rows shown at once.
func WithWindowCap(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.windowCap = n
		}
	}
}

// WithLabelMargin sets how many columns are kept free right of each label.
func WithLabelMargin(n int) Option {
	return func(s *Selector) {
		if n >= 0 {
			s.labelMargin = n
		}
	}
}

// WithPollTimeout sets the bound on each event wait.
func WithPollTimeout(d time.Duration) Option {
	return func(s *Selector) {
		if d > 0 {
			s.pollTimeout = d
		}
	}
}

// WithLogger sets the logger. The default is logging.L at call time.
func WithLogger(l *clog.Logger) Option {
	return func(s *Selector) { s.log = l }
}

// New creates a selector reading keys from src and drawing on screen.
func New(src terminal.EventSource, screen *terminal.Screen, opts ...Option) *Selector {
	r := lipgloss.NewRenderer(screen, termenv.WithProfile(screen.Output().Profile))
	s := &Selector{
		src:         src,
		screen:      screen,
		windowCap:   DefaultWindowCap,
		labelMargin: DefaultLabelMargin,
		pollTimeout: DefaultPollTimeout,
		cursorStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		checkStyle:  r.NewStyle().Foreground(lipgloss.Color("2")),
		queryStyle:  r.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select shows prompt with items beneath it and returns the chosen indices,
// ascending and without duplicates.
//
// Up/Down move, Space toggles, Enter accepts, Esc or Ctrl+C cancels with an
// empty result. Typed characters filter the list; Backspace removes one,
// Ctrl+Backspace or Ctrl+W clears the filter. On return every drawn row is
// erased and the cursor is back on the prompt line.
func (s *Selector) Select(prompt string, items []string, single bool, preselected []int) []int {
	log := s.log
	if log == nil {
		log = logging.L
	}
	log = log.With("id", logging.NewID())

	if len(items) == 0 {
		log.Debug("select skipped", "items", 0)
		return []int{}
	}

	m := NewModel(items, single, preselected, s.windowCap)
	rows := m.Window() + 1
	rendered := s.screen.Markup(prompt)

	log.Debug("select start", "items", len(items), "single", single, "preselected", len(m.Selected()))

	// reserve the rows below the prompt so drawing never scrolls
	_, _ = s.screen.WriteString(rendered)
	for i := 0; i < rows; i++ {
		s.screen.Newline()
	}
	s.screen.Up(rows)
	promptWidth := terminal.DisplayWidth(rendered)
	s.draw(m, promptWidth)

	result, events := s.loop(m, promptWidth, log)

	s.erase(rows)
	log.Debug("select finished", "events", events, "selected", len(result), "query", len(m.Query()))
	return result
}

func (s *Selector) loop(m *Model, promptWidth int, log *clog.Logger) ([]int, int) {
	events := 0
	for {
		ev, ok, err := s.src.Poll(s.pollTimeout)
		if err != nil {
			log.Debug("select read error", "err", err, "events", events)
			return m.Cancel(), events
		}
		if !ok {
			continue
		}
		events++

		changed := false
		switch {
		case ev.Ctrl('c'), ev.Code == terminal.KeyEsc:
			return m.Cancel(), events

		case ev.Code == terminal.KeyEnter:
			return m.Accept(), events

		case ev.Code == terminal.KeyUp, ev.Ctrl('p'):
			changed = m.Up()

		case ev.Code == terminal.KeyDown, ev.Ctrl('n'):
			changed = m.Down()

		case ev.Code == terminal.KeyRune && ev.Rune == ' ' && ev.Mod == terminal.ModNone:
			changed = m.Toggle()

		case ev.Ctrl('w'),
			ev.Code == terminal.KeyBackspace && ev.Mod.Has(terminal.ModCtrl),
			ev.Code == terminal.KeyBackspace && ev.Mod.Has(terminal.ModAlt):
			changed = m.ClearQuery()

		case ev.Code == terminal.KeyBackspace:
			changed = m.PopQuery()

		case ev.Printable():
			m.AppendQuery(ev.Rune)
			changed = true
		}

		if changed {
			s.draw(m, promptWidth)
		}
	}
}

// draw repaints the rows under the prompt and returns the cursor to the end
// of the prompt. The cursor must be on the prompt row when draw is called.
func (s *Selector) draw(m *Model, promptWidth int) {
	screenWidth := s.screen.Width()
	labelWidth := s.labelWidth(len(cursorMark) + len(checkedMark))
	visible := m.Visible()

	for i := 0; i < m.Window(); i++ {
		s.screen.Newline()
		s.screen.ClearLine()
		if i >= len(visible) {
			continue
		}
		pos := m.Offset() + i
		row := s.renderRow(m, visible[i], pos == m.Highlight(), labelWidth)
		_, _ = s.screen.WriteString(ansi.Truncate(row, screenWidth, ""))
	}

	s.screen.Newline()
	s.screen.ClearLine()
	if q := m.Query(); q != "" {
		row := s.queryStyle.Render(queryLabel) + terminal.SanitizeLabel(q, s.labelWidth(len(queryLabel)))
		_, _ = s.screen.WriteString(ansi.Truncate(row, screenWidth, ""))
	}

	s.screen.Up(m.Window() + 1)
	s.screen.MoveToColumn(promptWidth)
}

// labelWidth is the column budget for text drawn after a prefix of the given
// width. It keeps the margin free while the screen allows minLabelWidth.
func (s *Selector) labelWidth(prefix int) int {
	avail := s.screen.Width() - prefix
	w := avail - s.labelMargin
	if w < minLabelWidth {
		w = min(minLabelWidth, avail)
	}
	return max(w, 1)
}

func (s *Selector) renderRow(m *Model, e Entry, highlighted bool, labelWidth int) string {
	var b strings.Builder
	if highlighted {
		b.WriteString(s.cursorStyle.Render(cursorMark))
	} else {
		b.WriteString(noCursorMark)
	}
	if m.IsSelected(e.Index) {
		b.WriteString(s.checkStyle.Render(checkedMark))
	} else {
		b.WriteString(uncheckMark)
	}
	b.WriteString(terminal.SanitizeLabel(e.Label, labelWidth))
	return b.String()
}

// erase clears the prompt row and the rows below it, leaving the cursor at
// the start of the prompt row.
func (s *Selector) erase(rows int) {
	s.screen.ClearLine()
	for i := 0; i < rows; i++ {
		s.screen.Newline()
		s.screen.ClearLine()
	}
	s.screen.Up(rows)
	s.screen.MoveToColumn(0)
}
