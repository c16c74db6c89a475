// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineedit

import (
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/jeranaias/chad-llm/internal/logging"
	"github.com/jeranaias/chad-llm/internal/terminal"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultPollTimeout bounds each wait for a key event.
	DefaultPollTimeout = 500 * time.Millisecond

	// NewlineGlyph stands in for pasted newlines on the edited row.
	NewlineGlyph = '↵'
)

// PasteConfig holds the paste-burst thresholds.
type PasteConfig struct {
	Burst   time.Duration // gap below which a keystroke counts as pasted
	Stale   time.Duration // gap above which a paste is over
	MinKeys int           // keystrokes that must precede a burst
}

// DefaultPasteConfig returns the standard thresholds: 10ms burst, 30ms stale,
// more than 5 prior keystrokes.
func DefaultPasteConfig() PasteConfig {
	return PasteConfig{
		Burst:   10 * time.Millisecond,
		Stale:   30 * time.Millisecond,
		MinKeys: 5,
	}
}

// =============================================================================
// EDITOR
// =============================================================================

// Editor is a single-row line editor. It is not safe for concurrent use;
// one ReadLine runs at a time.
type Editor struct {
	src         terminal.EventSource
	screen      *terminal.Screen
	history     History
	completer   Completer
	now         func() time.Time
	pollTimeout time.Duration
	paste       PasteConfig
	log         *clog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithHistory enables Up/Down recall from h.
func WithHistory(h History) Option {
	return func(e *Editor) { e.history = h }
}

// WithCompleter enables Tab completion through c.
func WithCompleter(c Completer) Option {
	return func(e *Editor) { e.completer = c }
}

// WithClock replaces time.Now for the paste heuristic.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithPollTimeout sets the bound on each event wait.
func WithPollTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.pollTimeout = d
		}
	}
}

// WithPasteConfig overrides the paste-burst thresholds.
func WithPasteConfig(p PasteConfig) Option {
	return func(e *Editor) { e.paste = p }
}

// WithLogger sets the logger. The default is logging.L at call time.
func WithLogger(l *clog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// New creates an editor reading from src and drawing on screen.
func New(src terminal.EventSource, screen *terminal.Screen, opts ...Option) *Editor {
	e := &Editor{
		src:         src,
		screen:      screen,
		now:         time.Now,
		pollTimeout: DefaultPollTimeout,
		paste:       DefaultPasteConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// session is the state of one ReadLine call.
type session struct {
	prompt      string
	promptWidth int
	buf         *Buffer
	histPos     int

	lastTime time.Time
	typed    int
	inPaste  bool
}

// ReadLine shows prompt and edits a line until Enter or Ctrl+C.
// It returns the line and true on submission, or "" and false when the user
// cancels or the event source fails. The prompt may contain [$color] markup.
func (e *Editor) ReadLine(prompt string) (string, bool) {
	return e.ReadLineWith(prompt, "")
}

// ReadLineWith is ReadLine with the buffer pre-filled with initial.
func (e *Editor) ReadLineWith(prompt, initial string) (string, bool) {
	log := e.log
	if log == nil {
		log = logging.L
	}
	log = log.With("id", logging.NewID())

	rendered := e.screen.Markup(prompt)
	s := &session{
		prompt:      rendered,
		promptWidth: terminal.DisplayWidth(rendered),
		buf:         NewBuffer(initial),
		histPos:     -1,
		lastTime:    e.now(),
	}

	log.Debug("readline start", "prefill", len(initial))
	e.redraw(s)

	events := 0
	for {
		ev, ok, err := e.src.Poll(e.pollTimeout)
		if err != nil {
			log.Debug("readline read error", "err", err, "events", events)
			e.screen.Newline()
			return "", false
		}
		if !ok {
			continue
		}
		events++

		switch e.handle(s, ev) {
		case actionSubmit:
			e.screen.Newline()
			line := s.buf.String()
			log.Debug("readline submitted", "events", events, "len", s.buf.Len(), "paste", s.inPaste)
			return line, true
		case actionCancel:
			_, _ = e.screen.WriteString("^C\r\n")
			log.Debug("readline cancelled", "events", events)
			return "", false
		case actionRedraw:
			e.redraw(s)
		}
	}
}

type action int

const (
	actionNone action = iota
	actionRedraw
	actionSubmit
	actionCancel
)

func redrawIf(changed bool) action {
	if changed {
		return actionRedraw
	}
	return actionNone
}

// handle applies one key event to the session.
func (e *Editor) handle(s *session, ev terminal.KeyEvent) action {
	now := e.now()
	elapsed := now.Sub(s.lastTime)
	if elapsed > e.paste.Stale {
		s.inPaste = false
	}

	buf := s.buf
	switch {
	case ev.Ctrl('c'):
		return actionCancel

	case ev.Ctrl('w'),
		ev.Code == terminal.KeyBackspace && ev.Mod.Has(terminal.ModCtrl),
		ev.Code == terminal.KeyBackspace && ev.Mod.Has(terminal.ModAlt):
		return redrawIf(buf.DeleteWord())

	case ev.Ctrl('l'):
		e.screen.ClearScreen()
		return actionRedraw

	case ev.Ctrl('a'), ev.Code == terminal.KeyHome:
		return redrawIf(buf.Home())

	case ev.Ctrl('e'), ev.Code == terminal.KeyEnd:
		return redrawIf(buf.End())

	case ev.Ctrl('u'):
		return redrawIf(buf.DeleteToStart())

	case ev.Ctrl('d'), ev.Code == terminal.KeyDelete:
		return redrawIf(buf.Delete())

	case ev.Alt('b'), ev.Code == terminal.KeyLeft && ev.Mod.Has(terminal.ModCtrl):
		return redrawIf(buf.WordLeft())

	case ev.Alt('f'), ev.Code == terminal.KeyRight && ev.Mod.Has(terminal.ModCtrl):
		return redrawIf(buf.WordRight())

	case ev.Printable():
		e.notePasteKey(s, now, elapsed)
		buf.Insert(ev.Rune)
		return actionRedraw

	case ev.Code == terminal.KeyTab && ev.Mod == terminal.ModNone:
		return redrawIf(e.complete(buf))

	case ev.Code == terminal.KeyLeft:
		return redrawIf(buf.Left())

	case ev.Code == terminal.KeyRight:
		return redrawIf(buf.Right())

	case ev.Code == terminal.KeyBackspace:
		return redrawIf(buf.Backspace())

	case ev.Code == terminal.KeyEnter:
		if s.inPaste {
			s.lastTime = now
			s.typed++
			buf.Insert('\n')
			return actionRedraw
		}
		return actionSubmit

	case ev.Code == terminal.KeyUp:
		return redrawIf(e.historyUp(s))

	case ev.Code == terminal.KeyDown:
		return redrawIf(e.historyDown(s))
	}
	return actionNone
}

// notePasteKey updates the paste-burst state for a character keystroke.
func (e *Editor) notePasteKey(s *session, now time.Time, elapsed time.Duration) {
	if s.typed > e.paste.MinKeys && elapsed < e.paste.Burst {
		s.inPaste = true
	}
	s.lastTime = now
	s.typed++
}

// complete runs the completer on the text left of the cursor.
func (e *Editor) complete(buf *Buffer) bool {
	if e.completer == nil {
		return false
	}
	suggestion, ok := e.completer.Complete(buf.Prefix())
	if !ok {
		return false
	}
	buf.ReplacePrefix(suggestion)
	return true
}

// historyUp recalls the next older entry. At the oldest entry it stays put.
func (e *Editor) historyUp(s *session) bool {
	if e.history == nil {
		return false
	}
	line, ok := e.history.Read(s.histPos + 1)
	if !ok {
		return false
	}
	s.histPos++
	s.buf.Set(line)
	return true
}

// historyDown recalls the next newer entry. Past the newest it clears the
// buffer and leaves recall.
func (e *Editor) historyDown(s *session) bool {
	if e.history == nil {
		return false
	}
	s.histPos--
	if s.histPos >= 0 {
		if line, ok := e.history.Read(s.histPos); ok {
			s.buf.Set(line)
			return true
		}
	}
	s.histPos = -1
	s.buf.Reset()
	return true
}

// redraw repaints the prompt row and places the cursor.
func (e *Editor) redraw(s *session) {
	shown := displayRunes(s.buf.Runes())

	e.screen.ClearLine()
	var b strings.Builder
	b.WriteString(s.prompt)
	b.WriteString(string(shown))
	_, _ = e.screen.WriteString(b.String())
	e.screen.MoveToColumn(s.promptWidth + terminal.RunesWidth(shown[:s.buf.Cursor()]))
}

// displayRunes maps buffer runes to what is drawn: pasted line breaks become
// NewlineGlyph so every rune stays on the edited row.
func displayRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		switch r {
		case '\n', '\r':
			out[i] = NewlineGlyph
		default:
			out[i] = r
		}
	}
	return out
}
