// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 80

// Screen is the control sink the editor and selector draw through.
// Output is expected to be a terminal in raw mode, so line breaks are "\r\n".
type Screen struct {
	out   *termenv.Output
	fd    int
	width int
}

// ScreenOption configures a Screen.
type ScreenOption func(*screenConfig)

type screenConfig struct {
	profile    termenv.Profile
	hasProfile bool
	width      int
}

// WithProfile forces the colour profile. Tests use termenv.Ascii.
func WithProfile(p termenv.Profile) ScreenOption {
	return func(c *screenConfig) {
		c.profile = p
		c.hasProfile = true
	}
}

// WithWidth fixes the reported width instead of querying the terminal.
func WithWidth(w int) ScreenOption {
	return func(c *screenConfig) {
		c.width = w
	}
}

// NewScreen wraps w in a termenv Output.
func NewScreen(w io.Writer, opts ...ScreenOption) *Screen {
	var cfg screenConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var outOpts []termenv.OutputOption
	if cfg.hasProfile {
		outOpts = append(outOpts, termenv.WithProfile(cfg.profile))
	}

	s := &Screen{
		out:   termenv.NewOutput(w, outOpts...),
		fd:    -1,
		width: cfg.width,
	}
	if f, ok := w.(*os.File); ok {
		s.fd = int(f.Fd())
	}
	return s
}

// Output exposes the underlying termenv Output for styling.
func (s *Screen) Output() *termenv.Output {
	return s.out
}

// Write implements io.Writer.
func (s *Screen) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// WriteString writes s verbatim.
func (s *Screen) WriteString(str string) (int, error) {
	return s.out.WriteString(str)
}

// Width returns the terminal width in cells.
func (s *Screen) Width() int {
	if s.width > 0 {
		return s.width
	}
	if s.fd >= 0 {
		if w, _, err := term.GetSize(s.fd); err == nil && w > 0 {
			return w
		}
	}
	return DefaultWidth
}

// ClearLine returns to column 0 and erases the current row.
func (s *Screen) ClearLine() {
	_, _ = s.out.WriteString("\r")
	s.out.ClearLine()
}

// MoveToColumn places the cursor at the zero-based column col of the current row.
func (s *Screen) MoveToColumn(col int) {
	_, _ = s.out.WriteString("\r")
	if col > 0 {
		s.out.CursorForward(col)
	}
}

// Up moves the cursor n rows up.
func (s *Screen) Up(n int) {
	if n > 0 {
		s.out.CursorUp(n)
	}
}

// Newline moves to the start of the next row.
func (s *Screen) Newline() {
	_, _ = s.out.WriteString("\r\n")
}

// ClearScreen erases the display and homes the cursor.
func (s *Screen) ClearScreen() {
	s.out.ClearScreen()
}

// Markup renders [$name]...[$/] tokens with this screen's colour profile.
func (s *Screen) Markup(str string) string {
	return RenderMarkup(s.out, str)
}
