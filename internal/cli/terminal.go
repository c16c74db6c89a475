// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and output handling for the chad CLI.
//
// These utilities ensure proper behavior in different environments:
// - Interactive terminals (raw-mode editing, full colors)
// - Piped input (single message, no prompts)
// - CI/CD environments (respects NO_COLOR)

package cli

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jeranaias/chad-llm/internal/config"
	"github.com/jeranaias/chad-llm/internal/terminal"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if f is a terminal.
func IsTTY(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return IsTTY(os.Stdout)
}

// newKeySource reads keys from f with the configured lone-ESC wait.
func newKeySource(f *os.File, cfg *config.Config) *terminal.TTYSource {
	src := terminal.NewTTYSource(f)
	src.SetEscDelay(cfg.Editor.EscDelay())
	return src
}

// =============================================================================
// TEXT LAYOUT
// =============================================================================

// WrapText wraps text to fit within maxWidth display columns.
// Preserves existing newlines and breaks on word boundaries.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		if runewidth.StringWidth(line) <= maxWidth {
			result.WriteString(line)
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		currentWidth := runewidth.StringWidth(currentLine)
		for _, word := range words[1:] {
			w := runewidth.StringWidth(word)
			if currentWidth+1+w <= maxWidth {
				currentLine += " " + word
				currentWidth += 1 + w
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
				currentWidth = w
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}

// crlfWriter turns "\n" into "\r\n". Raw mode disables output
// post-processing, so bare newlines would not return the carriage.
type crlfWriter struct {
	w io.Writer
}

func newCRLFWriter(w io.Writer) io.Writer {
	return &crlfWriter{w: w}
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\r\n")
	if _, err := io.WriteString(c.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	// colorsEnabled caches the color support decision
	colorsEnabled     bool
	colorsEnabledOnce sync.Once
)

// ColorsEnabled returns true if colored output should be used.
// Respects NO_COLOR, FORCE_COLOR and TTY detection.
// See https://no-color.org/ for the NO_COLOR convention.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		// NO_COLOR takes precedence (any non-empty value disables colors)
		if os.Getenv("NO_COLOR") != "" {
			colorsEnabled = false
			return
		}

		// FORCE_COLOR overrides TTY detection
		if os.Getenv("FORCE_COLOR") != "" {
			colorsEnabled = true
			return
		}

		colorsEnabled = IsStdoutTTY()
	})
	return colorsEnabled
}

// ForceColorsEnabled overrides color detection (--no-color and tests).
func ForceColorsEnabled(enabled bool) {
	colorsEnabledOnce = sync.Once{}
	colorsEnabledOnce.Do(func() {
		colorsEnabled = enabled
	})
}

// GetColorProfile returns the appropriate termenv color profile.
// Returns Ascii (no colors) for non-TTY or when colors are disabled.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
