// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal provides the terminal plumbing shared by the line editor and
// the list selector.
//
// # Key Types
//
//   - Guard: scoped ownership of raw input mode, restored on every exit path
//   - KeyEvent: a decoded key press (code, rune, modifiers)
//   - EventSource: anything that yields key events with a bounded wait
//   - TTYSource: EventSource reading and decoding bytes from a terminal
//   - Screen: cursor/line control over a termenv Output
//
// # Usage
//
//	guard, err := terminal.Acquire(os.Stdin)
//	if err != nil {
//	    return err // fatal: cannot edit without raw input
//	}
//	defer guard.Release()
//
//	src := terminal.NewTTYSource(os.Stdin)
//	ev, ok, err := src.Poll(500 * time.Millisecond)
//
// # Text Hygiene
//
// DisplayWidth, SanitizeLabel and RenderMarkup keep column arithmetic honest
// when prompts carry color sequences and labels carry control characters.
package terminal
