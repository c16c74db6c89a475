// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"
	"time"
	"unicode"
)

// =============================================================================
// KEY CODES
// =============================================================================

// KeyCode identifies the key of a KeyEvent.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyEsc
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
)

var keyNames = map[KeyCode]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyEsc:       "Esc",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyInsert:    "Insert",
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// =============================================================================
// MODIFIERS
// =============================================================================

// Modifier is a bitset of modifier keys held during a key press.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
)

// ModNone means no modifier was held.
const ModNone Modifier = 0

// Has reports whether every bit of m is set.
func (mod Modifier) Has(m Modifier) bool {
	return mod&m == m
}

// fromXtermParam converts an xterm modifier parameter (1 + bitmask) into a Modifier.
// Meta is folded into Alt.
func fromXtermParam(p int) Modifier {
	if p <= 1 {
		return ModNone
	}
	bits := p - 1
	var mod Modifier
	if bits&1 != 0 {
		mod |= ModShift
	}
	if bits&2 != 0 || bits&8 != 0 {
		mod |= ModAlt
	}
	if bits&4 != 0 {
		mod |= ModCtrl
	}
	return mod
}

// =============================================================================
// KEY EVENT
// =============================================================================

// KeyEvent is a single decoded key press.
// Ctrl+letter arrives as Code == KeyRune with the lowercase letter and ModCtrl.
type KeyEvent struct {
	Code KeyCode
	Rune rune
	Mod  Modifier
}

// Key builds a KeyEvent for a special key.
func Key(code KeyCode, mod Modifier) KeyEvent {
	return KeyEvent{Code: code, Mod: mod}
}

// Char builds a KeyEvent for a character.
func Char(r rune, mod Modifier) KeyEvent {
	return KeyEvent{Code: KeyRune, Rune: r, Mod: mod}
}

// Ctrl reports whether the event is Ctrl+r.
func (e KeyEvent) Ctrl(r rune) bool {
	return e.Code == KeyRune && e.Mod.Has(ModCtrl) && unicode.ToLower(e.Rune) == r
}

// Alt reports whether the event is Alt+r.
func (e KeyEvent) Alt(r rune) bool {
	return e.Code == KeyRune && e.Mod.Has(ModAlt) && !e.Mod.Has(ModCtrl) && e.Rune == r
}

// Printable reports whether the event inserts text: a printable rune with no
// Ctrl or Alt held. Shift is part of the character itself.
func (e KeyEvent) Printable() bool {
	return e.Code == KeyRune &&
		e.Mod&(ModCtrl|ModAlt) == 0 &&
		unicode.IsPrint(e.Rune)
}

// String renders the event as "Ctrl+Alt+x" style text, for logs and tests.
func (e KeyEvent) String() string {
	var parts []string
	if e.Mod.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if e.Mod.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if e.Mod.Has(ModShift) && e.Code != KeyRune {
		parts = append(parts, "Shift")
	}
	switch e.Code {
	case KeyRune:
		if e.Rune == ' ' {
			parts = append(parts, "Space")
		} else {
			parts = append(parts, string(e.Rune))
		}
	default:
		parts = append(parts, e.Code.String())
	}
	return strings.Join(parts, "+")
}

// =============================================================================
// EVENT SOURCE
// =============================================================================

// EventSource yields keyboard events.
//
// Poll waits at most timeout for the next event. It returns ok == false when the
// timeout elapses with nothing to report. A non-nil error means the input stream
// is broken and no further events will arrive.
type EventSource interface {
	Poll(timeout time.Duration) (ev KeyEvent, ok bool, err error)
}
