// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const esc = 0x1b

// Decoder turns raw terminal bytes into KeyEvents.
//
// Bytes are queued with Feed and drained with Next. A trailing sequence that
// could still grow (a lone ESC, half a CSI, half a UTF-8 rune) stays queued
// until Next is called with flush set.
type Decoder struct {
	buf []byte
}

// Feed queues raw input bytes.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Pending reports whether undecoded bytes are queued.
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0
}

// Next decodes the next event. With flush false an incomplete trailing sequence
// is left queued; with flush true it is decoded as whatever it already is.
// Sequences that carry no key (bracketed paste markers, focus reports, unknown
// CSI) are consumed silently.
func (d *Decoder) Next(flush bool) (KeyEvent, bool) {
	for len(d.buf) > 0 {
		ev, n, complete := decodeOne(d.buf, flush)
		if !complete {
			return KeyEvent{}, false
		}
		d.buf = d.buf[n:]
		if len(d.buf) == 0 {
			d.buf = nil
		}
		if ev.Code != KeyNone {
			return ev, true
		}
	}
	return KeyEvent{}, false
}

// decodeOne decodes the event at the start of b. It returns the event, the
// number of bytes consumed and whether b held a complete sequence.
func decodeOne(b []byte, flush bool) (KeyEvent, int, bool) {
	c := b[0]
	switch {
	case c == esc:
		return decodeEscape(b, flush)
	case c == '\r' || c == '\n':
		return Key(KeyEnter, ModNone), 1, true
	case c == '\t':
		return Key(KeyTab, ModNone), 1, true
	case c == 0x7f:
		return Key(KeyBackspace, ModNone), 1, true
	case c == 0x08:
		// xterm and most emulators send ^H for Ctrl+Backspace
		return Key(KeyBackspace, ModCtrl), 1, true
	case c == 0x00:
		return Char(' ', ModCtrl), 1, true
	case c < 0x1b:
		return Char(rune('a'+c-1), ModCtrl), 1, true
	case c < 0x20:
		return Char(rune('\\'+c-0x1c), ModCtrl), 1, true
	}

	if !utf8.FullRune(b) && !flush {
		return KeyEvent{}, 0, false
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return KeyEvent{}, 1, true
	}
	return Char(r, ModNone), size, true
}

// decodeEscape handles sequences introduced by ESC.
func decodeEscape(b []byte, flush bool) (KeyEvent, int, bool) {
	if len(b) == 1 {
		if !flush {
			return KeyEvent{}, 0, false
		}
		return Key(KeyEsc, ModNone), 1, true
	}

	switch b[1] {
	case '[':
		return decodeCSI(b, flush)
	case 'O':
		if len(b) < 3 {
			if !flush {
				return KeyEvent{}, 0, false
			}
			return Char('O', ModAlt), 2, true
		}
		return decodeSS3(b[2]), 3, true
	case esc:
		// ESC ESC: the first one is a bare Esc press
		return Key(KeyEsc, ModNone), 1, true
	}

	// ESC followed by a key is Alt+key
	ev, n, complete := decodeOne(b[1:], flush)
	if !complete {
		return KeyEvent{}, 0, false
	}
	ev.Mod |= ModAlt
	return ev, n + 1, true
}

// decodeSS3 maps ESC O x sequences (application cursor mode, rxvt ctrl-arrows).
func decodeSS3(c byte) KeyEvent {
	switch c {
	case 'A':
		return Key(KeyUp, ModNone)
	case 'B':
		return Key(KeyDown, ModNone)
	case 'C':
		return Key(KeyRight, ModNone)
	case 'D':
		return Key(KeyLeft, ModNone)
	case 'H':
		return Key(KeyHome, ModNone)
	case 'F':
		return Key(KeyEnd, ModNone)
	case 'a':
		return Key(KeyUp, ModCtrl)
	case 'b':
		return Key(KeyDown, ModCtrl)
	case 'c':
		return Key(KeyRight, ModCtrl)
	case 'd':
		return Key(KeyLeft, ModCtrl)
	case 'M':
		return Key(KeyEnter, ModNone)
	}
	return KeyEvent{}
}

// decodeCSI handles ESC [ params final.
func decodeCSI(b []byte, flush bool) (KeyEvent, int, bool) {
	i := 2
	for i < len(b) && b[i] >= 0x20 && b[i] <= 0x3f {
		i++
	}
	if i >= len(b) {
		if !flush {
			return KeyEvent{}, 0, false
		}
		// Never completed; report what the user most likely pressed
		return Char('[', ModAlt), 2, true
	}
	final := b[i]
	if final < 0x40 || final > 0x7e {
		// Malformed: drop the introducer and let the rest decode on its own
		return KeyEvent{}, 2, true
	}
	params := parseParams(string(b[2:i]))
	n := i + 1

	mod := ModNone
	if len(params) > 1 {
		mod = fromXtermParam(params[1])
	}

	switch final {
	case 'A':
		return Key(KeyUp, mod), n, true
	case 'B':
		return Key(KeyDown, mod), n, true
	case 'C':
		return Key(KeyRight, mod), n, true
	case 'D':
		return Key(KeyLeft, mod), n, true
	case 'H':
		return Key(KeyHome, mod), n, true
	case 'F':
		return Key(KeyEnd, mod), n, true
	case 'Z':
		return Key(KeyTab, ModShift), n, true
	case 'a', 'b', 'c', 'd':
		// rxvt shift-arrows
		codes := map[byte]KeyCode{'a': KeyUp, 'b': KeyDown, 'c': KeyRight, 'd': KeyLeft}
		return Key(codes[final], ModShift), n, true
	case '~':
		if len(params) == 0 {
			return KeyEvent{}, n, true
		}
		switch params[0] {
		case 1, 7:
			return Key(KeyHome, mod), n, true
		case 4, 8:
			return Key(KeyEnd, mod), n, true
		case 2:
			return Key(KeyInsert, mod), n, true
		case 3:
			return Key(KeyDelete, mod), n, true
		case 5:
			return Key(KeyPageUp, mod), n, true
		case 6:
			return Key(KeyPageDown, mod), n, true
		}
	}
	// 200~/201~ bracketed paste markers, focus events and anything unknown
	return KeyEvent{}, n, true
}

// parseParams splits "1;5" into []int{1, 5}. Empty fields become 1, the xterm default.
func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ";")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			v = 1
		}
		out = append(out, v)
	}
	return out
}
