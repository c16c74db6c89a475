// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultEscDelay is how long a lone ESC waits for the rest of a sequence
// before it is reported as the Esc key.
const DefaultEscDelay = 25 * time.Millisecond

// TTYSource is an EventSource reading raw bytes from a terminal file.
// The file should be in raw mode (see Acquire) for keys to arrive unbuffered.
type TTYSource struct {
	f        *os.File
	fd       int
	dec      Decoder
	buf      [256]byte
	escDelay time.Duration
	now      func() time.Time
}

// NewTTYSource creates an event source over f, usually os.Stdin.
func NewTTYSource(f *os.File) *TTYSource {
	return &TTYSource{
		f:        f,
		fd:       int(f.Fd()),
		escDelay: DefaultEscDelay,
		now:      time.Now,
	}
}

// SetEscDelay changes the lone-ESC timeout. Values <= 0 restore the default.
func (s *TTYSource) SetEscDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultEscDelay
	}
	s.escDelay = d
}

// Poll implements EventSource. A lone ESC is reported as the Esc key once
// the ESC delay passes or the timeout expires, whichever comes first.
//
// The timeout is only honoured on unix platforms. Elsewhere Poll blocks in
// Read until input arrives.
func (s *TTYSource) Poll(timeout time.Duration) (KeyEvent, bool, error) {
	deadline := s.now().Add(timeout)

	for {
		if ev, ok := s.dec.Next(false); ok {
			return ev, true, nil
		}

		remaining := deadline.Sub(s.now())
		if remaining < 0 {
			remaining = 0
		}
		wait := remaining
		pending := s.dec.Pending()
		if pending && s.escDelay < wait {
			wait = s.escDelay
		}
		if !pending && remaining == 0 {
			return KeyEvent{}, false, nil
		}

		ready, err := waitReadable(s.fd, wait)
		if err != nil {
			return KeyEvent{}, false, fmt.Errorf("poll input: %w", err)
		}

		if !ready {
			if pending {
				if ev, ok := s.dec.Next(true); ok {
					return ev, true, nil
				}
				continue
			}
			return KeyEvent{}, false, nil
		}

		n, err := s.f.Read(s.buf[:])
		if n > 0 {
			s.dec.Feed(s.buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && n > 0 {
				continue
			}
			return KeyEvent{}, false, fmt.Errorf("read input: %w", err)
		}
		if n == 0 {
			return KeyEvent{}, false, fmt.Errorf("read input: %w", io.EOF)
		}
	}
}
