// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/term"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrGuardHeld is returned by Acquire while another Guard is still active.
	ErrGuardHeld = errors.New("raw mode already held")

	// ErrNotTerminal is returned when the input is not a terminal.
	ErrNotTerminal = errors.New("input is not a terminal")
)

// ModeError reports a failure to switch the terminal mode.
type ModeError struct {
	Op  string // "enable" or "disable"
	Err error
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("failed to %s raw mode: %v", e.Op, e.Err)
}

func (e *ModeError) Unwrap() error {
	return e.Err
}

// =============================================================================
// GUARD
// =============================================================================

// Replaced in tests.
var (
	makeRaw    = term.MakeRaw
	restore    = term.Restore
	isTerminal = term.IsTerminal
	exit       = os.Exit
)

// held is process-wide: only one Guard may exist at a time.
var held atomic.Bool

// Guard holds the terminal in raw mode until Release.
type Guard struct {
	fd    int
	state *term.State

	mu       sync.Mutex
	released bool
	sigCh    chan os.Signal
	done     chan struct{}
}

// Acquire puts the terminal behind in into raw mode.
//
// The returned Guard must be released; the usual pattern is
//
//	g, err := terminal.Acquire(os.Stdin)
//	if err != nil {
//	    return err
//	}
//	defer g.Release()
//
// While held, SIGINT, SIGTERM and SIGHUP restore the terminal before the
// process exits.
func Acquire(in *os.File) (*Guard, error) {
	if !held.CompareAndSwap(false, true) {
		return nil, ErrGuardHeld
	}

	fd := int(in.Fd())
	if !isTerminal(fd) {
		held.Store(false)
		return nil, &ModeError{Op: "enable", Err: ErrNotTerminal}
	}

	state, err := makeRaw(fd)
	if err != nil {
		held.Store(false)
		return nil, &ModeError{Op: "enable", Err: err}
	}

	g := &Guard{
		fd:    fd,
		state: state,
		sigCh: make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
	signal.Notify(g.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go g.watchSignals()

	return g, nil
}

// watchSignals restores the terminal and exits when a termination signal
// arrives while the guard is held.
func (g *Guard) watchSignals() {
	select {
	case sig := <-g.sigCh:
		_ = g.Release()
		code := 1
		if s, ok := sig.(syscall.Signal); ok {
			code = 128 + int(s)
		}
		exit(code)
	case <-g.done:
	}
}

// Release restores the saved terminal state. Only the first call has any
// effect; later calls return nil.
func (g *Guard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return nil
	}
	g.released = true

	signal.Stop(g.sigCh)
	close(g.done)
	held.Store(false)

	if err := restore(g.fd, g.state); err != nil {
		return &ModeError{Op: "disable", Err: err}
	}
	return nil
}

// Suspend restores cooked mode while fn runs, then re-enters raw mode.
// It is used to hand the terminal to a child process such as an editor.
func (g *Guard) Suspend(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return fn()
	}

	if err := restore(g.fd, g.state); err != nil {
		return &ModeError{Op: "disable", Err: err}
	}

	fnErr := fn()

	state, err := makeRaw(g.fd)
	if err != nil {
		return errors.Join(fnErr, &ModeError{Op: "enable", Err: err})
	}
	g.state = state
	return fnErr
}
