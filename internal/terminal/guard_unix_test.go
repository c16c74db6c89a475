// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installFakeExit records exit codes on a channel instead of exiting.
func installFakeExit(t *testing.T) <-chan int {
	t.Helper()
	codes := make(chan int, 1)
	orig := exit
	t.Cleanup(func() { exit = orig })
	exit = func(code int) { codes <- code }
	return codes
}

func TestGuard_SignalRestoresAndExits(t *testing.T) {
	ft := &fakeTerm{}
	installFakeTerm(t, ft, true)
	codes := installFakeExit(t)

	g, err := Acquire(os.Stdin)
	require.NoError(t, err)
	require.True(t, ft.raw)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))

	select {
	case code := <-codes:
		assert.Equal(t, 128+int(syscall.SIGHUP), code)
	case <-time.After(5 * time.Second):
		t.Fatal("no exit after SIGHUP")
	}
	assert.False(t, ft.raw)
	assert.Equal(t, 1, ft.disables)

	// the handler already released; a deferred Release is a no-op
	require.NoError(t, g.Release())
	assert.Equal(t, 1, ft.disables)
}

func TestGuard_NoSignalHandlingAfterRelease(t *testing.T) {
	ft := &fakeTerm{}
	installFakeTerm(t, ft, true)
	codes := installFakeExit(t)

	// keep the process alive once the guard stops catching SIGHUP
	caught := make(chan os.Signal, 1)
	signal.Notify(caught, syscall.SIGHUP)
	defer signal.Stop(caught)

	g, err := Acquire(os.Stdin)
	require.NoError(t, err)
	require.NoError(t, g.Release())
	require.Equal(t, 1, ft.disables)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))
	select {
	case <-caught:
	case <-time.After(5 * time.Second):
		t.Fatal("SIGHUP not delivered")
	}

	select {
	case code := <-codes:
		t.Fatalf("released guard exited with %d", code)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 1, ft.disables)
	assert.False(t, ft.raw)
}
