// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build unix

package lineedit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSuspender struct {
	calls int
}

func (s *recordingSuspender) Suspend(fn func() error) error {
	s.calls++
	return fn()
}

func writeEditorScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-editor.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, []string{"vi"}, EditorCommand())

	t.Setenv("EDITOR", "nano -w")
	assert.Equal(t, []string{"nano", "-w"}, EditorCommand())

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, []string{"code", "--wait"}, EditorCommand())
}

func TestExternalEdit_ReturnsEditedText(t *testing.T) {
	script := writeEditorScript(t, `printf ' world' >> "$1"`)
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	sus := &recordingSuspender{}
	got, err := ExternalEdit(sus, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, 1, sus.calls)
}

func TestExternalEdit_UnchangedIsAborted(t *testing.T) {
	script := writeEditorScript(t, "exit 0")
	t.Setenv("VISUAL", script)

	_, err := ExternalEdit(&recordingSuspender{}, "same")
	assert.ErrorIs(t, err, ErrEditorAborted)
}

func TestExternalEdit_FailureIsAborted(t *testing.T) {
	script := writeEditorScript(t, `echo changed > "$1"; exit 3`)
	t.Setenv("VISUAL", script)

	_, err := ExternalEdit(nil, "orig")
	assert.ErrorIs(t, err, ErrEditorAborted)
}

func TestExternalEdit_MissingEditor(t *testing.T) {
	t.Setenv("VISUAL", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := ExternalEdit(nil, "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEditorAborted)
}
