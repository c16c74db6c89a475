// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineedit

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrEditorAborted is returned when the external editor exits without
// changing the text or with a failure status.
var ErrEditorAborted = errors.New("editor aborted")

// Suspender hands the terminal back to cooked mode while fn runs.
// *terminal.Guard implements it.
type Suspender interface {
	Suspend(fn func() error) error
}

// EditorCommand returns the external editor command line: $VISUAL, then
// $EDITOR, then vi.
func EditorCommand() []string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return strings.Fields(v)
		}
	}
	return []string{"vi"}
}

// ExternalEdit writes initial to a temporary file, opens it in the user's
// editor with the terminal suspended and returns the saved text.
// Unchanged text and a failing editor both return ErrEditorAborted.
func ExternalEdit(sus Suspender, initial string) (string, error) {
	f, err := os.CreateTemp("", ".chad_tmp_*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	argv := append(EditorCommand(), path)
	run := func() error {
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	if sus != nil {
		err = sus.Suspend(run)
	} else {
		err = run()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ErrEditorAborted
		}
		return "", fmt.Errorf("run editor %s: %w", argv[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	edited := string(data)
	if edited == initial {
		return "", ErrEditorAborted
	}
	return edited, nil
}
