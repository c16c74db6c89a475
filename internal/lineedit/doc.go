// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lineedit implements the raw-mode line editor used by the chat prompt.
//
// An Editor reads key events from a terminal.EventSource and redraws one row
// of the terminal after every change. It supports cursor movement, word
// navigation and deletion, history recall, tab completion and a paste-burst
// heuristic that keeps Enter from submitting in the middle of pasted text.
//
// # Key Types
//
//   - Editor: the ReadLine loop
//   - Buffer: rune slice plus cursor with the editing operations
//   - History: offset-addressed recall, BasicHistory is the in-memory version
//   - Completer: prefix completion, PrefixCompleter works over a word list
//
// # Usage
//
//	g, err := terminal.Acquire(os.Stdin)
//	if err != nil {
//	    return err
//	}
//	defer g.Release()
//
//	hist := lineedit.NewBasicHistory()
//	ed := lineedit.New(terminal.NewTTYSource(os.Stdin), terminal.NewScreen(os.Stdout),
//	    lineedit.WithHistory(hist))
//	line, ok := ed.ReadLine("> ")
//	if ok && line != "" {
//	    hist.Write(line)
//	}
//
// ReadLine never writes history itself; the caller decides what is kept.
package lineedit
