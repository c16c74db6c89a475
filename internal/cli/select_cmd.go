// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// select_cmd.go - "chad select" exposes the list picker to scripts.
//
// Examples:
//   chad select apple banana cherry              Multi-select, prints indices
//   chad select --single red green blue          Pick exactly one
//   chad select -p 0,2 apple banana cherry       Start with items 0 and 2 checked
//   ls | chad select --single                    Items from stdin, keys from the tty
//
// Chosen indices are printed one per line on stdout. The picker itself is
// drawn on the terminal, so stdout can be captured.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chad-llm/internal/selector"
	"github.com/jeranaias/chad-llm/internal/terminal"
)

// ttyPath is the controlling terminal used when stdin carries the items.
var ttyPath = "/dev/tty"

type selectOptions struct {
	single    bool
	preselect []int
	prompt    string
}

func newSelectCmd(o *rootOptions) *cobra.Command {
	so := &selectOptions{}
	cmd := &cobra.Command{
		Use:   "select [item...]",
		Short: "Pick items from a list and print their indices",
		Long: `Pick items from a list and print their indices, one per line.

Type to filter, Up/Down to move, Space to toggle, Enter to accept and
Esc or Ctrl+C to cancel. With no arguments, items are read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, o, so, args)
		},
	}
	cmd.Flags().BoolVarP(&so.single, "single", "s", false, "allow only one selection")
	cmd.Flags().IntSliceVarP(&so.preselect, "preselect", "p", nil, "indices selected at start (e.g. 0,2)")
	cmd.Flags().StringVar(&so.prompt, "prompt", "Select: ", "prompt shown above the list; supports [$color] markup")
	return cmd
}

func runSelect(cmd *cobra.Command, o *rootOptions, so *selectOptions, args []string) (err error) {
	cfg := o.config()
	items := args
	in := os.Stdin
	var out io.Writer = os.Stderr

	if len(items) == 0 {
		if IsTTY(os.Stdin) {
			return ErrMissingArgument("item", "chad select apple banana cherry")
		}
		items, err = readItems(os.Stdin)
		if err != nil {
			return NewCommandError("select", "read", "could not read items from stdin", err)
		}
		if len(items) == 0 {
			return nil
		}

		tty, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
		if err != nil {
			return NewCommandError("select", "open", "no terminal for key input", err)
		}
		defer tty.Close()
		in, out = tty, tty
	}

	guard, err := terminal.Acquire(in)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := guard.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	screen := terminal.NewScreen(out, terminal.WithProfile(GetColorProfile()))
	picker := selector.New(newKeySource(in, cfg), screen,
		selector.WithWindowCap(cfg.Selector.WindowCap),
		selector.WithLabelMargin(cfg.Selector.LabelMargin),
		selector.WithPollTimeout(cfg.Editor.PollTimeout()),
	)

	picked := picker.Select(so.prompt, items, so.single, so.preselect)

	// print in cooked mode
	if err := guard.Release(); err != nil {
		return err
	}
	return printIndices(cmd.OutOrStdout(), picked)
}

// printIndices writes one index per line.
func printIndices(w io.Writer, picked []int) error {
	for _, idx := range picked {
		if _, err := fmt.Fprintln(w, idx); err != nil {
			return err
		}
	}
	return nil
}

// readItems returns the non-blank lines of r.
func readItems(r io.Reader) ([]string, error) {
	var items []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, line)
	}
	return items, scanner.Err()
}
