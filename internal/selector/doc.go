// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selector implements the keyboard-driven list picker.
//
// A Selector draws up to a window of items under a prompt, filters them with
// a fuzzy subsequence match as the user types and returns the indices of the
// chosen items. Model holds the state and can be driven without a terminal.
//
// Rows look like
//
//	> [x] first item
//	  [ ] second item
//	Query: fi
//
// Labels are flattened to one row, stripped of escape sequences and cut to
// the screen width minus a margin.
package selector
