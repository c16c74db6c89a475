// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !unix

package terminal

import "time"

// waitReadable has no bounded wait on this platform; the following Read blocks.
func waitReadable(fd int, timeout time.Duration) (bool, error) {
	return true, nil
}
