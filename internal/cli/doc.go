// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the chad command tree.
//
// The root command starts an interactive chat that reads each message with
// the raw-mode line editor and uses the list selector for history commands.
//
// # Key Types
//
//   - ChatSession: The chat loop over a LineReader, ItemSelector and Responder
//   - Responder: Answers one message (EchoResponder stands in for a model client)
//   - CommandError, ValidationError: Structured errors mapped to exit codes
//
// # Usage
//
//	os.Exit(cli.Execute())
//
// # Commands Overview
//
//   - chat: Interactive chat (default), or one message from piped stdin
//   - select: List picker for shell scripts, prints chosen indices
//   - config: Show, get, set and reset ~/.chad/config.toml
//   - version: Build information
package cli
