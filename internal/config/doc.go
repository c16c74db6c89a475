// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chad.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - EditorConfig: Line editor paste detection, poll bound and prompt
//   - SelectorConfig: List selector window and label margin
//   - LogConfig: Log level and log file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (--log-level, --window, --no-color)
//   - Environment variables (CHAD_*, NO_COLOR)
//   - The file given with --config, else ~/.chad/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//
// Access settings:
//
//	burst := cfg.Editor.PasteBurst()
//	window := cfg.Selector.WindowCap
package config
