// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the chad package-level logger.
//
// The terminal is in raw mode while the editor and selector run, so log
// output never goes to the tty. Until Setup is called everything is
// discarded; Setup points the logger at a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// L is the package-level logger.
var L = clog.NewWithOptions(io.Discard, clog.Options{Prefix: "chad"})

// ParseLevel maps a config level name to a log level.
func ParseLevel(name string) (clog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return clog.DebugLevel, nil
	case "", "info":
		return clog.InfoLevel, nil
	case "warn", "warning":
		return clog.WarnLevel, nil
	case "error":
		return clog.ErrorLevel, nil
	case "off", "none":
		return clog.FatalLevel + 1, nil
	}
	return clog.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// Setup opens path for appending and points L at it with the given level.
// An empty path keeps logs discarded. The returned closer releases the file.
func Setup(level, path string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if path == "" {
		L = clog.NewWithOptions(io.Discard, clog.Options{Prefix: "chad", Level: lvl})
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	L = clog.NewWithOptions(f, clog.Options{
		Prefix:          "chad",
		Level:           lvl,
		ReportTimestamp: true,
		Formatter:       clog.LogfmtFormatter,
	})
	return f, nil
}

// NewID returns a short correlation id for one editor or selector call.
func NewID() string {
	return uuid.NewString()[:8]
}
