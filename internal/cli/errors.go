// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for chad commands.
//
// STANDARDIZED PATTERN:
//   - Commands ALWAYS return errors (never just print and return nil)
//   - Execute displays the error once and maps it to an exit code
//   - Structured error types carry the context

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/chad-llm/internal/config"
	"github.com/jeranaias/chad-llm/internal/terminal"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitTerminalError indicates the terminal could not be switched into or out of raw mode
	ExitTerminalError = 4
)

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "select", "config")
	Action  string // Action being performed (e.g., "read", "set")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to w in the standard format.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
	if errors.Is(err, terminal.ErrNotTerminal) {
		fmt.Fprintln(w, DimStyle.Render("Pipe text into chad to send a single message without a terminal."))
	}
}

// ExitCodeFor determines the exit code for an error.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var modeErr *terminal.ModeError
	if errors.As(err, &modeErr) ||
		errors.Is(err, terminal.ErrNotTerminal) ||
		errors.Is(err, terminal.ErrGuardHeld) {
		return ExitTerminalError
	}

	var cfgErrs config.ValidateErrors
	if errors.As(err, &cfgErrs) {
		return ExitConfigError
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsageError
	}

	// cobra reports usage problems as plain errors
	errMsg := strings.ToLower(err.Error())
	if strings.HasPrefix(errMsg, "unknown command") ||
		strings.HasPrefix(errMsg, "unknown flag") ||
		strings.HasPrefix(errMsg, "unknown shorthand flag") ||
		strings.HasPrefix(errMsg, "invalid argument") ||
		strings.Contains(errMsg, "flag needs an argument") ||
		strings.Contains(errMsg, "arg(s)") {
		return ExitUsageError
	}

	if strings.Contains(errMsg, "config") {
		return ExitConfigError
	}

	return ExitGeneralError
}
