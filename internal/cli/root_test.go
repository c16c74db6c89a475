// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chad-llm/internal/config"
)

func TestMain(m *testing.M) {
	ForceColorsEnabled(false)
	applyColorProfile()
	os.Exit(m.Run())
}

// isolateHome points HOME at a temp dir and clears override variables.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, name := range []string{"CHAD_LOG_LEVEL", "CHAD_LOG_FILE", "CHAD_WINDOW_CAP", "CHAD_PROMPT"} {
		t.Setenv(name, "")
	}
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)
	return home
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// =============================================================================
// ROOT AND VERSION
// =============================================================================

func TestExecute_Version(t *testing.T) {
	isolateHome(t)
	code, out, _ := run(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "version: ")
	assert.Contains(t, out, "commit: ")
}

func TestExecute_UnknownCommand(t *testing.T) {
	isolateHome(t)
	code, _, errOut := run(t, "bogus")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "[ERROR]")
	assert.Contains(t, errOut, "unknown command")
}

func TestExecute_UnknownFlag(t *testing.T) {
	isolateHome(t)
	code, _, _ := run(t, "config", "keys", "--frobnicate")
	assert.Equal(t, ExitUsageError, code)
}

func TestNewRootCmd_Tree(t *testing.T) {
	cmd := NewRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"chat", "select", "config", "version"} {
		assert.True(t, names[want], want)
	}
	for _, flag := range []string{"config", "log-level", "window", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

// =============================================================================
// SETUP: CONFIG, FLAGS AND LOG
// =============================================================================

func TestRootOptions_SetupAppliesFlags(t *testing.T) {
	home := isolateHome(t)
	o := &rootOptions{}
	cmd := newRootCmd(o)
	require.NoError(t, cmd.ParseFlags([]string{"--window", "7", "--log-level", "debug"}))

	require.NoError(t, o.setup(cmd))
	defer o.close()

	assert.Equal(t, 7, o.cfg.Selector.WindowCap)
	assert.Equal(t, "debug", o.cfg.Log.Level)
	assert.Same(t, o.cfg, config.Global())
	assert.FileExists(t, filepath.Join(home, ".chad", "chad.log"))
}

func TestRootOptions_EnvBelowFlags(t *testing.T) {
	isolateHome(t)
	t.Setenv("CHAD_WINDOW_CAP", "4")

	o := &rootOptions{}
	cmd := newRootCmd(o)
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, o.setup(cmd))
	o.close()
	assert.Equal(t, 4, o.cfg.Selector.WindowCap)

	o = &rootOptions{}
	cmd = newRootCmd(o)
	require.NoError(t, cmd.ParseFlags([]string{"--window", "9"}))
	require.NoError(t, o.setup(cmd))
	o.close()
	assert.Equal(t, 9, o.cfg.Selector.WindowCap)
}

func TestExecute_InvalidWindowIsConfigError(t *testing.T) {
	isolateHome(t)
	code, _, errOut := run(t, "--window", "99", "config", "show")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, errOut, "selector.window_cap")
}

func TestExecute_MissingConfigFile(t *testing.T) {
	isolateHome(t)
	code, _, _ := run(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "config", "show")
	assert.Equal(t, ExitConfigError, code)
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func TestExecute_ConfigSetGet(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	code, out, errOut := run(t, "--config", path, "config", "set", "selector.window_cap", "15")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "[OK] selector.window_cap = 15")

	code, out, _ = run(t, "--config", path, "config", "get", "Selector.Window-Cap")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "15\n", out)

	code, out, _ = run(t, "--config", path, "config", "show")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "window_cap = 15")
}

func TestExecute_ConfigSetRejectsInvalid(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	code, _, errOut := run(t, "--config", path, "config", "set", "log.level", "chatty")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, errOut, "log.level")
	assert.NoFileExists(t, path)

	code, _, _ = run(t, "--config", path, "config", "set", "selector.nope", "1")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = run(t, "--config", path, "config", "get", "nope")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = run(t, "--config", path, "config", "set", "selector.window_cap")
	assert.Equal(t, ExitUsageError, code)
}

func TestExecute_ConfigSetRepairsInvalidFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[selector]\nwindow_cap = 500\n"), 0o600))

	code, _, _ := run(t, "--config", path, "config", "show")
	require.Equal(t, ExitConfigError, code)

	code, _, errOut := run(t, "--config", path, "config", "set", "selector.window_cap", "12")
	require.Equal(t, ExitSuccess, code, errOut)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Selector.WindowCap)
}

func TestExecute_ConfigResetPathKeys(t *testing.T) {
	home := isolateHome(t)

	code, out, errOut := run(t, "config", "path")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, filepath.Join(home, ".chad", "config.toml")+"\n", out)
	assert.Contains(t, errOut, "does not exist")

	code, out, _ = run(t, "config", "reset")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "reset to defaults")
	assert.FileExists(t, filepath.Join(home, ".chad", "config.toml"))

	code, out, _ = run(t, "config", "keys")
	require.Equal(t, ExitSuccess, code)
	assert.Len(t, strings.Fields(out), len(config.GetAllKeys()))
}
