// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Root command, global flags and process entry for chad.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chad-llm/internal/config"
	"github.com/jeranaias/chad-llm/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = ""
)

// rootOptions holds the global flags and the state built from them.
type rootOptions struct {
	configPath string
	logLevel   string
	window     int
	noColor    bool

	cfg       *config.Config
	logCloser io.Closer
}

// config returns the loaded configuration, falling back to the global one.
func (o *rootOptions) config() *config.Config {
	if o.cfg != nil {
		return o.cfg
	}
	return config.Global()
}

// setup loads configuration, applies flag overrides and opens the log.
// Flags beat environment variables, which beat the file.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("window") {
		cfg.Selector.WindowCap = o.window
	}
	if o.noColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	config.SetGlobal(cfg)
	o.cfg = cfg

	if cfg.UI.NoColor {
		ForceColorsEnabled(false)
	}
	applyColorProfile()

	closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return NewCommandError("chad", "setup", "could not open log file", err)
	}
	o.logCloser = closer
	logging.L.Debug("command start", "command", cmd.CommandPath(), "version", Version)
	return nil
}

// close releases the log file.
func (o *rootOptions) close() {
	if o.logCloser != nil {
		_ = o.logCloser.Close()
		o.logCloser = nil
	}
}

// NewRootCmd creates the root command with all subcommands.
// Each call returns a fresh tree so tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chad",
		Short: "chad is a terminal chat client with a raw-mode line editor.",
		Long: `chad reads chat messages with its own line editor: history on Up/Down,
Tab completion of slash commands, word motions and paste detection.
Multi-select pickers drive /forget and /recall, and "chad select" exposes
the same picker to shell scripts.

Running without a subcommand starts an interactive chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, o)
		},
	}
	cmd.Version = versionString()

	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default ~/.chad/config.toml)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	cmd.PersistentFlags().IntVar(&o.window, "window", 0, "rows shown by the selector (1-50)")
	cmd.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newChatCmd(o),
		newSelectCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
	)
	return cmd
}

func newChatCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

When stdin is not a terminal the whole input is sent as one message.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, o)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		// version needs no config or log
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

// resolveBuildVersion prefers linker values and falls back to module build info.
func resolveBuildVersion() (version, commit, date string) {
	version, commit, date = Version, GitCommit, BuildDate
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "unknown" && s.Value != "" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "" {
				date = s.Value
			}
		}
	}
	return version, commit, date
}

func versionString() string {
	v, c, d := resolveBuildVersion()
	s := v
	if c != "" && c != "unknown" {
		s += " (" + c + ")"
	}
	if d != "" {
		s += " built: " + d
	}
	return s
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := &rootOptions{}
	defer o.close()

	cmd := newRootCmd(o)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		logging.L.Error("command failed", "err", err)
		DisplayError(stderr, err)
		return ExitCodeFor(err)
	}
	return ExitSuccess
}
