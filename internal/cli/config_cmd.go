// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - "chad config" shows and edits the configuration file.
//
// Subcommands:
//   show               Effective configuration (file, env and flags)
//   path               Config file location
//   get KEY            One value, e.g. selector.window_cap
//   set KEY VALUE      Update the file after validation
//   reset              Write defaults to the file
//   keys               All settable keys

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chad-llm/internal/config"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		// editing must work even when the current file does not validate
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyColorProfile()
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := o.setup(cmd); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), o.cfg.String())
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configFilePath(o)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s (file does not exist - defaults are used)\n",
						DimStyle.Render("Note"))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := loadConfigFile(o)
				if err != nil {
					return err
				}
				cfg.ApplyEnvOverrides()
				value, err := cfg.Get(normalizeKey(args[0]))
				if err != nil {
					return &ValidationError{Field: "key", Value: args[0], Reason: err.Error(), Example: "chad config keys"}
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one value in the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfigValue(cmd, o, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Write the default configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configFilePath(o)
				if err != nil {
					return err
				}
				if err := config.SaveTOML(config.Default(), path); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration reset to defaults\n", SuccessStyle.Render("[OK]"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List configuration keys",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, k := range config.GetAllKeys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
			},
		},
	)
	return cmd
}

// setConfigValue validates the change before saving it.
func setConfigValue(cmd *cobra.Command, o *rootOptions, key, value string) error {
	cfg, path, err := loadConfigFile(o)
	if err != nil {
		return err
	}

	key = normalizeKey(key)
	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "chad config set selector.window_cap 15"}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration value: %w", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	return nil
}

// normalizeKey accepts "Selector.Window-Cap" style spellings.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// configFilePath is the --config path or the default location.
func configFilePath(o *rootOptions) (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ConfigPathTOML()
}

// loadConfigFile reads the file without env overrides or validation,
// so the result can be saved back unchanged.
func loadConfigFile(o *rootOptions) (*config.Config, string, error) {
	path, err := configFilePath(o)
	if err != nil {
		return nil, "", err
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return cfg, path, nil
	}
	if err := config.LoadTOML(cfg, path); err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, path, nil
}
