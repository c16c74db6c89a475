// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chad configuration.
type Config struct {
	// Line editor behaviour
	Editor EditorConfig `toml:"editor"`

	// List selector behaviour
	Selector SelectorConfig `toml:"selector"`

	// Log file settings
	Log LogConfig `toml:"log"`

	// Output settings
	UI UIConfig `toml:"ui"`
}

// EditorConfig contains line editor settings.
type EditorConfig struct {
	// PasteBurstMS: keystrokes arriving faster than this count as pasted
	PasteBurstMS int `toml:"paste_burst_ms"`
	// PasteStaleMS: a gap longer than this ends a paste
	PasteStaleMS int `toml:"paste_stale_ms"`
	// PasteMinKeys: keystrokes that must precede a burst before it counts
	PasteMinKeys int `toml:"paste_min_keys"`
	// PollTimeoutMS bounds each wait for a key event
	PollTimeoutMS int `toml:"poll_timeout_ms"`
	// EscDelayMS is how long a lone ESC waits for the rest of a key sequence
	EscDelayMS int `toml:"esc_delay_ms"`
	// Prompt is the chat prompt; supports [$color] markup and {user}
	Prompt string `toml:"prompt"`
}

// SelectorConfig contains list selector settings.
type SelectorConfig struct {
	// WindowCap is the most item rows shown at once
	WindowCap int `toml:"window_cap"`
	// LabelMargin is the number of columns kept free right of a label
	LabelMargin int `toml:"label_margin"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error, off
	Level string `toml:"level"`
	// File is where logs are written; the terminal is never used
	File string `toml:"file"`
}

// UIConfig contains output settings.
type UIConfig struct {
	// NoColor disables colored output
	NoColor bool `toml:"no_color"`
}

// PasteBurst returns the burst threshold as a duration.
func (e EditorConfig) PasteBurst() time.Duration {
	return time.Duration(e.PasteBurstMS) * time.Millisecond
}

// PasteStale returns the stale threshold as a duration.
func (e EditorConfig) PasteStale() time.Duration {
	return time.Duration(e.PasteStaleMS) * time.Millisecond
}

// PollTimeout returns the poll bound as a duration.
func (e EditorConfig) PollTimeout() time.Duration {
	return time.Duration(e.PollTimeoutMS) * time.Millisecond
}

// EscDelay returns the lone-ESC wait as a duration.
func (e EditorConfig) EscDelay() time.Duration {
	return time.Duration(e.EscDelayMS) * time.Millisecond
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultPasteBurstMS  = 10
	DefaultPasteStaleMS  = 30
	DefaultPasteMinKeys  = 5
	DefaultPollTimeoutMS = 500
	DefaultEscDelayMS    = 25
	DefaultPrompt        = "[$green]{user} [$/]> "
	DefaultWindowCap     = 10
	DefaultLabelMargin   = 10
	DefaultLogLevel      = "info"

	// MaxWindowCap bounds selector.window_cap
	MaxWindowCap = 50
)

// Default returns a configuration with all default values.
func Default() *Config {
	logFile := ""
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "chad.log")
	}

	return &Config{
		Editor: EditorConfig{
			PasteBurstMS:  DefaultPasteBurstMS,
			PasteStaleMS:  DefaultPasteStaleMS,
			PasteMinKeys:  DefaultPasteMinKeys,
			PollTimeoutMS: DefaultPollTimeoutMS,
			EscDelayMS:    DefaultEscDelayMS,
			Prompt:        DefaultPrompt,
		},
		Selector: SelectorConfig{
			WindowCap:   DefaultWindowCap,
			LabelMargin: DefaultLabelMargin,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			File:  logFile,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chad configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chad"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.chad/config.toml, or defaults when it does not exist.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadTOML decodes a TOML file into cfg and fills unset values with defaults.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	// Editor
	if cfg.Editor.PasteBurstMS == 0 {
		cfg.Editor.PasteBurstMS = defaults.Editor.PasteBurstMS
	}
	if cfg.Editor.PasteStaleMS == 0 {
		cfg.Editor.PasteStaleMS = defaults.Editor.PasteStaleMS
	}
	if cfg.Editor.PasteMinKeys == 0 {
		cfg.Editor.PasteMinKeys = defaults.Editor.PasteMinKeys
	}
	if cfg.Editor.PollTimeoutMS == 0 {
		cfg.Editor.PollTimeoutMS = defaults.Editor.PollTimeoutMS
	}
	if cfg.Editor.EscDelayMS == 0 {
		cfg.Editor.EscDelayMS = defaults.Editor.EscDelayMS
	}
	if cfg.Editor.Prompt == "" {
		cfg.Editor.Prompt = defaults.Editor.Prompt
	}

	// Selector
	if cfg.Selector.WindowCap == 0 {
		cfg.Selector.WindowCap = defaults.Selector.WindowCap
	}
	if cfg.Selector.LabelMargin == 0 {
		cfg.Selector.LabelMargin = defaults.Selector.LabelMargin
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# chad configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true, "off": true, "none": true,
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	positive := []struct {
		field string
		value int
	}{
		{"editor.paste_burst_ms", c.Editor.PasteBurstMS},
		{"editor.paste_stale_ms", c.Editor.PasteStaleMS},
		{"editor.paste_min_keys", c.Editor.PasteMinKeys},
		{"editor.poll_timeout_ms", c.Editor.PollTimeoutMS},
		{"editor.esc_delay_ms", c.Editor.EscDelayMS},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, ValidationError{
				Field:   p.field,
				Message: fmt.Sprintf("must be positive, got %d", p.value),
			})
		}
	}

	if c.Editor.PasteBurstMS > 0 && c.Editor.PasteStaleMS > 0 && c.Editor.PasteBurstMS >= c.Editor.PasteStaleMS {
		errs = append(errs, ValidationError{
			Field: "editor.paste_burst_ms",
			Message: fmt.Sprintf("must be less than editor.paste_stale_ms (%d >= %d)",
				c.Editor.PasteBurstMS, c.Editor.PasteStaleMS),
		})
	}

	if c.Selector.WindowCap < 1 || c.Selector.WindowCap > MaxWindowCap {
		errs = append(errs, ValidationError{
			Field:   "selector.window_cap",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxWindowCap, c.Selector.WindowCap),
		})
	}

	if c.Selector.LabelMargin < 0 {
		errs = append(errs, ValidationError{
			Field:   "selector.label_margin",
			Message: fmt.Sprintf("must not be negative, got %d", c.Selector.LabelMargin),
		})
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error, off", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//   - CHAD_LOG_LEVEL: overrides log.level
//   - CHAD_LOG_FILE: overrides log.file
//   - CHAD_WINDOW_CAP: overrides selector.window_cap
//   - CHAD_PROMPT: overrides editor.prompt
//   - NO_COLOR: any non-empty value sets ui.no_color
func (c *Config) ApplyEnvOverrides() {
	if level := os.Getenv("CHAD_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if file := os.Getenv("CHAD_LOG_FILE"); file != "" {
		c.Log.File = file
	}

	if capStr := os.Getenv("CHAD_WINDOW_CAP"); capStr != "" {
		if n, err := strconv.Atoi(capStr); err == nil {
			c.Selector.WindowCap = n
		}
	}

	if prompt := os.Getenv("CHAD_PROMPT"); prompt != "" {
		c.Editor.Prompt = prompt
	}

	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "selector.window_cap").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "selector.window_cap").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks a dot-notation key down the struct tree.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(strVal == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation, sorted.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		prefix := section.Tag.Get("toml")
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, prefix+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	sort.Strings(keys)
	return keys
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access unless SetGlobal ran first. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		globalConfigMu.Lock()
		defer globalConfigMu.Unlock()
		if globalConfig != nil {
			return
		}
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
