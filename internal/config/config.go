package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

const (
	DefaultTimeoutSeconds = 10
	DefaultLogLevel       = "error"
	DefaultOutput         = OutputText
	DefaultLauncher       = "none"
)

// Launchers lists the accepted launcher settings.
var Launchers = []string{"none", "auto", "rofi", "fuzzel", "wofi", "dmenu"}

// OutputFormat selects how presets and states are printed.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a user-supplied output format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON, OutputYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("output must be one of: text, json, yaml")
	}
}

// Settings is the effective tool configuration after defaults, the settings
// file, and command-line overrides have been applied.
type Settings struct {
	PresetsFile    string       `yaml:"presets_file"`
	TimeoutSeconds int          `yaml:"timeout_seconds"`
	LogLevel       string       `yaml:"log_level"`
	StrictApply    bool         `yaml:"strict_apply"`
	Output         OutputFormat `yaml:"output"`
	// Launcher picks presets without a terminal, e.g. from a keyboard shortcut.
	Launcher       string       `yaml:"launcher"`
}

// DefaultSettings returns the built-in defaults. PresetsFile is left empty
// and resolved lazily through DefaultPresetsPath.
func DefaultSettings() *Settings {
	return &Settings{
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       DefaultLogLevel,
		Output:         DefaultOutput,
		Launcher:       DefaultLauncher,
	}
}

// Timeout returns the D-Bus call timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// SlogLevel maps LogLevel onto a slog level.
func (s *Settings) SlogLevel() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Validate checks that every field holds a usable value.
func (s *Settings) Validate() error {
	if s.TimeoutSeconds <= 0 {
		return &ValidationError{Path: "timeout_seconds", Err: fmt.Errorf("timeout_seconds must be > 0")}
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if _, err := ParseOutputFormat(string(s.Output)); err != nil {
		return &ValidationError{Path: "output", Err: err}
	}
	if !slices.Contains(Launchers, s.Launcher) {
		return &ValidationError{Path: "launcher", Err: fmt.Errorf("launcher must be one of: %s", strings.Join(Launchers, ", "))}
	}
	return nil
}

// PresetsPath returns the configured presets file, falling back to the
// default location.
func (s *Settings) PresetsPath() (string, error) {
	if s.PresetsFile != "" {
		return expandHome(s.PresetsFile)
	}
	return DefaultPresetsPath()
}
