package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	PresetsFileName  = "display-presets.json"
	SettingsFileName = "display-presets.yaml"
)

// PathError is returned when no default location can be derived from the
// environment.
type PathError struct {
	File string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("neither XDG_CONFIG_HOME nor HOME is set; unable to locate %s (pass --config explicitly)", e.File)
}

func configHome() (string, bool) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, true
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config"), true
	}
	return "", false
}

// DefaultPresetsPath returns $XDG_CONFIG_HOME/display-presets.json, falling
// back to $HOME/.config/display-presets.json.
func DefaultPresetsPath() (string, error) {
	dir, ok := configHome()
	if !ok {
		return "", &PathError{File: PresetsFileName}
	}
	return filepath.Join(dir, PresetsFileName), nil
}

// DefaultSettingsPath returns the settings file location, resolved the same
// way as the presets file.
func DefaultSettingsPath() (string, error) {
	dir, ok := configHome()
	if !ok {
		return "", &PathError{File: SettingsFileName}
	}
	return filepath.Join(dir, SettingsFileName), nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", &PathError{File: path}
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
