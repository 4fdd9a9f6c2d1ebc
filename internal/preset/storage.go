package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Load reads the presets file at path. A missing file is bootstrapped with
// an empty configuration.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("presets file does not exist, creating empty configuration", "path", path)
		cfg := &Configuration{Presets: []Preset{}}
		if err := Write(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file %q: %w", path, err)
	}

	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse presets file %q: %w", path, err)
	}
	if cfg.Presets == nil {
		cfg.Presets = []Preset{}
	}

	seen := make(map[string]struct{}, len(cfg.Presets))
	for i, p := range cfg.Presets {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("presets file %q: duplicate preset name %q", path, p.Name)
		}
		seen[p.Name] = struct{}{}
		cfg.Presets[i].DisplayConfig = p.DisplayConfig.Clone()
	}

	slog.Debug("presets file loaded", "path", path, "presets", len(cfg.Presets))
	return &cfg, nil
}

// Write replaces the presets file at path with cfg. The document is written
// to a temporary file in the same directory and renamed into place.
func Write(path string, cfg *Configuration) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}
	out := Configuration{Presets: make([]Preset, 0, len(cfg.Presets))}
	for _, p := range cfg.Presets {
		out.Presets = append(out.Presets, Preset{Name: p.Name, DisplayConfig: p.DisplayConfig.Clone()})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary presets file: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write presets file %q: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync presets file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close presets file %q: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace presets file %q: %w", path, err)
	}

	slog.Debug("presets file saved", "path", path, "presets", len(out.Presets))
	return nil
}
