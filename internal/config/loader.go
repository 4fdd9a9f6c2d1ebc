package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
	SourceFlag    SourceKind = "flag"
)

type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Settings *Settings
	Sources  map[string]Source // settings key -> last writer
	File     string            // settings file that was read, empty when none existed
}

// Load reads the settings file from its default location. A missing file,
// or an environment without XDG_CONFIG_HOME and HOME, yields the defaults.
func Load(overrides RawSettings) (*LoadResult, error) {
	path, err := DefaultSettingsPath()
	if err != nil {
		var perr *PathError
		if errors.As(err, &perr) {
			return LoadFromPath("", overrides)
		}
		return nil, err
	}
	return LoadFromPath(path, overrides)
}

// LoadFromPath reads settings from path and applies overrides on top. An
// empty path skips the file.
func LoadFromPath(path string, overrides RawSettings) (*LoadResult, error) {
	raw := RawSettings{}
	sources := map[string]Source{}
	loaded := ""

	if path != "" {
		exists, err := pathExists(path)
		if err != nil {
			return nil, err
		}
		if exists {
			fileRaw, fileSources, err := loadRaw(path)
			if err != nil {
				return nil, err
			}
			raw = raw.merge(fileRaw)
			for key, src := range fileSources {
				sources[key] = src
			}
			loaded = path
			slog.Debug("settings loaded", "path", path)
		}
	}

	raw = raw.merge(overrides)
	for key := range overrides.keys() {
		sources[key] = Source{Kind: SourceFlag}
	}

	s := BuildEffectiveSettings(raw)
	if err := s.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}
	return &LoadResult{Settings: s, Sources: sources, File: loaded}, nil
}

func loadRaw(path string) (RawSettings, map[string]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawSettings{}, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawSettings{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	var raw RawSettings
	if err := decodeStrictYAML(data, &raw); err != nil {
		return RawSettings{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, collectSources(&doc, path), nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		val := node.Content[i+1]
		out[node.Content[i].Value] = Source{
			Kind:   SourceFile,
			File:   file,
			Line:   val.Line,
			Column: val.Column,
		}
	}
	return out
}

func attachSourceContext(err error, sources map[string]Source) error {
	verr, ok := err.(*ValidationError)
	if !ok || verr == nil || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
