package config

import "fmt"

// ValidationError points at the settings key that failed validation and,
// when known, the file location it was read from.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveSettings applies raw on top of the defaults.
func BuildEffectiveSettings(raw RawSettings) *Settings {
	s := DefaultSettings()
	if raw.PresetsFile != nil {
		s.PresetsFile = *raw.PresetsFile
	}
	if raw.TimeoutSeconds != nil {
		s.TimeoutSeconds = *raw.TimeoutSeconds
	}
	if raw.LogLevel != nil {
		s.LogLevel = *raw.LogLevel
	}
	if raw.StrictApply != nil {
		s.StrictApply = *raw.StrictApply
	}
	if raw.Output != nil {
		s.Output = OutputFormat(*raw.Output)
	}
	if raw.Launcher != nil {
		s.Launcher = *raw.Launcher
	}
	return s
}
