package config

// RawSettings mirrors the settings file. Pointer fields distinguish "unset"
// from zero values so only keys present in the file override defaults.
type RawSettings struct {
	PresetsFile    *string `yaml:"presets_file"`
	TimeoutSeconds *int    `yaml:"timeout_seconds"`
	LogLevel       *string `yaml:"log_level"`
	StrictApply    *bool   `yaml:"strict_apply"`
	Output         *string `yaml:"output"`
	Launcher       *string `yaml:"launcher"`
}

func (r RawSettings) merge(other RawSettings) RawSettings {
	out := r
	if other.PresetsFile != nil {
		out.PresetsFile = other.PresetsFile
	}
	if other.TimeoutSeconds != nil {
		out.TimeoutSeconds = other.TimeoutSeconds
	}
	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	if other.StrictApply != nil {
		out.StrictApply = other.StrictApply
	}
	if other.Output != nil {
		out.Output = other.Output
	}
	if other.Launcher != nil {
		out.Launcher = other.Launcher
	}
	return out
}

func (r RawSettings) keys() map[string]struct{} {
	out := make(map[string]struct{})
	if r.PresetsFile != nil {
		out["presets_file"] = struct{}{}
	}
	if r.TimeoutSeconds != nil {
		out["timeout_seconds"] = struct{}{}
	}
	if r.LogLevel != nil {
		out["log_level"] = struct{}{}
	}
	if r.StrictApply != nil {
		out["strict_apply"] = struct{}{}
	}
	if r.Output != nil {
		out["output"] = struct{}{}
	}
	if r.Launcher != nil {
		out["launcher"] = struct{}{}
	}
	return out
}
