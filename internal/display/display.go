package display

import (
	"fmt"
	"strconv"
)

// PropCurrent marks the mode a monitor is currently driven with.
const PropCurrent = "is-current"

// Properties is an open set of extra attributes reported by the compositor.
// Values are always normalized to strings.
type Properties map[string]string

// Transform is the rotation/reflection applied to a logical monitor.
type Transform uint32

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	default:
		return strconv.FormatUint(uint64(t), 10)
	}
}

// MonitorInfo identifies a physical monitor. Connector is the join key
// between monitors and logical monitors.
type MonitorInfo struct {
	Connector string `json:"connector" yaml:"connector"`
	Vendor    string `json:"vendor" yaml:"vendor"`
	Product   string `json:"product" yaml:"product"`
	Serial    string `json:"serial" yaml:"serial"`
}

// Mode is a single timing mode supported by a monitor.
type Mode struct {
	ID              string     `json:"id" yaml:"id"`
	Width           int32      `json:"width" yaml:"width"`
	Height          int32      `json:"height" yaml:"height"`
	RefreshRate     float64    `json:"refresh_rate" yaml:"refresh_rate"`
	PreferredScale  float64    `json:"preferred_scale" yaml:"preferred_scale"`
	SupportedScales []float64  `json:"supported_scales" yaml:"supported_scales"`
	Properties      Properties `json:"properties" yaml:"properties"`
}

// IsCurrent reports whether the mode carries the is-current marker.
func (m Mode) IsCurrent() bool {
	return m.Properties[PropCurrent] == "1"
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d@%s", m.Width, m.Height, strconv.FormatFloat(m.RefreshRate, 'f', -1, 64))
}

// Monitor is a physical monitor together with its available modes.
type Monitor struct {
	Info       MonitorInfo `json:"monitor_info" yaml:"monitor_info"`
	Modes      []Mode      `json:"modes" yaml:"modes"`
	Properties Properties  `json:"properties" yaml:"properties"`
}

// CurrentMode returns the mode marked as current, if any.
func (m Monitor) CurrentMode() (Mode, bool) {
	for _, mode := range m.Modes {
		if mode.IsCurrent() {
			return mode, true
		}
	}
	return Mode{}, false
}

// CurrentModeID returns the id of the mode marked as current, if any.
func (m Monitor) CurrentModeID() (string, bool) {
	mode, ok := m.CurrentMode()
	if !ok {
		return "", false
	}
	return mode.ID, true
}

// LogicalMonitor is a compositor-visible output surface made of one or more
// physical monitors (more than one when mirroring).
type LogicalMonitor struct {
	X          int32         `json:"x" yaml:"x"`
	Y          int32         `json:"y" yaml:"y"`
	Scale      float64       `json:"scale" yaml:"scale"`
	Transform  Transform     `json:"transform" yaml:"transform"`
	Primary    bool          `json:"primary" yaml:"primary"`
	Monitors   []MonitorInfo `json:"monitors" yaml:"monitors"`
	Properties Properties    `json:"properties" yaml:"properties"`
}

// Connectors returns the connector names of the member monitors, in order.
func (lm LogicalMonitor) Connectors() []string {
	out := make([]string, 0, len(lm.Monitors))
	for _, m := range lm.Monitors {
		out = append(out, m.Connector)
	}
	return out
}

// State is a full display configuration snapshot. Serial is the generation
// token the service expects back when applying a configuration.
type State struct {
	Serial          uint32           `json:"serial" yaml:"serial"`
	Monitors        []Monitor        `json:"monitors" yaml:"monitors"`
	LogicalMonitors []LogicalMonitor `json:"logical_monitors" yaml:"logical_monitors"`
	Properties      Properties       `json:"properties" yaml:"properties"`
}

// FindMonitor returns the monitor attached to connector.
func (s State) FindMonitor(connector string) (Monitor, bool) {
	for _, m := range s.Monitors {
		if m.Info.Connector == connector {
			return m, true
		}
	}
	return Monitor{}, false
}

// CurrentModes maps each connector to its current mode.
func (s State) CurrentModes() map[string]Mode {
	out := make(map[string]Mode, len(s.Monitors))
	for _, m := range s.Monitors {
		if mode, ok := m.CurrentMode(); ok {
			out[m.Info.Connector] = mode
		}
	}
	return out
}

// Validate checks the structural invariants of a snapshot: mode ids are
// unique per monitor, at most one mode is current per monitor, and every
// logical monitor references a known connector.
func (s State) Validate() error {
	known := make(map[string]struct{}, len(s.Monitors))
	for i, m := range s.Monitors {
		known[m.Info.Connector] = struct{}{}
		seen := make(map[string]struct{}, len(m.Modes))
		current := 0
		for j, mode := range m.Modes {
			if _, dup := seen[mode.ID]; dup {
				return &InvariantError{
					Path: fmt.Sprintf("monitors[%d].modes[%d].id", i, j),
					Err:  fmt.Errorf("duplicate mode id %q on %s", mode.ID, m.Info.Connector),
				}
			}
			seen[mode.ID] = struct{}{}
			if mode.IsCurrent() {
				current++
			}
		}
		if current > 1 {
			return &InvariantError{
				Path: fmt.Sprintf("monitors[%d].modes", i),
				Err:  fmt.Errorf("%s has %d modes marked current", m.Info.Connector, current),
			}
		}
	}
	for i, lm := range s.LogicalMonitors {
		for j, info := range lm.Monitors {
			if _, ok := known[info.Connector]; !ok {
				return &InvariantError{
					Path: fmt.Sprintf("logical_monitors[%d].monitors[%d]", i, j),
					Err:  fmt.Errorf("connector %q is not in the monitor list", info.Connector),
				}
			}
		}
	}
	return nil
}

// InvariantError reports a snapshot that breaks a structural invariant.
type InvariantError struct {
	Path string
	Err  error
}

func (e *InvariantError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *InvariantError) Unwrap() error { return e.Err }

// Clone returns a deep copy of the snapshot with nil collections replaced by
// empty ones, so it serializes the same way regardless of origin.
func (s State) Clone() State {
	out := State{
		Serial:          s.Serial,
		Monitors:        make([]Monitor, 0, len(s.Monitors)),
		LogicalMonitors: make([]LogicalMonitor, 0, len(s.LogicalMonitors)),
		Properties:      s.Properties.clone(),
	}
	for _, m := range s.Monitors {
		modes := make([]Mode, 0, len(m.Modes))
		for _, mode := range m.Modes {
			scales := make([]float64, len(mode.SupportedScales))
			copy(scales, mode.SupportedScales)
			mode.SupportedScales = scales
			mode.Properties = mode.Properties.clone()
			modes = append(modes, mode)
		}
		out.Monitors = append(out.Monitors, Monitor{
			Info:       m.Info,
			Modes:      modes,
			Properties: m.Properties.clone(),
		})
	}
	for _, lm := range s.LogicalMonitors {
		infos := make([]MonitorInfo, len(lm.Monitors))
		copy(infos, lm.Monitors)
		lm.Monitors = infos
		lm.Properties = lm.Properties.clone()
		out.LogicalMonitors = append(out.LogicalMonitors, lm)
	}
	return out
}

func (p Properties) clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
