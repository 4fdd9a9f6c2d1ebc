package mutter

import (
	"github.com/godbus/dbus/v5"

	"github.com/1broseidon/displaypresets/internal/display"
)

// PersistenceMode selects how long an applied configuration lives.
type PersistenceMode int

const (
	// Transient configurations revert unless the user confirms them.
	Transient PersistenceMode = iota
	// Persistent configurations are stored by the compositor.
	Persistent
)

func (m PersistenceMode) String() string {
	if m == Persistent {
		return "persistent"
	}
	return "transient"
}

// Method maps the persistence mode onto the ApplyMonitorsConfig method.
func (m PersistenceMode) Method() ApplyMethod {
	if m == Persistent {
		return MethodPersistent
	}
	return MethodTemporary
}

// ApplyMethod is the method argument of ApplyMonitorsConfig.
type ApplyMethod uint32

const (
	MethodTemporary  ApplyMethod = 1
	MethodPersistent ApplyMethod = 2
)

// MonitorAssignment is the (ssa{sv}) tuple selecting a mode for a connector.
type MonitorAssignment struct {
	Connector  string                  `json:"connector" yaml:"connector"`
	ModeID     string                  `json:"mode_id" yaml:"mode_id"`
	Properties map[string]dbus.Variant `json:"properties" yaml:"-"`
}

// LogicalMonitorConfig is the (iiduba(ssa{sv})) tuple of an apply request.
type LogicalMonitorConfig struct {
	X         int32               `json:"x" yaml:"x"`
	Y         int32               `json:"y" yaml:"y"`
	Scale     float64             `json:"scale" yaml:"scale"`
	Transform uint32              `json:"transform" yaml:"transform"`
	Primary   bool                `json:"primary" yaml:"primary"`
	Monitors  []MonitorAssignment `json:"monitors" yaml:"monitors"`
}

// ApplyRequest holds the arguments of one ApplyMonitorsConfig call.
type ApplyRequest struct {
	Serial          uint32                  `json:"serial" yaml:"serial"`
	Method          ApplyMethod             `json:"method" yaml:"method"`
	LogicalMonitors []LogicalMonitorConfig  `json:"logical_monitors" yaml:"logical_monitors"`
	Properties      map[string]dbus.Variant `json:"properties" yaml:"-"`

	// Unresolved lists connectors left out of LogicalMonitors. It is not
	// sent to the service.
	Unresolved []UnresolvedConnector `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// EncodeApply builds an apply request for state using the caller's serial.
// Each logical monitor lists its connectors with the mode marked current on
// the matching monitor of the same state; connectors without a monitor or
// without a current mode are omitted and recorded in Unresolved.
func EncodeApply(serial uint32, mode PersistenceMode, state display.State) ApplyRequest {
	req := ApplyRequest{
		Serial:          serial,
		Method:          mode.Method(),
		LogicalMonitors: make([]LogicalMonitorConfig, 0, len(state.LogicalMonitors)),
		Properties:      map[string]dbus.Variant{},
	}

	for i, lm := range state.LogicalMonitors {
		assignments := make([]MonitorAssignment, 0, len(lm.Monitors))
		for _, connector := range lm.Connectors() {
			monitor, ok := state.FindMonitor(connector)
			if !ok {
				req.Unresolved = append(req.Unresolved, UnresolvedConnector{
					LogicalMonitor: i,
					Connector:      connector,
					Reason:         "no monitor with this connector",
				})
				continue
			}
			modeID, ok := monitor.CurrentModeID()
			if !ok {
				req.Unresolved = append(req.Unresolved, UnresolvedConnector{
					LogicalMonitor: i,
					Connector:      connector,
					Reason:         "no mode marked current",
				})
				continue
			}
			assignments = append(assignments, MonitorAssignment{
				Connector:  connector,
				ModeID:     modeID,
				Properties: map[string]dbus.Variant{},
			})
		}

		req.LogicalMonitors = append(req.LogicalMonitors, LogicalMonitorConfig{
			X:         lm.X,
			Y:         lm.Y,
			Scale:     lm.Scale,
			Transform: uint32(lm.Transform),
			Primary:   lm.Primary,
			Monitors:  assignments,
		})
	}
	return req
}

// Resolved returns an UnresolvedConnectorError when any connector was left
// out of the request.
func (r ApplyRequest) Resolved() error {
	if len(r.Unresolved) == 0 {
		return nil
	}
	return &UnresolvedConnectorError{Connectors: r.Unresolved}
}

// Args returns the D-Bus body (u u a(iiduba(ssa{sv})) a{sv}).
func (r ApplyRequest) Args() []any {
	props := r.Properties
	if props == nil {
		props = map[string]dbus.Variant{}
	}
	return []any{r.Serial, uint32(r.Method), r.LogicalMonitors, props}
}
