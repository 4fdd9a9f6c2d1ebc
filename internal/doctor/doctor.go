// Package doctor checks that the environment can save and apply presets.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/preset"
	"github.com/1broseidon/displaypresets/internal/x11"
)

// Status is the outcome of one check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Check is one line of the report.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
	Detail string `json:"detail" yaml:"detail"`
}

// Report collects the checks in a fixed order.
type Report struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// Failed reports whether any check failed.
func (r Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Write prints one line per check.
func (r Report) Write(w io.Writer) error {
	for _, c := range r.Checks {
		if _, err := fmt.Fprintf(w, "%-5s %-14s %s\n", c.Status, c.Name, c.Detail); err != nil {
			return err
		}
	}
	return nil
}

// StateQuerier reads the live display configuration.
type StateQuerier interface {
	GetCurrentState(ctx context.Context) (display.State, error)
}

// OutputLister lists X11 RandR outputs.
type OutputLister func() ([]x11.Output, error)

// Doctor holds what the checks need.
type Doctor struct {
	PresetsPath  string
	SettingsPath string
	// SettingsErr is the error returned when the settings were loaded.
	SettingsErr  error
	State        StateQuerier
	Outputs      OutputLister
}

// Run executes the checks concurrently and returns the report. Only a
// failure to reach the display configuration service is fatal; the other
// checks warn.
func (d *Doctor) Run(ctx context.Context) Report {
	var (
		presetsCheck  Check
		settingsCheck Check
		dbusCheck     Check
		x11Check      Check
		state         display.State
		outputs       []x11.Output
		outputsOK     bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		presetsCheck = d.checkPresets()
		return nil
	})
	g.Go(func() error {
		settingsCheck = d.checkSettings()
		return nil
	})
	g.Go(func() error {
		var err error
		dbusCheck, state, err = d.checkDBus(gctx)
		return err
	})
	g.Go(func() error {
		x11Check, outputs, outputsOK = d.checkX11()
		return nil
	})
	// Only the display config probe reports through the group.
	dbusErr := g.Wait()

	checks := []Check{presetsCheck, settingsCheck, dbusCheck, x11Check}
	checks = append(checks, crossCheck(state, dbusErr == nil, outputs, outputsOK))
	return Report{Checks: checks}
}

func (d *Doctor) checkPresets() Check {
	c := Check{Name: "presets file"}
	if d.PresetsPath == "" {
		c.Status, c.Detail = StatusWarn, "no presets file location"
		return c
	}
	data, err := os.ReadFile(d.PresetsPath)
	if errors.Is(err, os.ErrNotExist) {
		c.Status, c.Detail = StatusOK, d.PresetsPath+" (not created yet)"
		return c
	}
	if err != nil {
		c.Status, c.Detail = StatusWarn, err.Error()
		return c
	}
	if len(data) == 0 {
		c.Status, c.Detail = StatusWarn, d.PresetsPath+" is empty"
		return c
	}
	cfg, err := preset.Load(d.PresetsPath)
	if err != nil {
		c.Status, c.Detail = StatusWarn, err.Error()
		return c
	}
	c.Status, c.Detail = StatusOK, fmt.Sprintf("%s (%d presets)", d.PresetsPath, len(cfg.Presets))
	return c
}

func (d *Doctor) checkSettings() Check {
	c := Check{Name: "settings"}
	switch {
	case d.SettingsErr != nil:
		c.Status, c.Detail = StatusWarn, d.SettingsErr.Error()
	case d.SettingsPath == "":
		c.Status, c.Detail = StatusOK, "defaults"
	default:
		c.Status, c.Detail = StatusOK, d.SettingsPath
	}
	return c
}

func (d *Doctor) checkDBus(ctx context.Context) (Check, display.State, error) {
	c := Check{Name: "display config"}
	if d.State == nil {
		c.Status, c.Detail = StatusFail, "no session bus client"
		return c, display.State{}, errors.New(c.Detail)
	}
	state, err := d.State.GetCurrentState(ctx)
	if err != nil {
		c.Status, c.Detail = StatusFail, err.Error()
		return c, display.State{}, err
	}
	c.Status = StatusOK
	c.Detail = fmt.Sprintf("serial %d, %d monitors, %d logical monitors",
		state.Serial, len(state.Monitors), len(state.LogicalMonitors))
	return c, state, nil
}

func (d *Doctor) checkX11() (Check, []x11.Output, bool) {
	c := Check{Name: "x11 randr"}
	if d.Outputs == nil {
		c.Status, c.Detail = StatusSkip, "not checked"
		return c, nil, false
	}
	outputs, err := d.Outputs()
	if err != nil {
		c.Status, c.Detail = StatusSkip, err.Error()
		return c, nil, false
	}
	names := make([]string, 0, len(outputs))
	for _, o := range outputs {
		names = append(names, o.Name)
	}
	c.Status, c.Detail = StatusOK, strings.Join(names, ", ")
	if len(names) == 0 {
		c.Detail = "no outputs"
	}
	return c, outputs, true
}

func crossCheck(state display.State, stateOK bool, outputs []x11.Output, outputsOK bool) Check {
	c := Check{Name: "connectors"}
	if !stateOK || !outputsOK {
		c.Status, c.Detail = StatusSkip, "needs both display config and x11"
		return c
	}
	if x11.AllXWayland(outputs) {
		c.Status, c.Detail = StatusOK, "XWayland outputs only; Wayland session"
		return c
	}
	connectors := make([]string, 0, len(state.Monitors))
	for _, m := range state.Monitors {
		connectors = append(connectors, m.Info.Connector)
	}
	missing, extra := x11.CompareConnectors(connectors, outputs)
	if len(missing) == 0 && len(extra) == 0 {
		c.Status, c.Detail = StatusOK, strings.Join(connectors, ", ")
		return c
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "not in randr: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "not in display config: "+strings.Join(extra, ", "))
	}
	c.Status, c.Detail = StatusWarn, strings.Join(parts, "; ")
	return c
}
