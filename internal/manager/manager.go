// Package manager sequences preset operations: it loads the presets file,
// talks to the display configuration service, runs one store operation and
// persists the result.
package manager

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/mutter"
	"github.com/1broseidon/displaypresets/internal/preset"
)

// Transport queries and applies display configurations.
type Transport interface {
	GetCurrentState(ctx context.Context) (display.State, error)
	ApplyMonitorsConfig(ctx context.Context, req mutter.ApplyRequest) error
}

// Options configures a Manager.
type Options struct {
	// StrictApply fails applies that leave connectors unresolved.
	StrictApply bool
	Logger      *slog.Logger
}

// Manager runs preset operations against one presets file.
type Manager struct {
	path      string
	transport Transport
	strict    bool
	logger    *slog.Logger
}

// New returns a manager for the presets file at path.
func New(path string, transport Transport, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		path:      path,
		transport: transport,
		strict:    opts.StrictApply,
		logger:    logger,
	}
}

// Path returns the presets file location.
func (m *Manager) Path() string { return m.path }

// ApplyOptions selects how Apply submits a preset.
type ApplyOptions struct {
	Persistent bool
	Strict     bool
	DryRun     bool
}

func (o ApplyOptions) mode() mutter.PersistenceMode {
	if o.Persistent {
		return mutter.Persistent
	}
	return mutter.Transient
}

// Names lists preset names in insertion order.
func (m *Manager) Names() ([]string, error) {
	cfg, err := preset.Load(m.path)
	if err != nil {
		return nil, err
	}
	return cfg.Names(), nil
}

// Presets returns every stored preset.
func (m *Manager) Presets() ([]preset.Preset, error) {
	cfg, err := preset.Load(m.path)
	if err != nil {
		return nil, err
	}
	return cfg.Presets, nil
}

// Lookup returns the preset called name.
func (m *Manager) Lookup(name string) (preset.Preset, error) {
	cfg, err := preset.Load(m.path)
	if err != nil {
		return preset.Preset{}, err
	}
	p, ok := cfg.Lookup(name)
	if !ok {
		return preset.Preset{}, &preset.NotFoundError{Name: name}
	}
	return *p, nil
}

// Current queries the live display configuration.
func (m *Manager) Current(ctx context.Context) (display.State, error) {
	if m.transport == nil {
		return display.State{}, fmt.Errorf("no display configuration transport")
	}
	return m.transport.GetCurrentState(ctx)
}

// Save stores the live configuration under name.
func (m *Manager) Save(ctx context.Context, name string, force bool) (preset.Preset, error) {
	if err := preset.ValidateName(name); err != nil {
		return preset.Preset{}, err
	}
	cfg, err := preset.Load(m.path)
	if err != nil {
		return preset.Preset{}, err
	}
	// Fail on collisions before touching the bus.
	if _, exists := cfg.Lookup(name); exists && !force {
		return preset.Preset{}, &preset.NameCollisionError{Name: name}
	}

	state, err := m.Current(ctx)
	if err != nil {
		return preset.Preset{}, err
	}
	if err := cfg.Save(name, state, force); err != nil {
		return preset.Preset{}, err
	}
	if err := preset.Write(m.path, cfg); err != nil {
		return preset.Preset{}, err
	}
	m.logger.Info("preset saved", "name", name, "serial", state.Serial)

	p, _ := cfg.Lookup(name)
	return *p, nil
}

// Apply re-applies the preset called name. The stored state supplies the
// layout and mode selection; a fresh query supplies the serial. The encoded
// request is returned even when it is not submitted.
func (m *Manager) Apply(ctx context.Context, name string, opts ApplyOptions) (mutter.ApplyRequest, error) {
	p, err := m.Lookup(name)
	if err != nil {
		return mutter.ApplyRequest{}, err
	}

	current, err := m.Current(ctx)
	if err != nil {
		return mutter.ApplyRequest{}, err
	}

	req := mutter.EncodeApply(current.Serial, opts.mode(), p.DisplayConfig)
	for _, u := range req.Unresolved {
		m.logger.Warn("connector left out of apply request",
			"preset", name, "logical_monitor", u.LogicalMonitor, "connector", u.Connector, "reason", u.Reason)
	}
	if opts.Strict || m.strict {
		if err := req.Resolved(); err != nil {
			return req, err
		}
	}
	if opts.DryRun {
		return req, nil
	}

	if err := m.transport.ApplyMonitorsConfig(ctx, req); err != nil {
		return req, err
	}
	m.logger.Info("preset applied", "name", name, "serial", req.Serial, "mode", opts.mode().String())
	return req, nil
}

// Delete removes the preset called name.
func (m *Manager) Delete(name string) error {
	cfg, err := preset.Load(m.path)
	if err != nil {
		return err
	}
	if err := cfg.Delete(name); err != nil {
		return err
	}
	if err := preset.Write(m.path, cfg); err != nil {
		return err
	}
	m.logger.Info("preset deleted", "name", name)
	return nil
}

// Rename moves the preset called name to newName.
func (m *Manager) Rename(name, newName string, force bool) error {
	cfg, err := preset.Load(m.path)
	if err != nil {
		return err
	}
	if err := cfg.Rename(name, newName, force); err != nil {
		return err
	}
	if err := preset.Write(m.path, cfg); err != nil {
		return err
	}
	m.logger.Info("preset renamed", "from", name, "to", newName)
	return nil
}
