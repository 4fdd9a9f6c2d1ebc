package manager

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/mutter"
	"github.com/1broseidon/displaypresets/internal/preset"
)

type fakeTransport struct {
	state    display.State
	queryErr error
	applyErr error
	queries  int
	applied  []mutter.ApplyRequest
}

func (f *fakeTransport) GetCurrentState(ctx context.Context) (display.State, error) {
	f.queries++
	if f.queryErr != nil {
		return display.State{}, f.queryErr
	}
	return f.state, nil
}

func (f *fakeTransport) ApplyMonitorsConfig(ctx context.Context, req mutter.ApplyRequest) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, req)
	return nil
}

func liveState(serial uint32) display.State {
	dp1 := display.MonitorInfo{Connector: "DP-1", Vendor: "DEL", Product: "P2419H", Serial: "X1"}
	return display.State{
		Serial: serial,
		Monitors: []display.Monitor{{
			Info: dp1,
			Modes: []display.Mode{
				{ID: "0", Width: 1280, Height: 720, RefreshRate: 60},
				{ID: "1", Width: 1920, Height: 1080, RefreshRate: 60, Properties: display.Properties{display.PropCurrent: "1"}},
			},
		}},
		LogicalMonitors: []display.LogicalMonitor{{
			X: 0, Y: 0, Scale: 1, Primary: true,
			Monitors: []display.MonitorInfo{dp1},
		}},
	}
}

func newTestManager(t *testing.T, ft *fakeTransport, opts Options) *Manager {
	t.Helper()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(filepath.Join(t.TempDir(), "display-presets.json"), ft, opts)
}

func TestSaveThenApply(t *testing.T) {
	ft := &fakeTransport{state: liveState(2)}
	m := newTestManager(t, ft, Options{})
	ctx := context.Background()

	saved, err := m.Save(ctx, "desk", false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Name != "desk" || saved.DisplayConfig.Serial != 2 {
		t.Fatalf("saved = %+v", saved)
	}

	ft.state.Serial = 9
	req, err := m.Apply(ctx, "desk", ApplyOptions{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(ft.applied) != 1 {
		t.Fatalf("expected one apply call, got %d", len(ft.applied))
	}
	if req.Serial != 9 {
		t.Fatalf("expected fresh serial 9, got %d", req.Serial)
	}
	if req.Method != mutter.MethodTemporary {
		t.Fatalf("expected temporary method, got %d", req.Method)
	}
	got := req.LogicalMonitors[0].Monitors
	if len(got) != 1 || got[0].Connector != "DP-1" || got[0].ModeID != "1" {
		t.Fatalf("monitors = %+v", got)
	}
}

func TestApply_Persistent(t *testing.T) {
	ft := &fakeTransport{state: liveState(1)}
	m := newTestManager(t, ft, Options{})
	ctx := context.Background()
	if _, err := m.Save(ctx, "desk", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	req, err := m.Apply(ctx, "desk", ApplyOptions{Persistent: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if req.Method != mutter.MethodPersistent {
		t.Fatalf("expected persistent method, got %d", req.Method)
	}
}

func TestSave_CollisionSkipsQuery(t *testing.T) {
	ft := &fakeTransport{state: liveState(1)}
	m := newTestManager(t, ft, Options{})
	ctx := context.Background()
	if _, err := m.Save(ctx, "desk", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	queries := ft.queries
	_, err := m.Save(ctx, "desk", false)
	var collision *preset.NameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected NameCollisionError, got %v", err)
	}
	if ft.queries != queries {
		t.Fatalf("expected no bus query on collision")
	}

	ft.state = liveState(7)
	saved, err := m.Save(ctx, "desk", true)
	if err != nil {
		t.Fatalf("forced Save: %v", err)
	}
	if saved.DisplayConfig.Serial != 7 {
		t.Fatalf("expected replaced snapshot, got serial %d", saved.DisplayConfig.Serial)
	}
}

func TestSave_RejectsBlankName(t *testing.T) {
	m := newTestManager(t, &fakeTransport{}, Options{})
	if _, err := m.Save(context.Background(), "  ", false); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestSave_TransportErrorLeavesFileUntouched(t *testing.T) {
	ft := &fakeTransport{queryErr: &mutter.TransportError{Method: "GetCurrentState", Err: errors.New("no bus")}}
	m := newTestManager(t, ft, Options{})

	_, err := m.Save(context.Background(), "desk", false)
	var terr *mutter.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	names, err := m.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no presets, got %v", names)
	}
}

func TestApply_NotFound(t *testing.T) {
	ft := &fakeTransport{state: liveState(1)}
	m := newTestManager(t, ft, Options{})

	_, err := m.Apply(context.Background(), "missing", ApplyOptions{})
	var nf *preset.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if ft.queries != 0 {
		t.Fatalf("expected no bus query for missing preset")
	}
}

func unresolvedManager(t *testing.T, opts Options) (*Manager, *fakeTransport) {
	t.Helper()
	state := liveState(1)
	state.Monitors[0].Modes[1].Properties = nil
	ft := &fakeTransport{state: state}
	m := newTestManager(t, ft, opts)
	if _, err := m.Save(context.Background(), "desk", false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return m, ft
}

func TestApply_UnresolvedOmittedByDefault(t *testing.T) {
	m, ft := unresolvedManager(t, Options{})

	req, err := m.Apply(context.Background(), "desk", ApplyOptions{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(ft.applied) != 1 {
		t.Fatalf("expected apply to be submitted")
	}
	if len(req.LogicalMonitors[0].Monitors) != 0 {
		t.Fatalf("expected connector to be omitted, got %+v", req.LogicalMonitors[0].Monitors)
	}
	if len(req.Unresolved) != 1 || req.Unresolved[0].Connector != "DP-1" {
		t.Fatalf("unresolved = %+v", req.Unresolved)
	}
}

func TestApply_StrictFailsOnUnresolved(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ao   ApplyOptions
	}{
		{name: "flag", ao: ApplyOptions{Strict: true}},
		{name: "setting", opts: Options{StrictApply: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ft := unresolvedManager(t, tt.opts)
			_, err := m.Apply(context.Background(), "desk", tt.ao)
			var uerr *mutter.UnresolvedConnectorError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected UnresolvedConnectorError, got %v", err)
			}
			if len(ft.applied) != 0 {
				t.Fatalf("expected nothing to be submitted")
			}
		})
	}
}

func TestApply_DryRunDoesNotSubmit(t *testing.T) {
	ft := &fakeTransport{state: liveState(4)}
	m := newTestManager(t, ft, Options{})
	ctx := context.Background()
	if _, err := m.Save(ctx, "desk", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	req, err := m.Apply(ctx, "desk", ApplyOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(ft.applied) != 0 {
		t.Fatalf("dry run submitted a request")
	}
	if req.Serial != 4 {
		t.Fatalf("serial = %d", req.Serial)
	}
}

func TestApply_TransportErrorSurfaces(t *testing.T) {
	ft := &fakeTransport{state: liveState(1)}
	m := newTestManager(t, ft, Options{})
	ctx := context.Background()
	if _, err := m.Save(ctx, "desk", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ft.applyErr = &mutter.TransportError{Method: "ApplyMonitorsConfig", Err: errors.New("stale serial")}
	if _, err := m.Apply(ctx, "desk", ApplyOptions{}); err == nil {
		t.Fatalf("expected apply error")
	}
}

func TestDeleteAndRename(t *testing.T) {
	ft := &fakeTransport{state: liveState(1)}
	m := newTestManager(t, ft, Options{})
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := m.Save(ctx, name, false); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	if err := m.Delete("b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var nf *preset.NotFoundError
	if err := m.Delete("b"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var collision *preset.NameCollisionError
	if err := m.Rename("a", "c", false); !errors.As(err, &collision) {
		t.Fatalf("expected NameCollisionError, got %v", err)
	}
	if err := m.Rename("a", "c", true); err != nil {
		t.Fatalf("forced Rename: %v", err)
	}
	if err := m.Rename("c", "c", false); !errors.Is(err, preset.ErrSameName) {
		t.Fatalf("expected ErrSameName, got %v", err)
	}

	names, err := m.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"c"}) {
		t.Fatalf("names = %v", names)
	}
}
