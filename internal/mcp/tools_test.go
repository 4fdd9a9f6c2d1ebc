package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/manager"
	"github.com/1broseidon/displaypresets/internal/mutter"
	"github.com/1broseidon/displaypresets/internal/preset"
)

type fakeTransport struct {
	state   display.State
	applied []mutter.ApplyRequest
}

func (f *fakeTransport) GetCurrentState(ctx context.Context) (display.State, error) {
	return f.state, nil
}

func (f *fakeTransport) ApplyMonitorsConfig(ctx context.Context, req mutter.ApplyRequest) error {
	f.applied = append(f.applied, req)
	return nil
}

func testState(serial uint32) display.State {
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

func newTestServer(t *testing.T) (*Server, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{state: testState(5)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := manager.New(filepath.Join(t.TempDir(), "display-presets.json"), ft, manager.Options{Logger: logger})
	return &Server{presets: m, logger: logger}, ft
}

func TestNewServer(t *testing.T) {
	m := manager.New(filepath.Join(t.TempDir(), "display-presets.json"), &fakeTransport{}, manager.Options{})
	if s := NewServer(m, "test", nil); s == nil || s.mcpServer == nil {
		t.Fatalf("NewServer returned %+v", s)
	}
}

func TestHandleListPresets_Empty(t *testing.T) {
	s, _ := newTestServer(t)
	_, out, err := s.handleListPresets(context.Background(), nil, ListPresetsInput{})
	if err != nil {
		t.Fatalf("list_presets: %v", err)
	}
	if out.Presets == nil || len(out.Presets) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", out.Presets)
	}
}

func TestHandleSaveShowApply(t *testing.T) {
	s, ft := newTestServer(t)
	ctx := context.Background()

	_, saved, err := s.handleSavePreset(ctx, nil, SavePresetInput{Name: "desk"})
	if err != nil {
		t.Fatalf("save_preset: %v", err)
	}
	if saved.Name != "desk" || saved.Serial != 5 || saved.Monitors != 1 || saved.Replaced {
		t.Fatalf("save_preset = %+v", saved)
	}

	_, _, err = s.handleSavePreset(ctx, nil, SavePresetInput{Name: "desk"})
	var collision *preset.NameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected NameCollisionError, got %v", err)
	}

	_, saved, err = s.handleSavePreset(ctx, nil, SavePresetInput{Name: "desk", Force: true})
	if err != nil {
		t.Fatalf("forced save_preset: %v", err)
	}
	if !saved.Replaced {
		t.Fatalf("expected replaced = true")
	}

	_, shown, err := s.handleShowPreset(ctx, nil, ShowPresetInput{Name: "desk"})
	if err != nil {
		t.Fatalf("show_preset: %v", err)
	}
	if shown.Name != "desk" || len(shown.DisplayConfig.Monitors) != 1 {
		t.Fatalf("show_preset = %+v", shown)
	}

	ft.state.Serial = 8
	_, applied, err := s.handleApplyPreset(ctx, nil, ApplyPresetInput{Name: "desk", Persistent: true})
	if err != nil {
		t.Fatalf("apply_preset: %v", err)
	}
	want := []AppliedLogicalMonitor{{
		X: 0, Y: 0, Scale: 1, Transform: 0, Primary: true,
		Monitors: []AppliedMonitor{{Connector: "DP-1", ModeID: "1"}},
	}}
	if !applied.Applied || applied.Mode != "persistent" || applied.Serial != 8 {
		t.Fatalf("apply_preset = %+v", applied)
	}
	if !reflect.DeepEqual(applied.LogicalMonitors, want) {
		t.Fatalf("logical monitors = %+v, want %+v", applied.LogicalMonitors, want)
	}
	if len(ft.applied) != 1 || ft.applied[0].Method != mutter.MethodPersistent {
		t.Fatalf("transport saw %+v", ft.applied)
	}
}

func TestHandleApplyPreset_DryRun(t *testing.T) {
	s, ft := newTestServer(t)
	ctx := context.Background()
	if _, _, err := s.handleSavePreset(ctx, nil, SavePresetInput{Name: "desk"}); err != nil {
		t.Fatalf("save_preset: %v", err)
	}

	_, out, err := s.handleApplyPreset(ctx, nil, ApplyPresetInput{Name: "desk", DryRun: true})
	if err != nil {
		t.Fatalf("apply_preset: %v", err)
	}
	if out.Applied || out.Mode != "transient" {
		t.Fatalf("apply_preset = %+v", out)
	}
	if len(ft.applied) != 0 {
		t.Fatalf("dry run reached the transport")
	}
}

func TestHandleRenameAndDelete(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		if _, _, err := s.handleSavePreset(ctx, nil, SavePresetInput{Name: name}); err != nil {
			t.Fatalf("save_preset(%s): %v", name, err)
		}
	}

	if _, _, err := s.handleRenamePreset(ctx, nil, RenamePresetInput{Name: "a", NewName: "b"}); err == nil {
		t.Fatalf("expected collision without force")
	}
	res, out, err := s.handleRenamePreset(ctx, nil, RenamePresetInput{Name: "a", NewName: "b", Force: true})
	if err != nil {
		t.Fatalf("rename_preset: %v", err)
	}
	if out.From != "a" || out.To != "b" || res == nil {
		t.Fatalf("rename_preset = %+v", out)
	}

	if _, _, err := s.handleDeletePreset(ctx, nil, DeletePresetInput{Name: "b"}); err != nil {
		t.Fatalf("delete_preset: %v", err)
	}
	var nf *preset.NotFoundError
	if _, _, err := s.handleDeletePreset(ctx, nil, DeletePresetInput{Name: "b"}); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	_, list, err := s.handleListPresets(ctx, nil, ListPresetsInput{})
	if err != nil {
		t.Fatalf("list_presets: %v", err)
	}
	if len(list.Presets) != 0 {
		t.Fatalf("expected no presets, got %v", list.Presets)
	}
}
