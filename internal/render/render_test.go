package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/preset"
)

func testPreset() preset.Preset {
	dp1 := display.MonitorInfo{Connector: "DP-1", Vendor: "DEL", Product: "P2419H", Serial: "X1"}
	return preset.Preset{
		Name: "desk",
		DisplayConfig: display.State{
			Serial: 3,
			Monitors: []display.Monitor{{
				Info: dp1,
				Modes: []display.Mode{
					{ID: "0", Width: 1280, Height: 720, RefreshRate: 60},
					{ID: "1", Width: 1920, Height: 1080, RefreshRate: 59.94, Properties: display.Properties{display.PropCurrent: "1"}},
				},
			}},
			LogicalMonitors: []display.LogicalMonitor{{
				X: 0, Y: 0, Scale: 1.25, Primary: true, Transform: display.Transform90,
				Monitors: []display.MonitorInfo{dp1, {Connector: "HDMI-1"}},
			}},
		},
	}
}

func TestPreset_PlainText(t *testing.T) {
	var buf bytes.Buffer
	if err := Preset(&buf, testPreset(), Options{}); err != nil {
		t.Fatalf("Preset: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Preset: 'desk'",
		"Physical displays:",
		"DP-1:",
		"Vendor: DEL",
		"Model: P2419H",
		"Supported modes: 1280x720@60 1920x1080@59.94",
		"Logical displays:",
		"Connectors: DP-1, HDMI-1",
		"Scale: 1.25",
		"Primary: true",
		"Transform: 90",
		"  DP-1: 1920x1080@59.94",
		"  HDMI-1: unknown",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain output contains escape sequences:\n%q", out)
	}
}

func TestNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Names(&buf, []string{"b", "a"}); err != nil {
		t.Fatalf("Names: %v", err)
	}
	if buf.String() != "b\na\n" {
		t.Fatalf("Names() = %q", buf.String())
	}
}

func TestJSON_UsesPersistedFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, testPreset()); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["name"] != "desk" {
		t.Fatalf("name = %v", doc["name"])
	}
	if _, ok := doc["display_config"].(map[string]any)["logical_monitors"]; !ok {
		t.Fatalf("missing logical_monitors in %s", buf.String())
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := YAML(&buf, testPreset()); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var got preset.Preset
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got.Name != "desk" || got.DisplayConfig.Serial != 3 {
		t.Fatalf("YAML round trip = %+v", got)
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("buffer reported as terminal")
	}
}
