package x11

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/xgb/randr"
)

// Output is a RandR output as seen by the X server.
type Output struct {
	Name      string
	Connected bool
	Active    bool
	X         int
	Y         int
	Width     int
	Height    int
}

// XWayland reports whether the output is a virtual XWayland output rather
// than a real connector.
func (o Output) XWayland() bool {
	return strings.HasPrefix(o.Name, "XWAYLAND")
}

// Outputs lists every RandR output of the root window's screen.
func (c *Connection) Outputs() ([]Output, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	outputs := make([]Output, 0, len(resources.Outputs))
	for _, id := range resources.Outputs {
		info, err := randr.GetOutputInfo(c.XUtil.Conn(), id, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		out := Output{
			Name:      string(info.Name),
			Connected: info.Connection == randr.ConnectionConnected,
		}
		if info.Crtc != 0 {
			crtc, err := randr.GetCrtcInfo(c.XUtil.Conn(), info.Crtc, resources.ConfigTimestamp).Reply()
			if err == nil && crtc.Width > 0 && crtc.Height > 0 {
				out.Active = true
				out.X = int(crtc.X)
				out.Y = int(crtc.Y)
				out.Width = int(crtc.Width)
				out.Height = int(crtc.Height)
			}
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// CompareConnectors matches Mutter connector names against RandR outputs.
// XWayland outputs never match a connector and are ignored. The returned
// slices are sorted.
func CompareConnectors(connectors []string, outputs []Output) (missing, extra []string) {
	seen := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		if o.XWayland() || !o.Connected {
			continue
		}
		seen[o.Name] = false
	}
	for _, c := range connectors {
		if _, ok := seen[c]; ok {
			seen[c] = true
			continue
		}
		missing = append(missing, c)
	}
	for name, matched := range seen {
		if !matched {
			extra = append(extra, name)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

// AllXWayland reports whether every output is an XWayland output, which is
// the normal picture under a Wayland session.
func AllXWayland(outputs []Output) bool {
	if len(outputs) == 0 {
		return false
	}
	for _, o := range outputs {
		if !o.XWayland() {
			return false
		}
	}
	return true
}
