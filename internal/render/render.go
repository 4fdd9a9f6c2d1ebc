// Package render prints presets and display states for people and scripts.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/preset"
)

// Options controls text output.
type Options struct {
	// Color enables lipgloss styling. Use IsTerminal to decide.
	Color bool
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	name    lipgloss.Style
	label   lipgloss.Style
	current lipgloss.Style
	dim     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		name:    lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		current: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Preset writes a human-readable description of p.
func Preset(w io.Writer, p preset.Preset, opts Options) error {
	return State(w, fmt.Sprintf("Preset: '%s'", p.Name), p.DisplayConfig, opts)
}

// State writes the physical and logical displays of state under title.
func State(w io.Writer, title string, state display.State, opts Options) error {
	st := newStyles(opts.Color)
	var b strings.Builder

	b.WriteString(st.title.Render(title) + "\n\n")

	b.WriteString(st.section.Render("Physical displays:") + "\n\n")
	for _, m := range state.Monitors {
		b.WriteString(st.name.Render(m.Info.Connector+":") + "\n")
		b.WriteString(st.label.Render("Vendor:") + " " + m.Info.Vendor + "\n")
		b.WriteString(st.label.Render("Model:") + " " + m.Info.Product + "\n")
		b.WriteString(st.label.Render("Supported modes:"))
		for _, mode := range m.Modes {
			s := mode.String()
			if mode.IsCurrent() {
				s = st.current.Render(s)
			}
			b.WriteString(" " + s)
		}
		b.WriteString("\n\n")
	}

	current := state.CurrentModes()
	b.WriteString(st.section.Render("Logical displays:") + "\n\n")
	for _, lm := range state.LogicalMonitors {
		connectors := lm.Connectors()
		b.WriteString(st.label.Render("Connectors:") + " " + strings.Join(connectors, ", ") + "\n")
		b.WriteString(st.label.Render("X:") + " " + strconv.Itoa(int(lm.X)) + "\n")
		b.WriteString(st.label.Render("Y:") + " " + strconv.Itoa(int(lm.Y)) + "\n")
		b.WriteString(st.label.Render("Scale:") + " " + strconv.FormatFloat(lm.Scale, 'f', -1, 64) + "\n")
		b.WriteString(st.label.Render("Primary:") + " " + strconv.FormatBool(lm.Primary) + "\n")
		b.WriteString(st.label.Render("Transform:") + " " + lm.Transform.String() + "\n")
		b.WriteString(st.label.Render("Mode:") + "\n")
		for _, c := range connectors {
			mode, ok := current[c]
			if !ok {
				b.WriteString("  " + c + ": " + st.dim.Render("unknown") + "\n")
				continue
			}
			b.WriteString("  " + c + ": " + mode.String() + "\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Names writes one preset name per line.
func Names(w io.Writer, names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
