package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sized(t *testing.T, m model) model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return next.(model)
}

func TestModel_EnterChoosesSelected(t *testing.T) {
	m := sized(t, newModel("Presets", []Item{{Name: "desk"}, {Name: "laptop"}}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)

	if m.chosen != "laptop" {
		t.Fatalf("chosen = %q, want laptop", m.chosen)
	}
	if !m.done || cmd == nil {
		t.Fatalf("expected picker to quit after enter")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after selection")
	}
}

func TestModel_EscCancels(t *testing.T) {
	m := sized(t, newModel("Presets", []Item{{Name: "desk"}}))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	if m.chosen != "" {
		t.Fatalf("expected no selection, got %q", m.chosen)
	}
	if !m.done || cmd == nil {
		t.Fatalf("expected picker to quit on esc")
	}
}

func TestPick_NoItems(t *testing.T) {
	if _, err := pick("Presets", nil, nil, nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
