package picker

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// detectOrder prefers Wayland-native launchers.
var detectOrder = []string{"fuzzel", "wofi", "rofi", "dmenu"}

// Launcher picks a preset through a dmenu-style desktop launcher, for use
// when there is no terminal (for example from a keyboard shortcut).
type Launcher struct {
	command string
	kind    launcherKind
	run     func(name string, args []string, input string) (string, error)
}

// NewLauncher returns the launcher called name. "auto" picks the first one
// found in PATH.
func NewLauncher(name string) (*Launcher, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, candidate := range detectOrder {
			if _, err := exec.LookPath(candidate); err == nil {
				return newLauncher(candidate)
			}
		}
		return nil, fmt.Errorf("no launcher found in PATH (looked for: %s)", strings.Join(detectOrder, ", "))
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("launcher %q not found in PATH", name)
	}
	return newLauncher(name)
}

func newLauncher(name string) (*Launcher, error) {
	var kind launcherKind
	switch name {
	case "rofi":
		kind = kindRofi
	case "fuzzel":
		kind = kindFuzzel
	case "wofi":
		kind = kindWofi
	case "dmenu":
		kind = kindDmenu
	default:
		return nil, fmt.Errorf("unknown launcher: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}
	return &Launcher{command: name, kind: kind, run: runCommand}, nil
}

// Name returns the launcher executable.
func (l *Launcher) Name() string { return l.command }

// Pick shows items and returns the chosen name.
func (l *Launcher) Pick(title string, items []Item) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no presets saved yet")
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, sanitizeLabel(it.Name))
	}

	out, err := l.run(l.command, l.args(title), strings.Join(lines, "\n"))
	selection := strings.TrimSpace(out)
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return "", ErrCancelled
		}
		return "", err
	}
	if selection == "" {
		return "", ErrCancelled
	}
	return l.parseSelection(selection, items)
}

func (l *Launcher) args(prompt string) []string {
	switch l.kind {
	case kindRofi:
		// Index output survives names containing markup or separators.
		return []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom"}
	case kindFuzzel:
		return []string{"--dmenu", "--prompt", prompt + " ", "--index"}
	case kindWofi:
		return []string{"--dmenu", "--prompt", prompt}
	default:
		return []string{"-i", "-p", prompt}
	}
}

func (l *Launcher) parseSelection(selection string, items []Item) (string, error) {
	if l.kind == kindRofi || l.kind == kindFuzzel {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return "", fmt.Errorf("%s: index %d out of range", l.command, idx)
			}
			return items[idx].Name, nil
		}
	}
	for _, it := range items {
		if sanitizeLabel(it.Name) == selection {
			return it.Name, nil
		}
	}
	return "", fmt.Errorf("%s: unknown selection %q", l.command, selection)
}

func runCommand(name string, args []string, input string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if isCancelExit(err) {
			return string(out), err
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%s failed: %s", name, msg)
		}
		return string(out), fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), nil
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 1 means no selection, 130 is Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
