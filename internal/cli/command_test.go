package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/1broseidon/displaypresets/internal/config"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Command
	}{
		{
			name: "no args is help",
			args: nil,
			want: Command{Kind: KindHelp},
		},
		{
			name: "save with trailing force",
			args: []string{"save", "home", "--force"},
			want: Command{Kind: KindSave, Name: "home", Force: true},
		},
		{
			name: "save with leading force",
			args: []string{"save", "--force", "home"},
			want: Command{Kind: KindSave, Name: "home", Force: true},
		},
		{
			name: "global flags before command",
			args: []string{"-c", "/tmp/p.json", "--verbose", "-t", "3", "list"},
			want: Command{Kind: KindList, Global: Global{ConfigPath: "/tmp/p.json", Verbose: true, Timeout: 3}},
		},
		{
			name: "global flags after command",
			args: []string{"list", "--config", "/tmp/p.json", "--settings", "/tmp/s.yaml"},
			want: Command{Kind: KindList, Global: Global{ConfigPath: "/tmp/p.json", SettingsPath: "/tmp/s.yaml"}},
		},
		{
			name: "apply with options",
			args: []string{"apply", "desk", "--persistent", "--strict", "--dry-run", "--format", "json"},
			want: Command{Kind: KindApply, Name: "desk", Persistent: true, Strict: true, DryRun: true, Format: config.OutputJSON},
		},
		{
			name: "apply without name",
			args: []string{"apply"},
			want: Command{Kind: KindApply},
		},
		{
			name: "rename",
			args: []string{"rename", "a", "b", "--force"},
			want: Command{Kind: KindRename, Name: "a", NewName: "b", Force: true},
		},
		{
			name: "show yaml",
			args: []string{"show", "--format=yaml", "desk"},
			want: Command{Kind: KindShow, Name: "desk", Format: config.OutputYAML},
		},
		{
			name: "name after double dash",
			args: []string{"delete", "--", "--odd"},
			want: Command{Kind: KindDelete, Name: "--odd"},
		},
		{
			name: "mcp serve",
			args: []string{"mcp", "serve"},
			want: Command{Kind: KindMCP},
		},
		{
			name: "help topic",
			args: []string{"help", "apply"},
			want: Command{Kind: KindHelp, Topic: "apply"},
		},
		{
			name: "doctor",
			args: []string{"doctor"},
			want: Command{Kind: KindDoctor},
		},
		{
			name: "current",
			args: []string{"current", "--format", "text"},
			want: Command{Kind: KindCurrent, Format: config.OutputText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("Parse(%v): %v", tt.args, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"save without name", []string{"save"}},
		{"save with two names", []string{"save", "a", "b"}},
		{"rename with one name", []string{"rename", "a"}},
		{"list with argument", []string{"list", "x"}},
		{"unknown flag", []string{"list", "--bogus"}},
		{"bad format", []string{"show", "desk", "--format", "xml"}},
		{"mcp without serve", []string{"mcp"}},
		{"mcp other", []string{"mcp", "start"}},
		{"blank name", []string{"delete", "  "}},
		{"force on apply", []string{"apply", "desk", "--force"}},
		{"bad timeout", []string{"-t", "soon", "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, &bytes.Buffer{})
			var uerr *UsageError
			if !errors.As(err, &uerr) {
				t.Fatalf("Parse(%v) = %v, want UsageError", tt.args, err)
			}
		})
	}
}

func TestParse_HelpFlag(t *testing.T) {
	var out bytes.Buffer
	_, err := Parse([]string{"save", "--help"}, &out)
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("display-presets save <name>")) {
		t.Fatalf("usage not printed: %q", out.String())
	}
}

func TestKindString(t *testing.T) {
	for name, kind := range kindsByName {
		if kind.String() != name {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), name)
		}
	}
	if KindHelp.String() != "help" {
		t.Errorf("KindHelp.String() = %q", KindHelp.String())
	}
}
