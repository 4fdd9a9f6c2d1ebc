// Package cli parses display-presets command lines and runs them.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/1broseidon/displaypresets/internal/config"
)

// Kind identifies a subcommand.
type Kind int

const (
	KindHelp Kind = iota
	KindSave
	KindApply
	KindList
	KindDelete
	KindRename
	KindShow
	KindCurrent
	KindDoctor
	KindMCP
)

func (k Kind) String() string {
	switch k {
	case KindSave:
		return "save"
	case KindApply:
		return "apply"
	case KindList:
		return "list"
	case KindDelete:
		return "delete"
	case KindRename:
		return "rename"
	case KindShow:
		return "show"
	case KindCurrent:
		return "current"
	case KindDoctor:
		return "doctor"
	case KindMCP:
		return "mcp"
	default:
		return "help"
	}
}

var kindsByName = map[string]Kind{
	"save":    KindSave,
	"apply":   KindApply,
	"list":    KindList,
	"delete":  KindDelete,
	"rename":  KindRename,
	"show":    KindShow,
	"current": KindCurrent,
	"doctor":  KindDoctor,
	"mcp":     KindMCP,
}

// Global holds flags accepted by every subcommand.
type Global struct {
	ConfigPath   string
	SettingsPath string
	Verbose      bool
	// Timeout is in seconds; zero leaves the settings value in place.
	Timeout int
}

// Command is one parsed invocation.
type Command struct {
	Kind   Kind
	Global Global

	Name    string
	NewName string

	Force      bool
	Persistent bool
	Strict     bool
	DryRun     bool

	// Format is empty when the settings decide.
	Format config.OutputFormat

	// Topic is the subcommand a help request is about.
	Topic string
}

// UsageError reports a malformed command line.
type UsageError struct {
	Command string
	Msg     string
}

func (e *UsageError) Error() string {
	if e.Command == "" {
		return e.Msg
	}
	return e.Command + ": " + e.Msg
}

// ErrHelp is returned by Parse when -h or --help was requested and usage
// has already been printed.
var ErrHelp = flag.ErrHelp

func addGlobalFlags(fs *flag.FlagSet, g *Global) {
	fs.StringVar(&g.ConfigPath, "config", g.ConfigPath, "Presets file path (default: $XDG_CONFIG_HOME/display-presets.json)")
	fs.StringVar(&g.ConfigPath, "c", g.ConfigPath, "Shorthand for --config")
	fs.StringVar(&g.SettingsPath, "settings", g.SettingsPath, "Settings file path (default: $XDG_CONFIG_HOME/display-presets.yaml)")
	fs.BoolVar(&g.Verbose, "verbose", g.Verbose, "Enable debug logging")
	fs.BoolVar(&g.Verbose, "v", g.Verbose, "Shorthand for --verbose")
	fs.IntVar(&g.Timeout, "timeout", g.Timeout, "D-Bus call timeout in seconds (default 10)")
	fs.IntVar(&g.Timeout, "t", g.Timeout, "Shorthand for --timeout")
}

type formatFlag struct {
	target *config.OutputFormat
}

func (f formatFlag) String() string {
	if f.target == nil {
		return ""
	}
	return string(*f.target)
}

func (f formatFlag) Set(s string) error {
	format, err := config.ParseOutputFormat(s)
	if err != nil {
		return err
	}
	*f.target = format
	return nil
}

// Parse turns command-line arguments (without the program name) into a
// Command. Usage text for -h goes to out.
func Parse(args []string, out io.Writer) (Command, error) {
	var cmd Command

	top := flag.NewFlagSet("display-presets", flag.ContinueOnError)
	top.SetOutput(out)
	top.Usage = func() { printMainUsage(out) }
	addGlobalFlags(top, &cmd.Global)
	if err := top.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cmd, ErrHelp
		}
		return cmd, &UsageError{Msg: err.Error()}
	}
	rest := top.Args()
	if len(rest) == 0 {
		cmd.Kind = KindHelp
		return cmd, nil
	}

	name := rest[0]
	if name == "help" {
		cmd.Kind = KindHelp
		if len(rest) > 1 {
			cmd.Topic = rest[1]
		}
		return cmd, nil
	}
	kind, ok := kindsByName[name]
	if !ok {
		return cmd, &UsageError{Msg: fmt.Sprintf("unknown command: %s", name)}
	}
	cmd.Kind = kind

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { printCommandUsage(out, kind) }
	addGlobalFlags(fs, &cmd.Global)

	switch kind {
	case KindSave:
		fs.BoolVar(&cmd.Force, "force", false, "Overwrite an existing preset with the same name")
	case KindApply:
		fs.BoolVar(&cmd.Persistent, "persistent", false, "Store the configuration instead of applying it temporarily")
		fs.BoolVar(&cmd.Strict, "strict", false, "Fail when a connector cannot be mapped to a current mode")
		fs.BoolVar(&cmd.DryRun, "dry-run", false, "Print the request instead of applying it")
		fs.Var(formatFlag{&cmd.Format}, "format", "Dry-run output format: text, json or yaml")
	case KindRename:
		fs.BoolVar(&cmd.Force, "force", false, "Replace a preset already holding the new name")
	case KindList, KindShow, KindCurrent, KindDoctor:
		fs.Var(formatFlag{&cmd.Format}, "format", "Output format: text, json or yaml")
	}

	positional, err := parseInterspersed(fs, rest[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cmd, ErrHelp
		}
		return cmd, &UsageError{Command: name, Msg: err.Error()}
	}

	if err := cmd.bindPositional(positional); err != nil {
		return cmd, err
	}
	return cmd, nil
}

func (c *Command) bindPositional(args []string) error {
	name := c.Kind.String()
	want := func(min, max int, usage string) error {
		if len(args) < min || len(args) > max {
			return &UsageError{Command: name, Msg: "usage: display-presets " + name + " " + usage}
		}
		return nil
	}

	switch c.Kind {
	case KindSave, KindDelete:
		if err := want(1, 1, "<name>"); err != nil {
			return err
		}
		c.Name = args[0]
	case KindRename:
		if err := want(2, 2, "<name> <new_name>"); err != nil {
			return err
		}
		c.Name, c.NewName = args[0], args[1]
	case KindApply, KindShow:
		if err := want(0, 1, "[<name>]"); err != nil {
			return err
		}
		if len(args) == 1 {
			c.Name = args[0]
		}
	case KindMCP:
		if len(args) != 1 || args[0] != "serve" {
			return &UsageError{Command: name, Msg: "usage: display-presets mcp serve"}
		}
	default:
		if len(args) > 0 {
			return &UsageError{Command: name, Msg: "takes no arguments"}
		}
	}

	if c.Name != "" && strings.TrimSpace(c.Name) == "" {
		return &UsageError{Command: name, Msg: "preset name is empty"}
	}
	return nil
}

// parseInterspersed lets flags follow positional arguments, so
// "save home --force" works like "save --force home".
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: display-presets [global options] <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  save <name>               Save the current display configuration")
	fmt.Fprintln(w, "  apply [<name>]            Apply a saved preset")
	fmt.Fprintln(w, "  list                      List saved presets")
	fmt.Fprintln(w, "  delete <name>             Delete a preset")
	fmt.Fprintln(w, "  rename <name> <new_name>  Rename a preset")
	fmt.Fprintln(w, "  show [<name>]             Show a preset")
	fmt.Fprintln(w, "  current                   Show the current display configuration")
	fmt.Fprintln(w, "  doctor                    Check the session bus, X11 and files")
	fmt.Fprintln(w, "  mcp serve                 Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Global options:")
	fmt.Fprintln(w, "  -c, --config PATH         Presets file (default: $XDG_CONFIG_HOME/display-presets.json)")
	fmt.Fprintln(w, "      --settings PATH       Settings file (default: $XDG_CONFIG_HOME/display-presets.yaml)")
	fmt.Fprintln(w, "  -v, --verbose             Enable debug logging")
	fmt.Fprintln(w, "  -t, --timeout SECONDS     D-Bus call timeout (default: 10)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'display-presets help <command>' for command-specific options.")
}

func printCommandUsage(w io.Writer, kind Kind) {
	switch kind {
	case KindSave:
		fmt.Fprintln(w, "Usage: display-presets save <name> [--force]")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Save the current display configuration under <name>.")
	case KindApply:
		fmt.Fprintln(w, "Usage: display-presets apply [<name>] [--persistent] [--strict] [--dry-run] [--format text|json|yaml]")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Apply a preset. Without --persistent the compositor reverts the change")
		fmt.Fprintln(w, "unless it is confirmed. Without <name>, pick from a list on a terminal")
		fmt.Fprintln(w, "or through the configured launcher (settings key: launcher).")
	case KindList:
		fmt.Fprintln(w, "Usage: display-presets list [--format text|json|yaml]")
	case KindDelete:
		fmt.Fprintln(w, "Usage: display-presets delete <name>")
	case KindRename:
		fmt.Fprintln(w, "Usage: display-presets rename <name> <new_name> [--force]")
	case KindShow:
		fmt.Fprintln(w, "Usage: display-presets show [<name>] [--format text|json|yaml]")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Without <name> on a terminal, pick from a list.")
	case KindCurrent:
		fmt.Fprintln(w, "Usage: display-presets current [--format text|json|yaml]")
	case KindDoctor:
		fmt.Fprintln(w, "Usage: display-presets doctor [--format text|json|yaml]")
	case KindMCP:
		fmt.Fprintln(w, "Usage: display-presets mcp serve")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Start the MCP server on stdio for MCP clients.")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Example (Claude Code):")
		fmt.Fprintln(w, "  claude mcp add display-presets -- display-presets mcp serve")
	default:
		printMainUsage(w)
	}
}
