package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/displaypresets/internal/config"
	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/doctor"
	"github.com/1broseidon/displaypresets/internal/manager"
	"github.com/1broseidon/displaypresets/internal/mcp"
	"github.com/1broseidon/displaypresets/internal/mutter"
	"github.com/1broseidon/displaypresets/internal/picker"
	"github.com/1broseidon/displaypresets/internal/render"
	"github.com/1broseidon/displaypresets/internal/x11"
)

// App carries everything a command needs. Fields left nil fall back to
// non-interactive behavior.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Settings     *config.Settings
	SettingsFile string
	SettingsErr  error

	Presets   *manager.Manager
	Transport manager.Transport

	// Interactive reports whether a picker may be shown.
	Interactive func() bool
	Pick        func(title string, items []picker.Item) (string, error)
	// Launch picks through a desktop launcher when there is no terminal.
	Launch func(title string, items []picker.Item) (string, error)
	// Outputs lists X11 outputs for doctor.
	Outputs doctor.OutputLister

	Version string
}

// Run executes cmd.
func (a *App) Run(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case KindSave:
		return a.runSave(ctx, cmd)
	case KindApply:
		return a.runApply(ctx, cmd)
	case KindList:
		return a.runList(cmd)
	case KindDelete:
		return a.runDelete(cmd)
	case KindRename:
		return a.runRename(cmd)
	case KindShow:
		return a.runShow(cmd)
	case KindCurrent:
		return a.runCurrent(ctx, cmd)
	case KindDoctor:
		return a.runDoctor(ctx, cmd)
	case KindMCP:
		return mcp.NewServer(a.Presets, a.Version, a.Logger).Run(ctx)
	default:
		if cmd.Topic != "" {
			kind, ok := kindsByName[cmd.Topic]
			if !ok {
				return &UsageError{Command: "help", Msg: fmt.Sprintf("unknown command: %s", cmd.Topic)}
			}
			printCommandUsage(a.Stdout, kind)
			return nil
		}
		printMainUsage(a.Stdout)
		return nil
	}
}

func (a *App) format(cmd Command) config.OutputFormat {
	if cmd.Format != "" {
		return cmd.Format
	}
	if a.Settings != nil && a.Settings.Output != "" {
		return a.Settings.Output
	}
	return config.OutputText
}

func (a *App) textOptions() render.Options {
	return render.Options{Color: render.IsTerminal(a.Stdout)}
}

func (a *App) emit(cmd Command, v any, text func(io.Writer) error) error {
	switch a.format(cmd) {
	case config.OutputJSON:
		return render.JSON(a.Stdout, v)
	case config.OutputYAML:
		return render.YAML(a.Stdout, v)
	default:
		return text(a.Stdout)
	}
}

// resolveName returns cmd.Name or asks the user to pick one, in the
// terminal when interactive and through the launcher otherwise.
func (a *App) resolveName(cmd Command, title string) (string, error) {
	if cmd.Name != "" {
		return cmd.Name, nil
	}
	pick := a.Launch
	if a.Interactive != nil && a.Pick != nil && a.Interactive() {
		pick = a.Pick
	}
	if pick == nil {
		return "", &UsageError{Command: cmd.Kind.String(), Msg: "preset name is required"}
	}
	presets, err := a.Presets.Presets()
	if err != nil {
		return "", err
	}
	items := make([]picker.Item, 0, len(presets))
	for _, p := range presets {
		items = append(items, picker.Item{Name: p.Name, Summary: summary(p.DisplayConfig)})
	}
	return pick(title, items)
}

func summary(state display.State) string {
	connectors := make([]string, 0, len(state.Monitors))
	for _, lm := range state.LogicalMonitors {
		connectors = append(connectors, lm.Connectors()...)
	}
	if len(connectors) == 0 {
		return "no logical monitors"
	}
	return fmt.Sprintf("%d logical monitors: %v", len(state.LogicalMonitors), connectors)
}

func (a *App) runSave(ctx context.Context, cmd Command) error {
	p, err := a.Presets.Save(ctx, cmd.Name, cmd.Force)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "Saved preset %q (%d monitors)\n", p.Name, len(p.DisplayConfig.Monitors))
	return nil
}

func (a *App) runApply(ctx context.Context, cmd Command) error {
	name, err := a.resolveName(cmd, "Apply preset")
	if err != nil {
		return err
	}
	opts := manager.ApplyOptions{
		Persistent: cmd.Persistent,
		Strict:     cmd.Strict,
		DryRun:     cmd.DryRun,
	}
	req, err := a.Presets.Apply(ctx, name, opts)
	if err != nil {
		return err
	}
	if cmd.DryRun {
		return a.emit(cmd, req, func(w io.Writer) error { return writeRequest(w, req) })
	}
	mode := mutter.Transient
	if cmd.Persistent {
		mode = mutter.Persistent
	}
	fmt.Fprintf(a.Stdout, "Applied preset %q (%s)\n", name, mode)
	return nil
}

func writeRequest(w io.Writer, req mutter.ApplyRequest) error {
	fmt.Fprintf(w, "serial: %d\n", req.Serial)
	fmt.Fprintf(w, "method: %d\n", req.Method)
	for i, lm := range req.LogicalMonitors {
		fmt.Fprintf(w, "logical monitor %d: x=%d y=%d scale=%g transform=%d primary=%t\n",
			i, lm.X, lm.Y, lm.Scale, lm.Transform, lm.Primary)
		for _, m := range lm.Monitors {
			fmt.Fprintf(w, "  %s -> mode %s\n", m.Connector, m.ModeID)
		}
	}
	for _, u := range req.Unresolved {
		fmt.Fprintf(w, "unresolved: %s\n", u)
	}
	return nil
}

func (a *App) runList(cmd Command) error {
	names, err := a.Presets.Names()
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	return a.emit(cmd, names, func(w io.Writer) error { return render.Names(w, names) })
}

func (a *App) runDelete(cmd Command) error {
	if err := a.Presets.Delete(cmd.Name); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "Deleted preset %q\n", cmd.Name)
	return nil
}

func (a *App) runRename(cmd Command) error {
	if err := a.Presets.Rename(cmd.Name, cmd.NewName, cmd.Force); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "Renamed preset %q to %q\n", cmd.Name, cmd.NewName)
	return nil
}

func (a *App) runShow(cmd Command) error {
	name, err := a.resolveName(cmd, "Show preset")
	if err != nil {
		return err
	}
	p, err := a.Presets.Lookup(name)
	if err != nil {
		return err
	}
	return a.emit(cmd, p, func(w io.Writer) error { return render.Preset(w, p, a.textOptions()) })
}

func (a *App) runCurrent(ctx context.Context, cmd Command) error {
	state, err := a.Presets.Current(ctx)
	if err != nil {
		return err
	}
	return a.emit(cmd, state, func(w io.Writer) error {
		return render.State(w, "Current configuration (serial "+fmt.Sprint(state.Serial)+")", state, a.textOptions())
	})
}

// ErrDoctorFailed is returned when a fatal doctor check failed. The report
// has already been printed.
var ErrDoctorFailed = fmt.Errorf("doctor: display configuration service is not usable")

func (a *App) runDoctor(ctx context.Context, cmd Command) error {
	d := &doctor.Doctor{
		PresetsPath:  a.Presets.Path(),
		SettingsPath: a.SettingsFile,
		SettingsErr:  a.SettingsErr,
		State:        a.Transport,
		Outputs:      a.Outputs,
	}
	report := d.Run(ctx)
	if err := a.emit(cmd, report, report.Write); err != nil {
		return err
	}
	if report.Failed() {
		return ErrDoctorFailed
	}
	return nil
}

// X11Outputs connects to the X server, lists its RandR outputs and
// disconnects.
func X11Outputs() ([]x11.Output, error) {
	conn, err := x11.NewConnection("")
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return conn.Outputs()
}
