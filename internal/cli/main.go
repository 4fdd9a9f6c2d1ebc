package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/displaypresets/internal/config"
	"github.com/1broseidon/displaypresets/internal/manager"
	"github.com/1broseidon/displaypresets/internal/mutter"
	"github.com/1broseidon/displaypresets/internal/picker"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Main parses args, runs the command and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer, version string) int {
	cmd, err := Parse(args, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}
	if cmd.Kind == KindHelp {
		app := &App{Stdout: stdout, Stderr: stderr}
		return exitCode(stderr, app.Run(ctx, cmd))
	}

	res, settingsErr := loadSettings(cmd.Global)
	if settingsErr != nil && cmd.Kind != KindDoctor {
		return exitCode(stderr, settingsErr)
	}
	settings := fallbackSettings(cmd.Global)
	settingsFile := ""
	if res != nil {
		settings = res.Settings
		settingsFile = res.File
	}

	logger := NewLogger(stderr, settings.SlogLevel())
	slog.SetDefault(logger)

	presetsPath, err := settings.PresetsPath()
	if err != nil {
		return exitCode(stderr, err)
	}

	client := mutter.NewClient(settings.Timeout(), logger)
	defer client.Close()

	app := &App{
		Stdout:       stdout,
		Stderr:       stderr,
		Logger:       logger,
		Settings:     settings,
		SettingsFile: settingsFile,
		SettingsErr:  settingsErr,
		Presets: manager.New(presetsPath, client, manager.Options{
			StrictApply: settings.StrictApply,
			Logger:      logger,
		}),
		Transport:   client,
		Interactive: picker.Interactive,
		Pick:        picker.Pick,
		Outputs:     X11Outputs,
		Version:     version,
	}
	if settings.Launcher != "none" {
		app.Launch = func(title string, items []picker.Item) (string, error) {
			l, err := picker.NewLauncher(settings.Launcher)
			if err != nil {
				return "", err
			}
			logger.Debug("picking preset with launcher", "launcher", l.Name())
			return l.Pick(title, items)
		}
	}
	return exitCode(stderr, app.Run(ctx, cmd))
}

func loadSettings(g Global) (*config.LoadResult, error) {
	var overrides config.RawSettings
	if g.ConfigPath != "" {
		path := g.ConfigPath
		overrides.PresetsFile = &path
	}
	if g.Timeout != 0 {
		timeout := g.Timeout
		overrides.TimeoutSeconds = &timeout
	}
	if g.Verbose {
		level := "debug"
		overrides.LogLevel = &level
	}
	if g.SettingsPath != "" {
		return config.LoadFromPath(g.SettingsPath, overrides)
	}
	return config.Load(overrides)
}

// fallbackSettings applies the global flags to the defaults. doctor uses it
// to keep going when the settings file is broken.
func fallbackSettings(g Global) *config.Settings {
	s := config.DefaultSettings()
	s.PresetsFile = g.ConfigPath
	if g.Timeout > 0 {
		s.TimeoutSeconds = g.Timeout
	}
	if g.Verbose {
		s.LogLevel = "debug"
	}
	return s
}

// NewLogger returns a text logger without timestamps.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrHelp) {
		return ExitOK
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stderr, uerr)
		fmt.Fprintln(stderr, "Run 'display-presets help' for usage.")
		return ExitUsage
	}
	if errors.Is(err, ErrDoctorFailed) {
		return ExitError
	}
	fmt.Fprintln(stderr, err)
	return ExitError
}
