package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/displaypresets/internal/manager"
	"github.com/1broseidon/displaypresets/internal/mutter"
	"github.com/1broseidon/displaypresets/internal/preset"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func (s *Server) handleListPresets(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListPresetsInput) (*mcpsdk.CallToolResult, ListPresetsOutput, error) {
	names, err := s.presets.Names()
	if err != nil {
		return nil, ListPresetsOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	return nil, ListPresetsOutput{Presets: names}, nil
}

func (s *Server) handleShowPreset(_ context.Context, _ *mcpsdk.CallToolRequest, args ShowPresetInput) (*mcpsdk.CallToolResult, ShowPresetOutput, error) {
	p, err := s.presets.Lookup(strings.TrimSpace(args.Name))
	if err != nil {
		return nil, ShowPresetOutput{}, err
	}
	return nil, ShowPresetOutput{Name: p.Name, DisplayConfig: p.DisplayConfig}, nil
}

func (s *Server) handleSavePreset(ctx context.Context, _ *mcpsdk.CallToolRequest, args SavePresetInput) (*mcpsdk.CallToolResult, SavePresetOutput, error) {
	name := strings.TrimSpace(args.Name)
	_, lookupErr := s.presets.Lookup(name)
	var nf *preset.NotFoundError
	replaced := lookupErr == nil
	if lookupErr != nil && !errors.As(lookupErr, &nf) {
		return nil, SavePresetOutput{}, lookupErr
	}

	p, err := s.presets.Save(ctx, name, args.Force)
	if err != nil {
		return nil, SavePresetOutput{}, err
	}
	s.logger.Info("mcp save_preset", "name", p.Name, "replaced", replaced)
	return nil, SavePresetOutput{
		Name:     p.Name,
		Serial:   p.DisplayConfig.Serial,
		Monitors: len(p.DisplayConfig.Monitors),
		Replaced: replaced,
	}, nil
}

func (s *Server) handleApplyPreset(ctx context.Context, _ *mcpsdk.CallToolRequest, args ApplyPresetInput) (*mcpsdk.CallToolResult, ApplyPresetOutput, error) {
	opts := manager.ApplyOptions{
		Persistent: args.Persistent,
		Strict:     args.Strict,
		DryRun:     args.DryRun,
	}
	req, err := s.presets.Apply(ctx, strings.TrimSpace(args.Name), opts)
	if err != nil {
		return nil, ApplyPresetOutput{}, err
	}

	mode := mutter.Transient
	if args.Persistent {
		mode = mutter.Persistent
	}
	out := ApplyPresetOutput{
		Name:            args.Name,
		Applied:         !args.DryRun,
		Mode:            mode.String(),
		Serial:          req.Serial,
		LogicalMonitors: appliedLogicalMonitors(req.LogicalMonitors),
		Unresolved:      req.Unresolved,
	}
	s.logger.Info("mcp apply_preset", "name", args.Name, "applied", out.Applied, "mode", out.Mode)
	return nil, out, nil
}

func appliedLogicalMonitors(in []mutter.LogicalMonitorConfig) []AppliedLogicalMonitor {
	out := make([]AppliedLogicalMonitor, 0, len(in))
	for _, lm := range in {
		monitors := make([]AppliedMonitor, 0, len(lm.Monitors))
		for _, m := range lm.Monitors {
			monitors = append(monitors, AppliedMonitor{Connector: m.Connector, ModeID: m.ModeID})
		}
		out = append(out, AppliedLogicalMonitor{
			X:         lm.X,
			Y:         lm.Y,
			Scale:     lm.Scale,
			Transform: lm.Transform,
			Primary:   lm.Primary,
			Monitors:  monitors,
		})
	}
	return out
}

func (s *Server) handleDeletePreset(_ context.Context, _ *mcpsdk.CallToolRequest, args DeletePresetInput) (*mcpsdk.CallToolResult, DeletePresetOutput, error) {
	name := strings.TrimSpace(args.Name)
	if err := s.presets.Delete(name); err != nil {
		return nil, DeletePresetOutput{}, err
	}
	return textResult("Deleted preset %q", name), DeletePresetOutput{Deleted: name}, nil
}

func (s *Server) handleRenamePreset(_ context.Context, _ *mcpsdk.CallToolRequest, args RenamePresetInput) (*mcpsdk.CallToolResult, RenamePresetOutput, error) {
	from := strings.TrimSpace(args.Name)
	to := strings.TrimSpace(args.NewName)
	if err := s.presets.Rename(from, to, args.Force); err != nil {
		return nil, RenamePresetOutput{}, err
	}
	return textResult("Renamed preset %q to %q", from, to), RenamePresetOutput{From: from, To: to}, nil
}
