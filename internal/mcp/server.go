package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/displaypresets/internal/manager"
)

const ServerName = "display-presets"

// Server exposes preset operations as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	presets   *manager.Manager
	logger    *slog.Logger
}

// NewServer creates an MCP server backed by presets.
func NewServer(presets *manager.Manager, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		presets: presets,
		logger:  logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Debug("mcp server starting", "presets", s.presets.Path())
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_presets",
		Description: "List saved display presets in the order they were created.",
	}, s.handleListPresets)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_preset",
		Description: "Show a saved preset: physical monitors with their modes and the logical monitor layout (position, scale, transform, primary, current mode per connector).",
	}, s.handleShowPreset)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_preset",
		Description: "Capture the current display configuration from the compositor and save it under a name. Fails if the name exists unless force is true.",
	}, s.handleSavePreset)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_preset",
		Description: "Apply a saved preset. Transient by default: the compositor reverts unless the user confirms. Set persistent to store the configuration, or dry_run to only return the request that would be sent.",
	}, s.handleApplyPreset)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_preset",
		Description: "Delete a saved preset.",
	}, s.handleDeletePreset)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rename_preset",
		Description: "Rename a saved preset. Fails if new_name exists unless force is true, in which case the preset previously named new_name is replaced.",
	}, s.handleRenamePreset)
}
