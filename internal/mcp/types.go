package mcp

import (
	"github.com/1broseidon/displaypresets/internal/display"
	"github.com/1broseidon/displaypresets/internal/mutter"
)

// ListPresetsInput is the input for the list_presets tool.
type ListPresetsInput struct{}

// ListPresetsOutput is the output for the list_presets tool.
type ListPresetsOutput struct {
	Presets []string `json:"presets"`
}

// ShowPresetInput is the input for the show_preset tool.
type ShowPresetInput struct {
	Name string `json:"name" jsonschema:"required,Name of the preset"`
}

// ShowPresetOutput is the output for the show_preset tool.
type ShowPresetOutput struct {
	Name          string        `json:"name"`
	DisplayConfig display.State `json:"display_config"`
}

// SavePresetInput is the input for the save_preset tool.
type SavePresetInput struct {
	Name  string `json:"name" jsonschema:"required,Name to save the current configuration under"`
	Force bool   `json:"force,omitempty" jsonschema:"Replace an existing preset with the same name (default: false)"`
}

// SavePresetOutput is the output for the save_preset tool.
type SavePresetOutput struct {
	Name     string `json:"name"`
	Serial   uint32 `json:"serial"`
	Monitors int    `json:"monitors"`
	Replaced bool   `json:"replaced"`
}

// ApplyPresetInput is the input for the apply_preset tool.
type ApplyPresetInput struct {
	Name       string `json:"name" jsonschema:"required,Name of the preset to apply"`
	Persistent bool   `json:"persistent,omitempty" jsonschema:"Store the configuration in the compositor instead of applying it transiently (default: false)"`
	Strict     bool   `json:"strict,omitempty" jsonschema:"Fail when a connector in the preset has no matching monitor or current mode (default: false)"`
	DryRun     bool   `json:"dry_run,omitempty" jsonschema:"Return the encoded request without applying it (default: false)"`
}

// ApplyPresetOutput is the output for the apply_preset tool.
type ApplyPresetOutput struct {
	Name            string                       `json:"name"`
	Applied         bool                         `json:"applied"`
	Mode            string                       `json:"mode"`
	Serial          uint32                       `json:"serial"`
	LogicalMonitors []AppliedLogicalMonitor      `json:"logical_monitors"`
	Unresolved      []mutter.UnresolvedConnector `json:"unresolved,omitempty"`
}

// AppliedLogicalMonitor describes one logical monitor of an apply request.
type AppliedLogicalMonitor struct {
	X         int32            `json:"x"`
	Y         int32            `json:"y"`
	Scale     float64          `json:"scale"`
	Transform uint32           `json:"transform"`
	Primary   bool             `json:"primary"`
	Monitors  []AppliedMonitor `json:"monitors"`
}

// AppliedMonitor is a connector and the mode selected for it.
type AppliedMonitor struct {
	Connector string `json:"connector"`
	ModeID    string `json:"mode_id"`
}

// DeletePresetInput is the input for the delete_preset tool.
type DeletePresetInput struct {
	Name string `json:"name" jsonschema:"required,Name of the preset to delete"`
}

// DeletePresetOutput is the output for the delete_preset tool.
type DeletePresetOutput struct {
	Deleted string `json:"deleted"`
}

// RenamePresetInput is the input for the rename_preset tool.
type RenamePresetInput struct {
	Name    string `json:"name" jsonschema:"required,Current preset name"`
	NewName string `json:"new_name" jsonschema:"required,New preset name"`
	Force   bool   `json:"force,omitempty" jsonschema:"Replace a preset already named new_name (default: false)"`
}

// RenamePresetOutput is the output for the rename_preset tool.
type RenamePresetOutput struct {
	From string `json:"from"`
	To   string `json:"to"`
}
