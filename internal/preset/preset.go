package preset

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/1broseidon/displaypresets/internal/display"
)

// Preset is a named display configuration snapshot.
type Preset struct {
	Name          string        `json:"name" yaml:"name"`
	DisplayConfig display.State `json:"display_config" yaml:"display_config"`
}

// Configuration is the persisted collection of presets. Names are unique;
// the store operations below enforce it.
type Configuration struct {
	Presets []Preset `json:"presets" yaml:"presets"`
}

// ErrSameName is returned by Rename when the new name equals the old one.
var ErrSameName = errors.New("new preset name is the same as the current one")

// NameCollisionError reports an existing preset under the requested name.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("preset %q already exists; use --force to override", e.Name)
}

// NotFoundError reports a missing preset.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preset %q not found", e.Name)
}

// ValidateName rejects names that cannot be typed back on a command line.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("preset name is required")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid preset name %q: contains control characters", name)
		}
	}
	return nil
}
