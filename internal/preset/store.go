package preset

import (
	"github.com/1broseidon/displaypresets/internal/display"
)

func (c *Configuration) index(name string) int {
	for i := range c.Presets {
		if c.Presets[i].Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the preset called name.
func (c *Configuration) Lookup(name string) (*Preset, bool) {
	i := c.index(name)
	if i < 0 {
		return nil, false
	}
	return &c.Presets[i], true
}

// Names lists preset names in insertion order.
func (c *Configuration) Names() []string {
	out := make([]string, 0, len(c.Presets))
	for _, p := range c.Presets {
		out = append(out, p.Name)
	}
	return out
}

// Save stores state under name. An existing preset is only replaced when
// force is set; it keeps its name and position.
func (c *Configuration) Save(name string, state display.State, force bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	i := c.index(name)
	switch {
	case i < 0:
		c.Presets = append(c.Presets, Preset{Name: name, DisplayConfig: state.Clone()})
	case !force:
		return &NameCollisionError{Name: name}
	default:
		c.Presets[i].DisplayConfig = state.Clone()
	}
	return nil
}

// Delete removes the preset called name.
func (c *Configuration) Delete(name string) error {
	i := c.index(name)
	if i < 0 {
		return &NotFoundError{Name: name}
	}
	c.Presets = append(c.Presets[:i], c.Presets[i+1:]...)
	return nil
}

// Rename moves the preset called name to newName. When newName is taken and
// force is set, the preset previously holding newName is dropped and the
// renamed one keeps its own content and position.
func (c *Configuration) Rename(name, newName string, force bool) error {
	if name == newName {
		return ErrSameName
	}
	src := c.index(name)
	if src < 0 {
		return &NotFoundError{Name: name}
	}
	if err := ValidateName(newName); err != nil {
		return err
	}
	dst := c.index(newName)
	if dst >= 0 && !force {
		return &NameCollisionError{Name: newName}
	}

	c.Presets[src].Name = newName
	if dst >= 0 {
		c.Presets = append(c.Presets[:dst], c.Presets[dst+1:]...)
	}
	return nil
}
