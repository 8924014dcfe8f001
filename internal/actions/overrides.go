package actions

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"selectsense/internal/config"
)

// LoadOverrides reads a YAML file mapping action IDs to prompt templates and
// applies it. The path is resolved with config.ResolvePath.
//
//	define: |
//	  Define "{{SELECTION}}" in one sentence.
func (c *Catalog) LoadOverrides(path string) error {
	data, err := config.LoadFileContent(path)
	if err != nil {
		return fmt.Errorf("load prompt overrides: %w", err)
	}
	return c.ApplyOverrides(data)
}

// ApplyOverrides applies YAML-encoded template overrides. Nothing is changed
// if any entry is invalid.
func (c *Catalog) ApplyOverrides(data []byte) error {
	var templates map[string]string
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return fmt.Errorf("parse prompt overrides: %w", err)
	}

	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Validate against a scratch copy first so a bad entry leaves c untouched.
	scratch := NewCatalog()
	for _, id := range ids {
		if err := scratch.Override(id, templates[id]); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := c.Override(id, templates[id]); err != nil {
			return err
		}
	}
	return nil
}
