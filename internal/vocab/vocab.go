// Package vocab holds the controlled work-classification vocabulary.
// Model output is free text; everything downstream expects
// work type / variety / detail triples from this catalog.
package vocab

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/gembakit/photopair/internal/photo"
)

//go:embed categories.yaml
var categoriesYAML []byte

// Category is one allowed classification triple. An empty Variety or
// Detail means the work type has no subdivision at that level.
type Category struct {
	WorkType string `yaml:"work_type"`
	Variety  string `yaml:"variety"`
	Detail   string `yaml:"detail"`
}

// Catalog is the loaded vocabulary. Entry order follows the YAML file.
type Catalog struct {
	entries []Category
}

type catalogFile struct {
	Categories []Category `yaml:"categories"`
}

// Load parses the embedded catalog.
func Load() *Catalog {
	var file catalogFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		// Embedded file, cannot fail in practice.
		panic("failed to unmarshal embedded categories.yaml: " + err.Error())
	}
	return &Catalog{entries: file.Categories}
}

// WorkTypes returns the distinct work types in catalog order, for
// injection into the analysis prompt.
func (c *Catalog) WorkTypes() []string {
	var types []string
	seen := make(map[string]bool)
	for _, e := range c.entries {
		if !seen[e.WorkType] {
			seen[e.WorkType] = true
			types = append(types, e.WorkType)
		}
	}
	return types
}

// CategoriesFor returns the catalog entries matching the given fields.
// Empty arguments match anything; returns nil when nothing matches.
func (c *Catalog) CategoriesFor(workType, variety, detail string) []Category {
	var matches []Category
	for _, e := range c.entries {
		if workType != "" && e.WorkType != workType {
			continue
		}
		if variety != "" && e.Variety != variety {
			continue
		}
		if detail != "" && e.Detail != detail {
			continue
		}
		matches = append(matches, e)
	}
	return matches
}

// Valid reports whether the analysis classification is a catalog entry.
func (c *Catalog) Valid(a *photo.Analysis) bool {
	return a != nil && c.CategoriesFor(a.WorkType, a.Variety, a.Detail) != nil
}

// Repair coerces an invalid classification to the catalog. When the
// work type is known, variety and detail snap to the first entry for
// that work type. Returns false when even the work type is unknown;
// the analysis is left untouched and the caller flags the photo.
func (c *Catalog) Repair(a *photo.Analysis) bool {
	if c.Valid(a) {
		return true
	}
	matches := c.CategoriesFor(a.WorkType, "", "")
	if matches == nil {
		return false
	}
	a.Variety = matches[0].Variety
	a.Detail = matches[0].Detail
	return true
}
