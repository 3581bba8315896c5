// Package filetypes classifies MIME types into the coarse file categories
// shown in listings (Photo, Word, PDF, ...). The rules live in an embedded
// YAML table so deployments can read them without digging through code; rule
// order matters and is preserved.
package filetypes

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultRules []byte

// CategoryOther is returned when no rule matches.
const CategoryOther = "Other"

type rule struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
	Contains []string `yaml:"contains"`
	Exact    []string `yaml:"exact"`
}

// Registry maps MIME types to display categories. The zero value is not
// usable; construct with NewRegistry or Default.
type Registry struct {
	rules []rule
}

// NewRegistry parses a YAML rule table.
func NewRegistry(data []byte) (*Registry, error) {
	var doc struct {
		Categories []rule `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse file type rules: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("file type rules: no categories defined")
	}
	return &Registry{rules: doc.Categories}, nil
}

// Default returns the registry built from the embedded rule table. The
// embedded table is known-good, so this never fails at runtime.
func Default() *Registry {
	r, err := NewRegistry(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("filetypes: embedded rules invalid: %v", err))
	}
	return r
}

// Detect returns the category for a MIME type. Rules are evaluated in table
// order; the first match wins. Empty and unknown types map to Other.
func (r *Registry) Detect(mimetype string) string {
	if mimetype == "" {
		return CategoryOther
	}
	mt := strings.ToLower(mimetype)

	for _, rule := range r.rules {
		for _, p := range rule.Prefixes {
			if strings.HasPrefix(mt, p) {
				return rule.Name
			}
		}
		for _, c := range rule.Contains {
			if strings.Contains(mt, c) {
				return rule.Name
			}
		}
		for _, e := range rule.Exact {
			if mt == e {
				return rule.Name
			}
		}
	}
	return CategoryOther
}
