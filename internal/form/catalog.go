// Package form describes the knee-pain questionnaire and collects raw answers
// from the HTML form, the JSON API and the terminal prompt.
package form

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Field keys shared by every collector.
const (
	KeyAge          = "age"
	KeyGender       = "gender"
	KeyEthnicity    = "ethnicity"
	KeyRace         = "race"
	KeyWeight       = "weight"
	KeyHeight       = "height"
	KeyPainLevel    = "pain_level"
	KeyCause        = "cause"
	KeyPainLocation = "pain_location"
	KeyPainTime     = "pain_time"
	KeySymptoms     = "symptoms"
	KeySleep        = "sleep"
)

type FieldType string

const (
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
)

type Field struct {
	Key         string    `yaml:"key" json:"key"`
	Label       string    `yaml:"label" json:"label"`
	Type        FieldType `yaml:"type" json:"type"`
	Placeholder string    `yaml:"placeholder" json:"placeholder,omitempty"`
	Required    bool      `yaml:"required" json:"required"`
	Options     []string  `yaml:"options" json:"options,omitempty"`
}

type Section struct {
	ID       string  `yaml:"id" json:"id"`
	Title    string  `yaml:"title" json:"title"`
	Subtitle string  `yaml:"subtitle" json:"subtitle,omitempty"`
	Fields   []Field `yaml:"fields" json:"fields"`
}

// Catalog is the full questionnaire in display order.
type Catalog struct {
	Title    string    `yaml:"title" json:"title"`
	Intro    string    `yaml:"intro" json:"intro"`
	Sections []Section `yaml:"sections" json:"sections"`
}

//go:embed fields.yaml
var catalogYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded questionnaire. The result is shared and must
// not be modified.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// ParseCatalog decodes a YAML questionnaire and checks its field keys.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("form: parse catalog: %w", err)
	}
	seen := make(map[string]struct{})
	for _, s := range c.Sections {
		for _, f := range s.Fields {
			if f.Key == "" {
				return nil, fmt.Errorf("form: section %q has a field without key", s.ID)
			}
			if _, dup := seen[f.Key]; dup {
				return nil, fmt.Errorf("form: duplicate field key %q", f.Key)
			}
			seen[f.Key] = struct{}{}
			switch f.Type {
			case FieldNumber:
			case FieldSelect, FieldMultiSelect:
				if len(f.Options) == 0 {
					return nil, fmt.Errorf("form: field %q has no options", f.Key)
				}
			default:
				return nil, fmt.Errorf("form: field %q has unknown type %q", f.Key, f.Type)
			}
		}
	}
	return &c, nil
}

// Fields returns every field in display order.
func (c *Catalog) Fields() []Field {
	var out []Field
	for _, s := range c.Sections {
		out = append(out, s.Fields...)
	}
	return out
}

// Field looks a field up by key.
func (c *Catalog) Field(key string) (Field, bool) {
	for _, s := range c.Sections {
		for _, f := range s.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return Field{}, false
}
