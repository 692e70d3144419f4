package rubric

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

type TemplateType string

const (
	TypePlan     TemplateType = "plan"
	TypeChapter  TemplateType = "chapter"
	TypeFinal    TemplateType = "final"
	TypeRevision TemplateType = "revision"
)

func (t TemplateType) Valid() bool {
	switch t {
	case TypePlan, TypeChapter, TypeFinal, TypeRevision:
		return true
	}
	return false
}

// Template is a predefined evaluation grid.
type Template struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Type     TemplateType `json:"type" yaml:"type"`
	Criteria []Criterion  `json:"criteria" yaml:"criteria"`
}

func (t Template) clone() Template {
	t.Criteria = CloneCriteria(t.Criteria)
	return t
}

// Comments are the canned remarks an evaluator can pick from.
type Comments struct {
	Strengths    []string `json:"strengths" yaml:"strengths"`
	Improvements []string `json:"improvements" yaml:"improvements"`
	General      []string `json:"general" yaml:"general"`
}

var ErrUnknownTemplate = errors.New("unknown template")

//go:embed templates.yaml
var defaultCatalogYAML []byte

// Catalog is read-only after loading; every accessor returns copies.
type Catalog struct {
	templates []Template
	byID      map[string]int
	comments  Comments
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Templates []Template `yaml:"templates"`
		Comments  Comments   `yaml:"comments"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{byID: make(map[string]int, len(doc.Templates)), comments: doc.Comments}
	for _, t := range doc.Templates {
		if t.ID == "" {
			return nil, errors.New("template without id")
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template %q", t.ID)
		}
		if !t.Type.Valid() {
			return nil, fmt.Errorf("template %q: unknown type %q", t.ID, t.Type)
		}
		seen := map[string]bool{}
		for _, cr := range t.Criteria {
			if seen[cr.ID] {
				return nil, fmt.Errorf("template %q: duplicate criterion %q", t.ID, cr.ID)
			}
			seen[cr.ID] = true
			if err := cr.Validate(); err != nil {
				return nil, fmt.Errorf("template %q: %w", t.ID, err)
			}
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// DefaultCatalog returns the built-in grids and comment banks.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.clone()
	}
	return out
}

func (c *Catalog) Template(id string) (Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	return c.templates[i].clone(), nil
}

func (c *Catalog) Comments() Comments {
	return Comments{
		Strengths:    append([]string(nil), c.comments.Strengths...),
		Improvements: append([]string(nil), c.comments.Improvements...),
		General:      append([]string(nil), c.comments.General...),
	}
}
