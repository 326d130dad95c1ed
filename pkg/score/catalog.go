package score

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Catalog holds the prose for a set of calculators, keyed by calculator id.
// Scoring logic never reads it; it only supplies titles, references and the
// stage → interpretation table.
type Catalog map[string]Entry

// Entry is the catalog record of a single calculator.
type Entry struct {
	Title       string               `yaml:"title"`
	Category    string               `yaml:"category"`
	Version     string               `yaml:"version"`
	Description string               `yaml:"description"`
	Unit        string               `yaml:"unit"`
	Formula     string               `yaml:"formula"`
	References  []string             `yaml:"references"`
	Notes       []string             `yaml:"notes"`
	Parameters  map[string]string    `yaml:"parameters"`
	Stages      map[string]StageText `yaml:"stages"`
}

// StageText is the canned prose for one stage. Interpretation is a
// text/template rendered with .Result, .Stage and the outcome's extra fields.
type StageText struct {
	Description    string `yaml:"description"`
	Interpretation string `yaml:"interpretation"`
}

// ParseCatalog decodes a YAML document of the form
//
//	calculators:
//	  curb_65:
//	    title: ...
//
// Unknown keys are rejected so typos surface at startup.
func ParseCatalog(data []byte) (Catalog, error) {
	var doc struct {
		Calculators Catalog `yaml:"calculators"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Calculators) == 0 {
		return nil, fmt.Errorf("parse catalog: no calculators")
	}
	return doc.Calculators, nil
}
