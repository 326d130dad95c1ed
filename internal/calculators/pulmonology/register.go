// Package pulmonology holds the respiratory and critical-care calculators.
package pulmonology

import (
	_ "embed"
	"fmt"

	"github.com/mind-engage/clinical-scores/pkg/score"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Register adds every pulmonology calculator to r.
func Register(r *score.Registry) error {
	cat, err := score.ParseCatalog(catalogYAML)
	if err != nil {
		return fmt.Errorf("pulmonology: %w", err)
	}
	if err := r.RegisterAll(cat, newCURB65, newHorowitz, newGAP, newBAP65); err != nil {
		return fmt.Errorf("pulmonology: %w", err)
	}
	return nil
}
