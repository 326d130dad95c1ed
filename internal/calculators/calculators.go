// Package calculators assembles the registry of every shipped calculator.
package calculators

import (
	"github.com/mind-engage/clinical-scores/internal/calculators/cardiology"
	"github.com/mind-engage/clinical-scores/internal/calculators/gastroenterology"
	"github.com/mind-engage/clinical-scores/internal/calculators/nephrology"
	"github.com/mind-engage/clinical-scores/internal/calculators/pulmonology"
	"github.com/mind-engage/clinical-scores/pkg/score"
)

var specialties = []func(*score.Registry) error{
	cardiology.Register,
	gastroenterology.Register,
	nephrology.Register,
	pulmonology.Register,
}

// NewRegistry returns a registry holding every calculator.
func NewRegistry() (*score.Registry, error) {
	r := score.NewRegistry()
	for _, register := range specialties {
		if err := register(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}
