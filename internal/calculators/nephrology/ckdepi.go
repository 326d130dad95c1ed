// Package nephrology holds the kidney function calculators.
package nephrology

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/mind-engage/clinical-scores/pkg/score"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Register adds every nephrology calculator to r.
func Register(r *score.Registry) error {
	cat, err := score.ParseCatalog(catalogYAML)
	if err != nil {
		return fmt.Errorf("nephrology: %w", err)
	}
	if err := r.RegisterAll(cat, newCKDEPI2021); err != nil {
		return fmt.Errorf("nephrology: %w", err)
	}
	return nil
}

type ckdEPIRequest struct {
	Sex        string  `json:"sex" validate:"oneof=male female"`
	Age        int     `json:"age" validate:"gte=18,lte=120" unit:"years"`
	Creatinine float64 `json:"serum_creatinine" validate:"gte=0.1,lte=20" unit:"mg/dL"`
}

// KDIGO GFR categories.
var ckdEPIBands = score.Bands{
	score.From("G5", 0, 15),
	score.From("G4", 15, 30),
	score.From("G3b", 30, 45),
	score.From("G3a", 45, 60),
	score.From("G2", 60, 90),
	score.Closed("G1", 90, 250),
}

func newCKDEPI2021(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[ckdEPIRequest]{
		ID:    "ckd_epi_2021",
		Range: &score.Range{Min: 0, Max: 250},
		Bands: ckdEPIBands,
		Score: scoreCKDEPI2021,
	}, cat)
}

// egfr2021 is the race-free CKD-EPI creatinine equation (Inker et al. 2021).
func egfr2021(sex string, age int, scr float64) float64 {
	kappa, alpha, factor := 0.9, -0.302, 1.0
	if sex == "female" {
		kappa, alpha, factor = 0.7, -0.241, 1.012
	}
	ratio := scr / kappa
	return 142 *
		math.Pow(math.Min(ratio, 1), alpha) *
		math.Pow(math.Max(ratio, 1), -1.200) *
		math.Pow(0.9938, float64(age)) *
		factor
}

func scoreCKDEPI2021(r ckdEPIRequest) (score.Outcome, error) {
	egfr := math.Round(egfr2021(r.Sex, r.Age, r.Creatinine)*10) / 10
	stage, _ := ckdEPIBands.Classify(egfr)
	return score.Outcome{Value: egfr, Stage: stage}, nil
}
