// Package cardiology holds the cardiovascular risk calculators.
package cardiology

import (
	_ "embed"
	"fmt"

	"github.com/mind-engage/clinical-scores/pkg/score"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Register adds every cardiology calculator to r.
func Register(r *score.Registry) error {
	cat, err := score.ParseCatalog(catalogYAML)
	if err != nil {
		return fmt.Errorf("cardiology: %w", err)
	}
	if err := r.RegisterAll(cat, newCHA2DS2VASc); err != nil {
		return fmt.Errorf("cardiology: %w", err)
	}
	return nil
}

type cha2ds2vascRequest struct {
	Age                    int    `json:"age" validate:"gte=18,lte=120" unit:"years"`
	Sex                    string `json:"sex" validate:"oneof=male female"`
	CongestiveHeartFailure bool   `json:"congestive_heart_failure"`
	Hypertension           bool   `json:"hypertension"`
	StrokeTIAThrombo       bool   `json:"stroke_tia_thromboembolism"`
	VascularDisease        bool   `json:"vascular_disease"`
	Diabetes               bool   `json:"diabetes"`
}

var cha2ds2vascBands = score.Bands{
	score.Closed("Low Risk", 0, 0),
	score.UpTo("Low-Moderate Risk", 0, 1),
	score.UpTo("Moderate-High Risk", 1, 9),
}

// Adjusted annual stroke rate (%) by score, Lip et al. 2010.
var scoreToStrokeRisk = map[int]float64{
	0: 0,
	1: 1.3,
	2: 2.2,
	3: 3.2,
	4: 4.0,
	5: 6.7,
	6: 9.8,
	7: 9.6,
	8: 12.5,
	9: 15.2,
}

func newCHA2DS2VASc(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[cha2ds2vascRequest]{
		ID:    "cha2ds2_vasc",
		Range: &score.Range{Min: 0, Max: 9},
		Bands: cha2ds2vascBands,
		Score: scoreCHA2DS2VASc,
	}, cat)
}

func agePoints(age int) float64 {
	switch {
	case age >= 75:
		return 2
	case age >= 65:
		return 1
	}
	return 0
}

func scoreCHA2DS2VASc(r cha2ds2vascRequest) (score.Outcome, error) {
	components := []score.Component{
		{Name: "congestive_heart_failure", Points: score.Points(r.CongestiveHeartFailure, 1), MaxPoints: 1},
		{Name: "hypertension", Points: score.Points(r.Hypertension, 1), MaxPoints: 1},
		{Name: "age", Points: agePoints(r.Age), MaxPoints: 2},
		{Name: "diabetes", Points: score.Points(r.Diabetes, 1), MaxPoints: 1},
		{Name: "stroke_tia_thromboembolism", Points: score.Points(r.StrokeTIAThrombo, 2), MaxPoints: 2},
		{Name: "vascular_disease", Points: score.Points(r.VascularDisease, 1), MaxPoints: 1},
		{Name: "sex", Points: score.Points(r.Sex == "female", 1), MaxPoints: 1},
	}
	total := int(score.Total(components))
	stage, _ := cha2ds2vascBands.Classify(float64(total))
	return score.Outcome{
		Value: total,
		Stage: stage,
		Extra: map[string]any{
			"annual_stroke_risk": scoreToStrokeRisk[total],
			"components":         components,
		},
	}, nil
}
