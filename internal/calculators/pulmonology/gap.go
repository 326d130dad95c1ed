package pulmonology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

// A nil DLCO means the patient could not perform the test.
type gapRequest struct {
	Gender string   `json:"gender" validate:"oneof=male female"`
	Age    int      `json:"age" validate:"gte=18,lte=100" unit:"years"`
	FVC    float64  `json:"fvc_percent_predicted" validate:"gte=10,lte=150" unit:"% predicted"`
	DLCO   *float64 `json:"dlco_percent_predicted,omitempty" validate:"omitempty,gte=5,lte=150" unit:"% predicted"`
}

var gapBands = score.Bands{
	score.From("GAP Stage I", 0, 4),
	score.From("GAP Stage II", 4, 6),
	score.Closed("GAP Stage III", 6, 8),
}

// Ley et al. 2012 derivation cohort, percent mortality at 1, 2 and 3 years.
var gapMortality = map[string]map[string]float64{
	"GAP Stage I":   {"one_year": 5.6, "two_year": 10.9, "three_year": 16.3},
	"GAP Stage II":  {"one_year": 16.2, "two_year": 29.9, "three_year": 42.1},
	"GAP Stage III": {"one_year": 39.2, "two_year": 62.1, "three_year": 76.8},
}

func newGAP(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[gapRequest]{
		ID:    "gap_index_ipf_mortality",
		Range: &score.Range{Min: 0, Max: 8},
		Bands: gapBands,
		Score: scoreGAP,
	}, cat)
}

func scoreGAP(r gapRequest) (score.Outcome, error) {
	var age float64
	switch {
	case r.Age > 65:
		age = 2
	case r.Age > 60:
		age = 1
	}

	var fvc float64
	switch {
	case r.FVC < 50:
		fvc = 2
	case r.FVC <= 75:
		fvc = 1
	}

	var dlco float64
	switch {
	case r.DLCO == nil:
		dlco = 3
	case *r.DLCO <= 35:
		dlco = 2
	case *r.DLCO <= 55:
		dlco = 1
	}

	components := []score.Component{
		{Name: "gender", Points: score.Points(r.Gender == "male", 1), MaxPoints: 1},
		{Name: "age", Points: age, MaxPoints: 2},
		{Name: "fvc_percent_predicted", Points: fvc, MaxPoints: 2},
		{Name: "dlco_percent_predicted", Points: dlco, MaxPoints: 3},
	}
	total := int(score.Total(components))
	stage, _ := gapBands.Classify(float64(total))
	return score.Outcome{
		Value: total,
		Stage: stage,
		Extra: map[string]any{
			"mortality":  gapMortality[stage],
			"components": components,
		},
	}, nil
}
