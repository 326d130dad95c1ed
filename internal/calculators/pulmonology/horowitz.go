package pulmonology

import (
	"math"

	"github.com/mind-engage/clinical-scores/pkg/score"
)

type horowitzRequest struct {
	PaO2 float64 `json:"pao2" validate:"gte=20,lte=700" unit:"mmHg"`
	FiO2 float64 `json:"fio2" validate:"gte=0.21,lte=1"`
}

// Berlin definition cut points.
var horowitzBands = score.Bands{
	score.Closed("Severe ARDS", 0, 100),
	score.UpTo("Moderate ARDS", 100, 200),
	score.UpTo("Mild ARDS", 200, 300),
	score.Above("Normal", 300),
}

func newHorowitz(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[horowitzRequest]{
		ID:    "horowitz_index",
		Range: &score.Range{Min: 0, Max: 700 / 0.21},
		Bands: horowitzBands,
		Score: scoreHorowitz,
	}, cat)
}

func scoreHorowitz(r horowitzRequest) (score.Outcome, error) {
	ratio := r.PaO2 / r.FiO2
	stage, _ := horowitzBands.Classify(ratio)
	return score.Outcome{Value: math.Round(ratio*10) / 10, Stage: stage}, nil
}
