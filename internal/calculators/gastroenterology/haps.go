package gastroenterology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

type hapsRequest struct {
	Peritonitis        string `json:"peritonitis" validate:"oneof=absent present"`
	CreatinineElevated string `json:"creatinine_elevated" validate:"oneof=yes no"`
	HematocritElevated string `json:"hematocrit_elevated" validate:"oneof=yes no"`
}

var hapsBands = score.Bands{
	score.Closed("Harmless", 0, 0),
	score.UpTo("Not Harmless", 0, 3),
}

func newHAPS(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[hapsRequest]{
		ID:    "haps",
		Range: &score.Range{Min: 0, Max: 3},
		Bands: hapsBands,
		Score: scoreHAPS,
	}, cat)
}

func scoreHAPS(r hapsRequest) (score.Outcome, error) {
	components := []score.Component{
		{Name: "peritonitis", Points: score.Points(r.Peritonitis == "present", 1), MaxPoints: 1},
		{Name: "creatinine_elevated", Points: score.Points(r.CreatinineElevated == "yes", 1), MaxPoints: 1},
		{Name: "hematocrit_elevated", Points: score.Points(r.HematocritElevated == "yes", 1), MaxPoints: 1},
	}
	total := int(score.Total(components))
	stage, _ := hapsBands.Classify(float64(total))
	return score.Outcome{
		Value: total,
		Stage: stage,
		Extra: map[string]any{"components": components},
	}, nil
}
