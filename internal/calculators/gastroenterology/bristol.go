package gastroenterology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

type bristolRequest struct {
	StoolType int `json:"stool_type" validate:"gte=1,lte=7"`
}

var bristolBands = score.Bands{
	score.From("Severe Constipation", 1, 2),
	score.From("Mild Constipation", 2, 3),
	score.From("Normal", 3, 4),
	score.From("Normal (Ideal)", 4, 5),
	score.From("Lacking Fiber", 5, 6),
	score.From("Mild Diarrhea", 6, 7),
	score.Closed("Severe Diarrhea", 7, 7),
}

func newBristol(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[bristolRequest]{
		ID:    "bristol_stool_form_scale",
		Range: &score.Range{Min: 1, Max: 7},
		Bands: bristolBands,
		Score: scoreBristol,
	}, cat)
}

func transitTime(stoolType int) string {
	switch {
	case stoolType <= 2:
		return "Slow"
	case stoolType <= 5:
		return "Normal"
	}
	return "Fast"
}

func scoreBristol(r bristolRequest) (score.Outcome, error) {
	stage, _ := bristolBands.Classify(float64(r.StoolType))
	return score.Outcome{
		Value: r.StoolType,
		Stage: stage,
		Extra: map[string]any{"transit_time": transitTime(r.StoolType)},
	}, nil
}
