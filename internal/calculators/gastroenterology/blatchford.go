package gastroenterology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

type blatchfordRequest struct {
	BUN          float64 `json:"bun" validate:"gte=5,lte=200" unit:"mg/dL"`
	Hemoglobin   float64 `json:"hemoglobin" validate:"gte=3,lte=20" unit:"g/dL"`
	Gender       string  `json:"gender" validate:"oneof=male female"`
	SystolicBP   int     `json:"systolic_bp" validate:"gte=50,lte=250" unit:"mmHg"`
	HeartRate    int     `json:"heart_rate" validate:"gte=30,lte=200" unit:"beats/min"`
	Melena       string  `json:"melena" validate:"oneof=yes no"`
	Syncope      string  `json:"syncope" validate:"oneof=yes no"`
	LiverDisease string  `json:"liver_disease" validate:"oneof=yes no"`
	HeartFailure string  `json:"heart_failure" validate:"oneof=yes no"`
}

var blatchfordBands = score.Bands{
	score.Closed("Low Risk", 0, 0),
	score.UpTo("Low-Moderate Risk", 0, 5),
	score.UpTo("Moderate Risk", 5, 11),
	score.UpTo("High Risk", 11, 23),
}

func newBlatchford(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[blatchfordRequest]{
		ID:    "glasgow_blatchford_bleeding_score",
		Range: &score.Range{Min: 0, Max: 23},
		Bands: blatchfordBands,
		Score: scoreBlatchford,
	}, cat)
}

func bunPoints(v float64) float64 {
	switch {
	case v < 18.2:
		return 0
	case v <= 22.3:
		return 2
	case v <= 28:
		return 3
	case v <= 70:
		return 4
	}
	return 6
}

func hemoglobinPoints(v float64, gender string) float64 {
	if gender == "male" {
		switch {
		case v > 13:
			return 0
		case v >= 12:
			return 1
		case v >= 10:
			return 3
		}
		return 6
	}
	switch {
	case v > 12:
		return 0
	case v >= 10:
		return 1
	}
	return 6
}

func systolicPoints(v int) float64 {
	switch {
	case v >= 110:
		return 0
	case v >= 100:
		return 1
	case v >= 90:
		return 2
	}
	return 3
}

func scoreBlatchford(r blatchfordRequest) (score.Outcome, error) {
	components := []score.Component{
		{Name: "bun", Points: bunPoints(r.BUN), MaxPoints: 6},
		{Name: "hemoglobin", Points: hemoglobinPoints(r.Hemoglobin, r.Gender), MaxPoints: 6},
		{Name: "systolic_bp", Points: systolicPoints(r.SystolicBP), MaxPoints: 3},
		{Name: "heart_rate", Points: score.Points(r.HeartRate >= 100, 1), MaxPoints: 1},
		{Name: "melena", Points: score.Points(r.Melena == "yes", 1), MaxPoints: 1},
		{Name: "syncope", Points: score.Points(r.Syncope == "yes", 2), MaxPoints: 2},
		{Name: "liver_disease", Points: score.Points(r.LiverDisease == "yes", 2), MaxPoints: 2},
		{Name: "heart_failure", Points: score.Points(r.HeartFailure == "yes", 2), MaxPoints: 2},
	}
	total := int(score.Total(components))
	stage, _ := blatchfordBands.Classify(float64(total))
	return score.Outcome{
		Value: total,
		Stage: stage,
		Extra: map[string]any{"components": components},
	}, nil
}
