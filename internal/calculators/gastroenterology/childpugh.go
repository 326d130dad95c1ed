package gastroenterology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

type childPughRequest struct {
	TotalBilirubin float64 `json:"total_bilirubin" validate:"gte=0.1,lte=50" unit:"mg/dL"`
	SerumAlbumin   float64 `json:"serum_albumin" validate:"gte=1,lte=5" unit:"g/dL"`
	INR            float64 `json:"inr" validate:"gte=0.8,lte=10"`
	Ascites        string  `json:"ascites" validate:"oneof=absent slight moderate"`
	Encephalopathy string  `json:"encephalopathy" validate:"oneof=none grade_1_2 grade_3_4"`
}

var childPughBands = score.Bands{
	score.From("Child-Pugh A", 5, 7),
	score.From("Child-Pugh B", 7, 10),
	score.Closed("Child-Pugh C", 10, 15),
}

type childPughGrade struct {
	grade            string
	oneYear, twoYear int
}

var childPughGrades = map[string]childPughGrade{
	"Child-Pugh A": {"A", 100, 85},
	"Child-Pugh B": {"B", 80, 60},
	"Child-Pugh C": {"C", 45, 35},
}

var (
	ascitesPoints        = map[string]float64{"absent": 1, "slight": 2, "moderate": 3}
	encephalopathyPoints = map[string]float64{"none": 1, "grade_1_2": 2, "grade_3_4": 3}
)

func newChildPugh(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[childPughRequest]{
		ID:    "child_pugh_score",
		Range: &score.Range{Min: 5, Max: 15},
		Bands: childPughBands,
		Score: scoreChildPugh,
	}, cat)
}

func bilirubinPoints(v float64) float64 {
	switch {
	case v < 2:
		return 1
	case v <= 3:
		return 2
	}
	return 3
}

func albuminPoints(v float64) float64 {
	switch {
	case v > 3.5:
		return 1
	case v >= 2.8:
		return 2
	}
	return 3
}

func inrPoints(v float64) float64 {
	switch {
	case v < 1.7:
		return 1
	case v <= 2.3:
		return 2
	}
	return 3
}

func scoreChildPugh(r childPughRequest) (score.Outcome, error) {
	components := []score.Component{
		{Name: "total_bilirubin", Points: bilirubinPoints(r.TotalBilirubin), MaxPoints: 3},
		{Name: "serum_albumin", Points: albuminPoints(r.SerumAlbumin), MaxPoints: 3},
		{Name: "inr", Points: inrPoints(r.INR), MaxPoints: 3},
		{Name: "ascites", Points: ascitesPoints[r.Ascites], MaxPoints: 3},
		{Name: "encephalopathy", Points: encephalopathyPoints[r.Encephalopathy], MaxPoints: 3},
	}
	total := int(score.Total(components))
	stage, _ := childPughBands.Classify(float64(total))
	g := childPughGrades[stage]
	return score.Outcome{
		Value: total,
		Stage: stage,
		Extra: map[string]any{
			"grade":             g.grade,
			"one_year_survival": g.oneYear,
			"two_year_survival": g.twoYear,
			"components":        components,
		},
	}, nil
}
