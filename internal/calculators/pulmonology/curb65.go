package pulmonology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

type curb65Request struct {
	Confusion       bool    `json:"confusion"`
	Urea            float64 `json:"urea" validate:"gte=0,lte=200" unit:"mg/dL"`
	RespiratoryRate int     `json:"respiratory_rate" validate:"gte=0,lte=60" unit:"breaths/min"`
	SystolicBP      int     `json:"systolic_bp" validate:"gte=0,lte=300" unit:"mmHg"`
	DiastolicBP     int     `json:"diastolic_bp" validate:"gte=0,lte=200" unit:"mmHg"`
	Age             int     `json:"age" validate:"gte=0,lte=120" unit:"years"`
}

func (r curb65Request) Check() error {
	if r.DiastolicBP > r.SystolicBP {
		return score.Inconsistent("diastolic_bp", "diastolic pressure (%d) cannot exceed systolic pressure (%d)", r.DiastolicBP, r.SystolicBP)
	}
	return nil
}

var curb65Bands = score.Bands{
	score.From("Low Risk", 0, 2),
	score.From("Moderate Risk", 2, 3),
	score.Closed("High Risk", 3, 5),
}

// Serum urea above 7 mmol/L, expressed in mg/dL (7 x 6.006).
const curb65UreaCutoff = 42.0

// 30-day mortality (%) by total score, Lim et al. 2003.
var curb65Mortality = [...]float64{0.7, 3.2, 13.0, 17.0, 41.5, 57.0}

func newCURB65(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[curb65Request]{
		ID:    "curb_65",
		Range: &score.Range{Min: 0, Max: 5},
		Bands: curb65Bands,
		Score: scoreCURB65,
	}, cat)
}

func scoreCURB65(r curb65Request) (score.Outcome, error) {
	components := []score.Component{
		{Name: "confusion", Points: score.Points(r.Confusion, 1), MaxPoints: 1},
		{Name: "urea", Points: score.Points(r.Urea > curb65UreaCutoff, 1), MaxPoints: 1},
		{Name: "respiratory_rate", Points: score.Points(r.RespiratoryRate >= 30, 1), MaxPoints: 1},
		{Name: "blood_pressure", Points: score.Points(r.SystolicBP < 90 || r.DiastolicBP <= 60, 1), MaxPoints: 1},
		{Name: "age", Points: score.Points(r.Age >= 65, 1), MaxPoints: 1},
	}
	total := int(score.Total(components))
	stage, _ := curb65Bands.Classify(float64(total))
	return score.Outcome{
		Value: total,
		Stage: stage,
		Extra: map[string]any{
			"mortality_risk": curb65Mortality[total],
			"components":     components,
		},
	}, nil
}
