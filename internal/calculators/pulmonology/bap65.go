package pulmonology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

// The score is only validated for COPD exacerbations in patients aged 40 and over.
type bap65Request struct {
	BUN                 float64 `json:"bun" validate:"gte=1,lte=200" unit:"mg/dL"`
	AlteredMentalStatus string  `json:"altered_mental_status" validate:"oneof=yes no"`
	Pulse               int     `json:"pulse" validate:"gte=20,lte=250" unit:"beats/min"`
	Age                 int     `json:"age" validate:"gte=40,lte=120" unit:"years"`
}

var bap65Classes = []string{"Class I", "Class II", "Class III", "Class IV", "Class V"}

// In-hospital mortality (%) by class, Tabak et al. 2009.
var bap65Mortality = [...]float64{0.3, 1.0, 2.2, 6.4, 14.1}

func newBAP65(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[bap65Request]{
		ID:     "bap_65",
		Range:  &score.Range{Min: 1, Max: 5},
		Stages: bap65Classes,
		Score:  scoreBAP65,
	}, cat)
}

func scoreBAP65(r bap65Request) (score.Outcome, error) {
	components := []score.Component{
		{Name: "bun", Points: score.Points(r.BUN >= 25, 1), MaxPoints: 1},
		{Name: "altered_mental_status", Points: score.Points(r.AlteredMentalStatus == "yes", 1), MaxPoints: 1},
		{Name: "pulse", Points: score.Points(r.Pulse >= 109, 1), MaxPoints: 1},
	}
	bap := int(score.Total(components))

	// Age only separates the two zero-point classes.
	class := bap + 2
	if bap == 0 && r.Age < 65 {
		class = 1
	}
	return score.Outcome{
		Value: class,
		Stage: bap65Classes[class-1],
		Extra: map[string]any{
			"mortality_risk": bap65Mortality[class-1],
			"components":     components,
		},
	}, nil
}
