package gastroenterology

import (
	"github.com/mind-engage/clinical-scores/pkg/score"
)

type forrestRequest struct {
	Finding string `json:"finding" validate:"oneof=active_spurting active_oozing non_bleeding_visible_vessel adherent_clot flat_pigmented_spot clean_base"`
}

type forrestClass struct {
	class          string
	rebleedingRisk string
	management     string
}

// Rebleeding rates without endoscopic therapy.
var forrestClasses = map[string]forrestClass{
	"active_spurting":             {"Ia", "55%", "endoscopic therapy"},
	"active_oozing":               {"Ib", "55%", "endoscopic therapy"},
	"non_bleeding_visible_vessel": {"IIa", "43%", "endoscopic therapy"},
	"adherent_clot":               {"IIb", "22%", "consider clot removal and endoscopic therapy"},
	"flat_pigmented_spot":         {"IIc", "10%", "medical therapy"},
	"clean_base":                  {"III", "5%", "medical therapy"},
}

var forrestStages = []string{"Forrest Ia", "Forrest Ib", "Forrest IIa", "Forrest IIb", "Forrest IIc", "Forrest III"}

func newForrest(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[forrestRequest]{
		ID:     "forrest_classification",
		Stages: forrestStages,
		Score:  scoreForrest,
	}, cat)
}

func scoreForrest(r forrestRequest) (score.Outcome, error) {
	c := forrestClasses[r.Finding]
	return score.Outcome{
		Value: c.class,
		Stage: "Forrest " + c.class,
		Extra: map[string]any{
			"rebleeding_risk": c.rebleedingRisk,
			"management":      c.management,
		},
	}, nil
}
