package gastroenterology

import (
	"math"

	"github.com/mind-engage/clinical-scores/pkg/score"
)

type cdaiRequest struct {
	LiquidStoolsWeek   int     `json:"liquid_stools_week" validate:"gte=0,lte=200" unit:"stools/7 days"`
	AbdominalPain      string  `json:"abdominal_pain_score" validate:"oneof=none mild moderate severe"`
	GeneralWellbeing   string  `json:"general_wellbeing_score" validate:"oneof=generally_well slightly_under_par poor very_poor terrible"`
	Arthritis          string  `json:"arthritis_arthralgias" validate:"oneof=yes no"`
	IritisUveitis      string  `json:"iritis_uveitis" validate:"oneof=yes no"`
	ErythemaNodosum    string  `json:"erythema_nodosum" validate:"oneof=yes no"`
	AnalFissureFistula string  `json:"anal_fissure_fistula" validate:"oneof=yes no"`
	OtherFistulas      string  `json:"other_fistulas" validate:"oneof=yes no"`
	Fever              string  `json:"fever" validate:"oneof=yes no"`
	Antidiarrheal      string  `json:"antidiarrheal_use" validate:"oneof=yes no"`
	AbdominalMass      string  `json:"abdominal_mass" validate:"oneof=none questionable definite"`
	PatientSex         string  `json:"patient_sex" validate:"oneof=male female"`
	ObservedHematocrit float64 `json:"observed_hematocrit" validate:"gte=10,lte=60" unit:"%"`
	CurrentWeight      float64 `json:"current_weight" validate:"gte=30,lte=300" unit:"kg"`
	IdealWeight        float64 `json:"ideal_weight" validate:"gte=30,lte=300" unit:"kg"`
}

func (r cdaiRequest) Check() error {
	if r.IdealWeight < r.CurrentWeight*0.5 {
		return score.Inconsistent("ideal_weight", "ideal weight (%g kg) is less than half the current weight (%g kg)", r.IdealWeight, r.CurrentWeight)
	}
	if r.IdealWeight > r.CurrentWeight*2 {
		return score.Inconsistent("ideal_weight", "ideal weight (%g kg) is more than twice the current weight (%g kg)", r.IdealWeight, r.CurrentWeight)
	}
	return nil
}

const cdaiMax = 600

var cdaiBands = score.Bands{
	score.From("Remission", 0, 150),
	score.From("Mild Disease", 150, 220),
	score.From("Moderate Disease", 220, 300),
	score.Closed("Severe Disease", 300, 450),
	score.UpTo("Very Severe Disease", 450, cdaiMax),
}

var (
	abdominalPainScale    = map[string]float64{"none": 0, "mild": 1, "moderate": 2, "severe": 3}
	generalWellbeingScale = map[string]float64{"generally_well": 0, "slightly_under_par": 1, "poor": 2, "very_poor": 3, "terrible": 4}
	abdominalMassScale    = map[string]float64{"none": 0, "questionable": 2, "definite": 5}
	expectedHematocrit    = map[string]float64{"male": 47, "female": 42}
)

func newCDAI(cat score.Catalog) (score.Calculator, error) {
	return score.New(score.Spec[cdaiRequest]{
		ID:    "cdai_crohns",
		Range: &score.Range{Min: 0, Max: cdaiMax},
		Bands: cdaiBands,
		Score: scoreCDAI,
	}, cat)
}

func scoreCDAI(r cdaiRequest) (score.Outcome, error) {
	var complications float64
	for _, v := range []string{r.Arthritis, r.IritisUveitis, r.ErythemaNodosum, r.AnalFissureFistula, r.OtherFistulas, r.Fever} {
		complications += score.Points(v == "yes", 1)
	}
	hctDeficit := math.Max(0, expectedHematocrit[r.PatientSex]-r.ObservedHematocrit)
	weightDeficit := math.Max(0, (r.IdealWeight-r.CurrentWeight)/r.IdealWeight*100)

	components := []score.Component{
		{Name: "liquid_stools", Points: float64(r.LiquidStoolsWeek) * 2, MaxPoints: 400},
		{Name: "abdominal_pain", Points: abdominalPainScale[r.AbdominalPain] * 5, MaxPoints: 15},
		{Name: "general_wellbeing", Points: generalWellbeingScale[r.GeneralWellbeing] * 7, MaxPoints: 28},
		{Name: "extraintestinal_complications", Points: complications * 20, MaxPoints: 120},
		{Name: "antidiarrheal_use", Points: score.Points(r.Antidiarrheal == "yes", 30), MaxPoints: 30},
		{Name: "abdominal_mass", Points: abdominalMassScale[r.AbdominalMass] * 10, MaxPoints: 50},
		{Name: "hematocrit", Points: hctDeficit * 6, MaxPoints: (expectedHematocrit[r.PatientSex] - 10) * 6},
		{Name: "body_weight", Points: weightDeficit, MaxPoints: 50},
	}
	raw := score.Total(components)
	// Half-way totals round to even.
	total := int(math.Min(math.RoundToEven(raw), cdaiMax))
	stage, _ := cdaiBands.Classify(float64(total))
	return score.Outcome{
		Value: total,
		Stage: stage,
		Extra: map[string]any{
			"components": components,
			"capped":     raw > cdaiMax,
		},
	}, nil
}
