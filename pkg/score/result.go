package score

import "encoding/json"

// Component is one factor of a weighted-sum score, reported so callers can
// see which inputs contributed.
type Component struct {
	Name      string  `json:"name"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
}

// Points returns pts when cond holds and zero otherwise.
func Points(cond bool, pts float64) float64 {
	if cond {
		return pts
	}
	return 0
}

// Total sums the points of all components.
func Total(cs []Component) float64 {
	var t float64
	for _, c := range cs {
		t += c.Points
	}
	return t
}

// Outcome is what a score function returns: the raw result, the stage it
// selected and any calculator-specific fields for the response envelope.
type Outcome struct {
	Value any
	Stage string
	Extra map[string]any
}

// Result is the uniform response envelope.
type Result struct {
	Value            any
	Unit             string
	Interpretation   string
	Stage            string
	StageDescription string
	Extra            map[string]any
}

// MarshalJSON flattens Extra next to the fixed envelope keys. The fixed keys
// win on collision.
func (r Result) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Extra)+5)
	for k, v := range r.Extra {
		m[k] = v
	}
	m["result"] = r.Value
	m["unit"] = r.Unit
	m["interpretation"] = r.Interpretation
	m["stage"] = r.Stage
	m["stage_description"] = r.StageDescription
	return json.Marshal(m)
}
