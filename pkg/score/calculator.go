package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"text/template"
)

// Calculator is a registered, self-describing score.
type Calculator interface {
	Info() Info
	Metadata() Metadata
	Calculate(params json.RawMessage) (Result, error)
}

// Info is the short catalog listing of a calculator.
type Info struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description"`
}

// StageInfo describes one stage: the values that select it and its prose.
type StageInfo struct {
	Stage          string `json:"stage"`
	Range          string `json:"range,omitempty"`
	Description    string `json:"description"`
	Interpretation string `json:"interpretation"`
}

// Metadata is the full description of a calculator.
type Metadata struct {
	Info
	Unit       string      `json:"unit"`
	Range      *Range      `json:"range,omitempty"`
	Parameters []Parameter `json:"parameters"`
	Stages     []StageInfo `json:"stages"`
	Formula    string      `json:"formula,omitempty"`
	References []string    `json:"references,omitempty"`
	Notes      []string    `json:"notes,omitempty"`
}

// Spec declares a calculator over the request type Req.
//
// Stages is the fixed stage set. When Bands is set and Stages is empty the
// stage set is taken from the bands, and if Range is also set the bands must
// partition it.
type Spec[Req any] struct {
	ID     string
	Range  *Range
	Bands  Bands
	Stages []string
	Score  func(Req) (Outcome, error)
}

type stage struct {
	description string
	tmpl        *template.Template
}

type calculator[Req any] struct {
	spec   Spec[Req]
	meta   Metadata
	stages map[string]stage
}

// New binds a Spec to its catalog prose. Every inconsistency between the two
// is reported here so it fails at startup rather than per request.
func New[Req any](spec Spec[Req], cat Catalog) (Calculator, error) {
	if spec.ID == "" {
		return nil, errors.New("score: calculator id is empty")
	}
	if spec.Score == nil {
		return nil, fmt.Errorf("score: %s has no score function", spec.ID)
	}
	entry, ok := cat[spec.ID]
	if !ok {
		return nil, fmt.Errorf("score: %s has no catalog entry", spec.ID)
	}

	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("score: %s request type %s is not a struct", spec.ID, reqType)
	}

	stages := spec.Stages
	if len(spec.Bands) > 0 {
		if len(stages) == 0 {
			stages = spec.Bands.Stages()
		}
		for _, s := range spec.Bands.Stages() {
			if !contains(stages, s) {
				return nil, fmt.Errorf("score: %s band stage %q is not declared", spec.ID, s)
			}
		}
		if spec.Range != nil {
			if err := spec.Bands.Partition(*spec.Range); err != nil {
				return nil, fmt.Errorf("score: %s bands: %w", spec.ID, err)
			}
		}
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("score: %s declares no stages", spec.ID)
	}

	c := &calculator[Req]{spec: spec, stages: make(map[string]stage, len(stages))}
	infos := make([]StageInfo, 0, len(stages))
	for _, s := range stages {
		text, ok := entry.Stages[s]
		if !ok {
			return nil, fmt.Errorf("score: %s stage %q has no catalog text", spec.ID, s)
		}
		tmpl, err := template.New(spec.ID + "/" + s).Option("missingkey=error").Parse(text.Interpretation)
		if err != nil {
			return nil, fmt.Errorf("score: %s stage %q: %w", spec.ID, s, err)
		}
		c.stages[s] = stage{description: text.Description, tmpl: tmpl}
		infos = append(infos, StageInfo{
			Stage:          s,
			Range:          bandText(spec.Bands, s),
			Description:    text.Description,
			Interpretation: text.Interpretation,
		})
	}
	for s := range entry.Stages {
		if !contains(stages, s) {
			return nil, fmt.Errorf("score: %s catalog stage %q is not declared", spec.ID, s)
		}
	}

	params := Describe(reqType)
	for name, desc := range entry.Parameters {
		found := false
		for i := range params {
			if params[i].Name == name {
				params[i].Description = strings.TrimSpace(desc)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("score: %s catalog describes unknown parameter %q", spec.ID, name)
		}
	}

	c.meta = Metadata{
		Info: Info{
			ID:          spec.ID,
			Title:       entry.Title,
			Category:    entry.Category,
			Version:     entry.Version,
			Description: strings.TrimSpace(entry.Description),
		},
		Unit:       entry.Unit,
		Range:      spec.Range,
		Parameters: params,
		Stages:     infos,
		Formula:    strings.TrimSpace(entry.Formula),
		References: entry.References,
		Notes:      entry.Notes,
	}
	return c, nil
}

func (c *calculator[Req]) Info() Info         { return c.meta.Info }
func (c *calculator[Req]) Metadata() Metadata { return c.meta }

func (c *calculator[Req]) Calculate(params json.RawMessage) (Result, error) {
	var req Req
	if err := Decode(params, &req); err != nil {
		return Result{}, err
	}

	out, err := c.spec.Score(req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return Result{}, ve
		}
		return Result{}, &CalculationError{ID: c.spec.ID, Err: err}
	}

	st, ok := c.stages[out.Stage]
	if !ok {
		return Result{}, &CalculationError{ID: c.spec.ID, Err: fmt.Errorf("stage %q is not a declared stage", out.Stage)}
	}
	if c.spec.Range != nil {
		v, ok := toFloat(out.Value)
		if !ok {
			return Result{}, &CalculationError{ID: c.spec.ID, Err: fmt.Errorf("result %v is not numeric", out.Value)}
		}
		if math.IsNaN(v) || !c.spec.Range.Contains(v) {
			return Result{}, &CalculationError{ID: c.spec.ID, Err: fmt.Errorf("result %g outside [%g, %g]", v, c.spec.Range.Min, c.spec.Range.Max)}
		}
	}

	data := make(map[string]any, len(out.Extra)+2)
	for k, v := range out.Extra {
		data[k] = v
	}
	data["Result"] = out.Value
	data["Stage"] = out.Stage

	var b strings.Builder
	if err := st.tmpl.Execute(&b, data); err != nil {
		return Result{}, &CalculationError{ID: c.spec.ID, Err: fmt.Errorf("interpretation: %w", err)}
	}

	return Result{
		Value:            out.Value,
		Unit:             c.meta.Unit,
		Interpretation:   strings.TrimSpace(b.String()),
		Stage:            out.Stage,
		StageDescription: st.description,
		Extra:            out.Extra,
	}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func bandText(bs Bands, stage string) string {
	var parts []string
	for _, b := range bs {
		if b.Stage == stage {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, " ∪ ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
