package score

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Registry maps calculator ids to calculators. It is filled once at startup
// and only read afterwards, so lookups need no locking.
type Registry struct {
	calcs map[string]Calculator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{calcs: map[string]Calculator{}}
}

// Register adds c under its id. Registering the same id twice is an error.
func (r *Registry) Register(c Calculator) error {
	id := c.Info().ID
	if id == "" {
		return fmt.Errorf("score: register: empty id")
	}
	if _, ok := r.calcs[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCalculator, id)
	}
	r.calcs[id] = c
	return nil
}

// Builder constructs one calculator from its catalog.
type Builder func(Catalog) (Calculator, error)

// RegisterAll builds every calculator against cat and registers it,
// stopping at the first failure.
func (r *Registry) RegisterAll(cat Catalog, builders ...Builder) error {
	for _, build := range builders {
		c, err := build(cat)
		if err != nil {
			return err
		}
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the calculator registered under id.
func (r *Registry) Lookup(id string) (Calculator, bool) {
	c, ok := r.calcs[id]
	return c, ok
}

// Len is the number of registered calculators.
func (r *Registry) Len() int { return len(r.calcs) }

// Invoke runs the calculator registered under id against params.
// A panic inside the calculator is returned as an *InternalError.
func (r *Registry) Invoke(ctx context.Context, id string, params json.RawMessage) (res Result, err error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	c, ok := r.calcs[id]
	if !ok {
		return Result{}, &UnknownCalculatorError{ID: id}
	}
	defer func() {
		if p := recover(); p != nil {
			res, err = Result{}, &InternalError{ID: id, Cause: p}
		}
	}()
	return c.Calculate(params)
}

// IDs returns every registered id in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.calcs))
	for id := range r.calcs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the info of every calculator, sorted by id.
func (r *Registry) List() []Info {
	return r.Filter("", "")
}

// Filter returns the calculators in category (case-insensitive, empty for
// all) whose id, title or description contains search (case-insensitive).
func (r *Registry) Filter(category, search string) []Info {
	category = strings.ToLower(strings.TrimSpace(category))
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]Info, 0, len(r.calcs))
	for _, id := range r.IDs() {
		info := r.calcs[id].Info()
		if category != "" && strings.ToLower(info.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(info.ID), search) &&
			!strings.Contains(strings.ToLower(info.Title), search) &&
			!strings.Contains(strings.ToLower(info.Description), search) {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (r *Registry) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range r.calcs {
		cat := c.Info().Category
		if cat != "" && !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	sort.Strings(out)
	return out
}
