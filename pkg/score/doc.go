/*
Package score is the contract shared by every clinical calculator.

A calculator is a Spec over a request struct whose tags declare the input
constraints, plus a pure score function returning an Outcome. New binds the
Spec to its Catalog entry (titles, references, stage prose); a Registry maps
ids to calculators and dispatches calls:

	reg := score.NewRegistry()
	calc, err := score.New(score.Spec[curb65Request]{
		ID:    "curb_65",
		Range: &score.Range{Min: 0, Max: 5},
		Bands: score.Bands{
			score.From("Low Risk", 0, 2),
			score.From("Moderate Risk", 2, 3),
			score.Closed("High Risk", 3, 5),
		},
		Score: scoreCURB65,
	}, catalog)
	...
	res, err := reg.Invoke(ctx, "curb_65", body)

Errors returned from Invoke are one of *ValidationError,
*UnknownCalculatorError, *CalculationError or *InternalError.
*/
package score
