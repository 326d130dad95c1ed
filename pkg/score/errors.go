package score

import (
	"errors"
	"fmt"
)

// ErrDuplicateCalculator is returned by Registry.Register when the id is already taken.
var ErrDuplicateCalculator = errors.New("score: duplicate calculator")

// ValidationError reports an input that was rejected before scoring ran.
// Field-level failures (missing, wrong type, out of range, not in the
// allowed set) and cross-field consistency failures share this type.
type ValidationError struct {
	Field      string
	Constraint string // required, type, gte, lte, oneof, consistency, ...
	Value      any
	Message    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// UnknownCalculatorError is returned when a registry has no entry for the id.
type UnknownCalculatorError struct {
	ID string
}

func (e *UnknownCalculatorError) Error() string {
	return fmt.Sprintf("unknown calculator %q", e.ID)
}

// CalculationError wraps a failure inside a calculator that is not the
// caller's fault: a stage outside the declared set, a value outside the
// documented range, or an interpretation template that failed to render.
type CalculationError struct {
	ID  string
	Err error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculate %s: %v", e.ID, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// InternalError is a recovered panic from a score function.
type InternalError struct {
	ID    string
	Cause any
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("calculate %s: internal error: %v", e.ID, e.Cause)
}

// Inconsistent builds the ValidationError returned from a request's Check method.
func Inconsistent(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:      field,
		Constraint: "consistency",
		Message:    fmt.Sprintf(format, args...),
	}
}
