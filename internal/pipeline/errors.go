package pipeline

import "fmt"

// InsufficientInputError reports input below the minimum content
// threshold.
type InsufficientInputError struct {
	Units int
	Min   int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("pipeline: insufficient input: %d units extracted, %d required", e.Units, e.Min)
}

// ValidationFailure reports a hard gate not met in strict mode.
type ValidationFailure struct {
	Phase     Phase
	Measured  float64
	Threshold float64
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("pipeline: validation failed in %s: %.4f below threshold %.4f",
		e.Phase, e.Measured, e.Threshold)
}
