package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration steps.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the integration diverged numerically.
	ErrUnstable = errors.New("dynamo: integration unstable (state diverged)")

	// ErrStepTooSmall indicates the adaptive timestep collapsed below its floor.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")
)

// StepError wraps an integration failure with the step context it occurred in.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
