package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive step collapsed below the minimum.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrTooManySteps indicates the step budget ran out before reaching the end time.
	ErrTooManySteps = errors.New("dynamo: step budget exhausted")

	// ErrDimensionMismatch indicates a state whose length differs from the system's.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	ErrContextCanceled = errors.New("dynamo: run canceled by context")
)

// IntegrationError wraps an error with the point where integration stopped.
type IntegrationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
