package swe

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrNotInitialized indicates the driver was run before Initialize.
	ErrNotInitialized = errors.New("swe: simulation not initialized")

	// ErrInvalidConfig indicates a rejected run configuration.
	ErrInvalidConfig = errors.New("swe: invalid configuration")

	// ErrNonPositiveDepth indicates a velocity or Froude number was requested
	// where the water depth is zero or negative.
	ErrNonPositiveDepth = errors.New("swe: non-positive water depth")

	// ErrDimensionMismatch indicates a flux or source table whose row count
	// does not match the mesh.
	ErrDimensionMismatch = errors.New("swe: field size does not match mesh")

	// ErrUnstable indicates the solution picked up NaN or Inf values.
	ErrUnstable = errors.New("swe: solution diverged (NaN or Inf detected)")

	// ErrNoExactSolution indicates the case has no closed-form solution to
	// verify against.
	ErrNoExactSolution = errors.New("swe: case has no exact solution")
)

// StepError wraps an error with the step index and simulation time at which
// the run aborted.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
