package go_exteriorballistics

import (
	"errors"
	"fmt"
)

//ErrInvalidInput is matched by every InvalidInputError through errors.Is
var ErrInvalidInput = errors.New("invalid input")

//ErrSimulation is matched by every SimulationError through errors.Is
var ErrSimulation = errors.New("simulation failed")

//ErrDivergence is matched by every DivergenceError through errors.Is
var ErrDivergence = errors.New("solver did not converge")

//InvalidInputError reports non-physical or malformed input.
//
//It is raised while values are constructed or validated, before any
//trajectory is integrated.
type InvalidInputError struct {
	Subject string
	Reason  string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(subject, format string, args ...interface{}) error {
	return &InvalidInputError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

//SimulationError reports a trajectory that never reached the ground
//within the step cap or whose state stopped being finite
type SimulationError struct {
	Steps  int
	Reason string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("Trajectory: %s after %d steps", e.Reason, e.Steps)
}

func (e *SimulationError) Is(target error) bool {
	return target == ErrSimulation
}

//DivergenceError reports a solver that exhausted its iteration budget or
//was handed a bracket that cannot contain a root.
//
//Estimate and Residual carry the best value found so far and its distance
//from the target; they are diagnostics only and never a result.
type DivergenceError struct {
	Solver     string
	Iterations int
	Estimate   float64
	Residual   float64
	Reason     string
	Err        error
}

func (e *DivergenceError) Error() string {
	msg := fmt.Sprintf("%s: %s (iterations %d, estimate %g, residual %g)",
		e.Solver, e.Reason, e.Iterations, e.Estimate, e.Residual)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DivergenceError) Is(target error) bool {
	return target == ErrDivergence
}

func (e *DivergenceError) Unwrap() error {
	return e.Err
}
