package go_exteriorballistics

import (
	"context"
	"math"
	"sort"

	"github.com/go-kit/log/level"

	"github.com/gehtsoft-usa/go_exteriorballistics/internal/workers"
)

const cFormFactorBracketHigh float64 = 10.0
const cFormFactorBracketDoublings int = 16
const cFormFactorBracketHalvings int = 32

//Shot is an observed range for a departure angle
type Shot struct {
	Angle float64 `json:"angle"`
	Range float64 `json:"range"`
}

//FormFactorSolution is the form factor which reproduces a shot
type FormFactorSolution struct {
	Angle      float64 `json:"angle"`
	FormFactor float64 `json:"form_factor"`
	Range      float64 `json:"range"`
	Iterations int     `json:"iterations"`
}

//SolveFormFactor finds the form factor which makes the projectile fired at the departure angle
//of the initial conditions reach the target range (m).
//
//The form factors of the projectile are ignored. The range decreases as the form factor grows,
//so the root is found by bisection of a bracket seeded at (0, 10].
func (v TrajectoryCalculator) SolveFormFactor(projectile Projectile, ic InitialConditions, targetRange float64) (FormFactorSolution, error) {
	p := projectile.withFormFactor(1)
	if err := p.Validate(); err != nil {
		return FormFactorSolution{}, err
	}
	if err := ic.Validate(true); err != nil {
		return FormFactorSolution{}, err
	}
	if err := validateRange("FormFactorSolver", targetRange); err != nil {
		return FormFactorSolution{}, err
	}
	return v.solveFormFactor(p, ic, Shot{Angle: ic.departureAngle, Range: targetRange})
}

func (v TrajectoryCalculator) solveFormFactor(p Projectile, ic InitialConditions, shot Shot) (FormFactorSolution, error) {
	logger := level.Debug(v.logger)
	tolerance := v.config.tolerance

	rangeFor := func(ff float64) (float64, error) {
		r, err := v.rangeAt(p.withFormFactor(ff), ic, shot.Angle)
		if err != nil {
			return 0, err
		}
		return r.Range(), nil
	}
	diverged := func(iterations int, estimate, residual float64, reason string, err error) error {
		return &DivergenceError{Solver: "FormFactorSolver", Iterations: iterations, Estimate: estimate, Residual: residual, Reason: reason, Err: err}
	}
	solved := func(ff, r float64, iterations int) FormFactorSolution {
		logger.Log("solver", "form-factor", "angle", shot.Angle, "ff", ff, "range", r, "iterations", iterations)
		return FormFactorSolution{Angle: shot.Angle, FormFactor: ff, Range: r, Iterations: iterations}
	}

	//the high end of the bracket must fall short of the target
	high := cFormFactorBracketHigh
	rHigh, err := rangeFor(high)
	if err != nil {
		return FormFactorSolution{}, diverged(0, high, 0, "trajectory failed", err)
	}
	for i := 0; rHigh > shot.Range; i++ {
		if i == cFormFactorBracketDoublings {
			return FormFactorSolution{}, diverged(0, high, rHigh-shot.Range, "the target range is too short for any form factor", nil)
		}
		high *= 2
		if rHigh, err = rangeFor(high); err != nil {
			return FormFactorSolution{}, diverged(0, high, 0, "trajectory failed", err)
		}
	}
	if math.Abs(rHigh-shot.Range) < tolerance {
		return solved(high, rHigh, 0), nil
	}

	//the low end must overshoot it
	low := high
	rLow := rHigh
	for i := 0; rLow < shot.Range; i++ {
		if i == cFormFactorBracketHalvings {
			return FormFactorSolution{}, diverged(0, low, rLow-shot.Range, "the target range is too long for any form factor", nil)
		}
		high, rHigh = low, rLow
		low /= 2
		if rLow, err = rangeFor(low); err != nil {
			return FormFactorSolution{}, diverged(0, low, 0, "trajectory failed", err)
		}
	}
	if math.Abs(rLow-shot.Range) < tolerance {
		return solved(low, rLow, 0), nil
	}

	best, bestResidual := high, rHigh-shot.Range
	if math.Abs(rLow-shot.Range) < math.Abs(bestResidual) {
		best, bestResidual = low, rLow-shot.Range
	}
	for i := 1; i <= v.config.maxIterations; i++ {
		mid := (low + high) / 2
		r, err := rangeFor(mid)
		if err != nil {
			return FormFactorSolution{}, diverged(i, best, bestResidual, "trajectory failed", err)
		}
		residual := r - shot.Range
		logger.Log("solver", "form-factor", "iter", i, "ff", mid, "range", r)
		if math.Abs(residual) < tolerance {
			return solved(mid, r, i), nil
		}
		if math.Abs(residual) < math.Abs(bestResidual) {
			best, bestResidual = mid, residual
		}
		if residual > 0 {
			low = mid
		} else {
			high = mid
		}
	}
	return FormFactorSolution{}, diverged(v.config.maxIterations, best, bestResidual, "iteration limit exceeded", nil)
}

//SolveFormFactors finds the form factor for every shot and assembles them into a form factor function.
//
//The solutions are returned in the order of the shots, the function is ordered by angle.
//Two shots with the same departure angle are rejected.
func (v TrajectoryCalculator) SolveFormFactors(ctx context.Context, projectile Projectile, ic InitialConditions, shots []Shot) (FormFactorFunction, []FormFactorSolution, error) {
	p := projectile.withFormFactor(1)
	if err := p.Validate(); err != nil {
		return FormFactorFunction{}, nil, err
	}
	if err := ic.Validate(false); err != nil {
		return FormFactorFunction{}, nil, err
	}
	if len(shots) == 0 {
		return FormFactorFunction{}, nil, invalidInput("FormFactorSolver", "at least one shot is required")
	}
	for _, s := range shots {
		if err := validateAngle("FormFactorSolver", s.Angle); err != nil {
			return FormFactorFunction{}, nil, err
		}
		if err := validateRange("FormFactorSolver", s.Range); err != nil {
			return FormFactorFunction{}, nil, err
		}
	}

	solutions, err := workers.Map(ctx, v.pool(), shots, func(ctx context.Context, s Shot) (FormFactorSolution, error) {
		return v.solveFormFactor(p, ic.WithDepartureAngle(s.Angle), s)
	})
	if err != nil {
		return FormFactorFunction{}, nil, err
	}

	points := make([]FormFactorPoint, len(solutions))
	for i, s := range solutions {
		points[i] = FormFactorPoint{Angle: s.Angle, FormFactor: s.FormFactor}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Angle < points[j].Angle })
	ff, err := CreateFormFactorFunction(points)
	if err != nil {
		return FormFactorFunction{}, nil, err
	}
	return ff, solutions, nil
}

func validateRange(subject string, r float64) error {
	if !(r > 0) || !isFinite(r) {
		return invalidInput(subject, "target range must be greater than zero")
	}
	return nil
}

