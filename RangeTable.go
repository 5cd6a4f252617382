package go_exteriorballistics

import (
	"context"
	"errors"
	"math"

	"github.com/go-kit/log/level"

	"github.com/gehtsoft-usa/go_exteriorballistics/internal/workers"
)

//MaxRangeTableRows is the greatest number of rows a range table may have
const MaxRangeTableRows int = 10000

//cRangeSlack lets the last range of a sweep through despite the rounding of the increments
const cRangeSlack float64 = 1e-6

//cAngleSlack lets the last angle of a sweep through despite the rounding of the increments
const cAngleSlack float64 = 0.01

//RangeTableRow is one row of the range table
type RangeTableRow struct {
	//TargetRange is the swept range of the tables built by range; it is zero in the tables built by angle
	TargetRange      float64 `json:"target_range,omitempty"`
	Range            float64 `json:"range"`
	DepartureAngle   float64 `json:"departure_angle"`
	AngleOfFall      float64 `json:"angle_of_fall"`
	TimeOfFlight     float64 `json:"time_of_flight"`
	StrikingVelocity float64 `json:"striking_velocity"`
	MaxOrdinate      float64 `json:"max_ordinate"`
	FormFactor       float64 `json:"form_factor"`
	Iterations       int     `json:"iterations"`
}

func rowFromTrajectory(r TrajectoryResult, iterations int) RangeTableRow {
	return RangeTableRow{
		Range:            r.Range(),
		DepartureAngle:   r.DepartureAngle(),
		AngleOfFall:      r.ImpactAngle(),
		TimeOfFlight:     r.TimeOfFlight(),
		StrikingVelocity: r.ImpactVelocity(),
		MaxOrdinate:      r.MaxOrdinate(),
		FormFactor:       r.FormFactor(),
		Iterations:       iterations,
	}
}

func rowFromMatch(m RangeMatch, iterations int) RangeTableRow {
	row := rowFromTrajectory(m.Trajectory, iterations)
	row.TargetRange = m.TargetRange
	return row
}

func sweepCount(subject string, start, end, increment, slack float64) (int, error) {
	if !isFinite(start) || !isFinite(end) || !isFinite(increment) {
		return 0, invalidInput(subject, "start, end and increment must be finite numbers")
	}
	if !(increment > 0) {
		return 0, invalidInput(subject, "increment must be greater than zero")
	}
	if start > end {
		return 0, invalidInput(subject, "start %g must not be greater than end %g", start, end)
	}
	count := math.Floor((end-start+slack)/increment) + 1
	if count > float64(MaxRangeTableRows) {
		return 0, invalidInput(subject, "the table would have %.0f rows, at most %d are allowed", count, MaxRangeTableRows)
	}
	return int(count), nil
}

//RangeTableByRange builds the table for the target ranges start, start+increment, ... up to end (m).
//
//The departure angles are taken from the low arc. When the form factor depends on the angle,
//angle and form factor are resolved together: the form factor at the guessed angle is used
//to match the range and the match becomes the next guess until the angle moves by less
//than the angle tolerance. The table ends at the maximum range of the projectile.
func (v TrajectoryCalculator) RangeTableByRange(ctx context.Context, projectile Projectile, ic InitialConditions, start, end, increment float64) ([]RangeTableRow, error) {
	if err := projectile.Validate(); err != nil {
		return nil, err
	}
	if err := ic.Validate(false); err != nil {
		return nil, err
	}
	if err := validateRange("RangeTable", start); err != nil {
		return nil, err
	}
	count, err := sweepCount("RangeTable", start, end, increment, cRangeSlack)
	if err != nil {
		return nil, err
	}

	maxRange, err := v.maxRange(projectile, ic)
	if err != nil {
		return nil, err
	}

	targets := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		target := start + float64(i)*increment
		if target > maxRange.Range {
			break
		}
		targets = append(targets, target)
	}
	level.Debug(v.logger).Log("table", "range", "rows", len(targets), "max_range", maxRange.Range)

	return workers.Map(ctx, v.pool(), targets, func(ctx context.Context, target float64) (RangeTableRow, error) {
		return v.rangeTableRow(ctx, projectile, ic, target, maxRange)
	})
}

func (v TrajectoryCalculator) rangeTableRow(ctx context.Context, projectile Projectile, ic InitialConditions, target float64, maxRange MaxRangeResult) (RangeTableRow, error) {
	bracket := LowArc(maxRange)
	if projectile.formFactors.IsConstant() {
		m, err := v.matchRange(projectile, ic, target, bracket)
		if err != nil {
			return RangeTableRow{}, err
		}
		return rowFromMatch(m, 1), nil
	}

	angle := bracket.low + (bracket.high-bracket.low)/2
	var last RangeMatch
	for i := 1; i <= v.config.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return RangeTableRow{}, err
		}
		p := projectile.withFormFactor(projectile.formFactors.Lookup(angle))
		m, err := v.matchRange(p, ic, target, bracket)
		if errors.Is(err, ErrDivergence) {
			//the low arc of the projectile with this form factor ends at its own maximum
			var pmax MaxRangeResult
			if pmax, err = v.maxRange(p, ic); err == nil {
				bracket = LowArc(pmax)
				m, err = v.matchRange(p, ic, target, bracket)
			}
		}
		if err != nil {
			return RangeTableRow{}, err
		}
		level.Debug(v.logger).Log("table", "range", "target", target, "iter", i, "angle", m.DepartureAngle(), "ff", p.formFactors.Lookup(angle))
		if math.Abs(m.DepartureAngle()-angle) < v.config.angleTolerance {
			return rowFromMatch(m, i), nil
		}
		angle = m.DepartureAngle()
		last = m
	}
	return RangeTableRow{}, &DivergenceError{
		Solver:     "RangeTable",
		Iterations: v.config.maxIterations,
		Estimate:   last.DepartureAngle(),
		Residual:   last.Trajectory.Range() - target,
		Reason:     "departure angle and form factor did not settle",
	}
}

//RangeTableByAngle builds the table for the departure angles start, start+increment, ... up to end (degrees).
//
//Every row is one trajectory with the form factor at its departure angle.
func (v TrajectoryCalculator) RangeTableByAngle(ctx context.Context, projectile Projectile, ic InitialConditions, start, end, increment float64) ([]RangeTableRow, error) {
	if err := projectile.Validate(); err != nil {
		return nil, err
	}
	if err := ic.Validate(false); err != nil {
		return nil, err
	}
	if err := validateAngle("RangeTable", start); err != nil {
		return nil, err
	}
	count, err := sweepCount("RangeTable", start, end, increment, cAngleSlack)
	if err != nil {
		return nil, err
	}

	angles := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		angle := start + float64(i)*increment
		if angle >= 90 {
			break
		}
		angles = append(angles, angle)
	}
	level.Debug(v.logger).Log("table", "angle", "rows", len(angles))

	return workers.Map(ctx, v.pool(), angles, func(ctx context.Context, angle float64) (RangeTableRow, error) {
		r, err := v.rangeAt(projectile, ic, angle)
		if err != nil {
			return RangeTableRow{}, err
		}
		return rowFromTrajectory(r, 1), nil
	})
}
