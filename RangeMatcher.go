package go_exteriorballistics

import (
	"math"

	"github.com/go-kit/log/level"
)

//MinimumDepartureAngle is the lowest angle of the low arc bracket in degrees
const MinimumDepartureAngle float64 = 0.01

//MaximumDepartureAngle is the highest angle of the high arc bracket in degrees
const MaximumDepartureAngle float64 = 89.9

//AngleBracket is the interval of departure angles (degrees) which is searched for a range.
//
//The range is unimodal in the departure angle, so the bracket must lie on one side of the
//angle of the maximum range to contain at most one solution.
type AngleBracket struct {
	low  float64
	high float64
}

//CreateAngleBracket creates the bracket from its ends in degrees
func CreateAngleBracket(low, high float64) (AngleBracket, error) {
	b := AngleBracket{low: low, high: high}
	if err := b.Validate(); err != nil {
		return AngleBracket{}, err
	}
	return b, nil
}

//MustCreateAngleBracket creates the bracket but panics instead of returning an error
func MustCreateAngleBracket(low, high float64) AngleBracket {
	b, err := CreateAngleBracket(low, high)
	if err != nil {
		panic(err)
	}
	return b
}

//LowArc returns the bracket of the flat trajectories, below the angle of the maximum range
func LowArc(max MaxRangeResult) AngleBracket {
	return AngleBracket{low: MinimumDepartureAngle, high: max.Angle}
}

//HighArc returns the bracket of the lobbed trajectories, above the angle of the maximum range
func HighArc(max MaxRangeResult) AngleBracket {
	return AngleBracket{low: max.Angle, high: MaximumDepartureAngle}
}

//Validate checks that both ends are departure angles and the low end is below the high one
func (b AngleBracket) Validate() error {
	if err := validateAngle("AngleBracket", b.low); err != nil {
		return err
	}
	if err := validateAngle("AngleBracket", b.high); err != nil {
		return err
	}
	if !(b.low < b.high) {
		return invalidInput("AngleBracket", "low end %g must be below high end %g", b.low, b.high)
	}
	return nil
}

//Low returns the low end of the bracket in degrees
func (b AngleBracket) Low() float64 {
	return b.low
}

//High returns the high end of the bracket in degrees
func (b AngleBracket) High() float64 {
	return b.high
}

//RangeMatch is the departure angle which reaches a target range
type RangeMatch struct {
	TargetRange float64
	Trajectory  TrajectoryResult
	Iterations  int
}

//DepartureAngle returns the departure angle found in degrees
func (m RangeMatch) DepartureAngle() float64 {
	return m.Trajectory.DepartureAngle()
}

//MatchRange finds the departure angle within the bracket which makes the projectile reach
//the target range (m).
//
//Both ends of the bracket are evaluated first; a target which is not between their ranges
//cannot be reached inside the bracket. Bisection then follows the orientation of the bracket:
//the range rises with the angle on the low arc and falls on the high arc.
func (v TrajectoryCalculator) MatchRange(projectile Projectile, ic InitialConditions, targetRange float64, bracket AngleBracket) (RangeMatch, error) {
	if err := projectile.Validate(); err != nil {
		return RangeMatch{}, err
	}
	if err := ic.Validate(false); err != nil {
		return RangeMatch{}, err
	}
	if err := validateRange("RangeMatcher", targetRange); err != nil {
		return RangeMatch{}, err
	}
	if err := bracket.Validate(); err != nil {
		return RangeMatch{}, err
	}
	return v.matchRange(projectile, ic, targetRange, bracket)
}

func (v TrajectoryCalculator) matchRange(projectile Projectile, ic InitialConditions, targetRange float64, bracket AngleBracket) (RangeMatch, error) {
	logger := level.Debug(v.logger)
	tolerance := v.config.tolerance
	diverged := func(iterations int, estimate, residual float64, reason string, err error) error {
		return &DivergenceError{Solver: "RangeMatcher", Iterations: iterations, Estimate: estimate, Residual: residual, Reason: reason, Err: err}
	}

	lowEnd, err := v.rangeAt(projectile, ic, bracket.low)
	if err != nil {
		return RangeMatch{}, diverged(0, bracket.low, 0, "trajectory failed", err)
	}
	if math.Abs(lowEnd.Range()-targetRange) < tolerance {
		return RangeMatch{TargetRange: targetRange, Trajectory: lowEnd}, nil
	}
	highEnd, err := v.rangeAt(projectile, ic, bracket.high)
	if err != nil {
		return RangeMatch{}, diverged(0, bracket.high, 0, "trajectory failed", err)
	}
	if math.Abs(highEnd.Range()-targetRange) < tolerance {
		return RangeMatch{TargetRange: targetRange, Trajectory: highEnd}, nil
	}

	rising := highEnd.Range() > lowEnd.Range()
	if (lowEnd.Range()-targetRange)*(highEnd.Range()-targetRange) > 0 {
		best := lowEnd
		if math.Abs(highEnd.Range()-targetRange) < math.Abs(lowEnd.Range()-targetRange) {
			best = highEnd
		}
		return RangeMatch{}, diverged(0, best.DepartureAngle(), best.Range()-targetRange,
			"the target range is outside of the ranges of the bracket", nil)
	}

	low, high := bracket.low, bracket.high
	best := lowEnd
	for i := 1; i <= v.config.maxIterations; i++ {
		mid := (low + high) / 2
		r, err := v.rangeAt(projectile, ic, mid)
		if err != nil {
			return RangeMatch{}, diverged(i, best.DepartureAngle(), best.Range()-targetRange, "trajectory failed", err)
		}
		logger.Log("solver", "range-match", "iter", i, "angle", mid, "range", r.Range())
		if math.Abs(r.Range()-targetRange) < tolerance {
			return RangeMatch{TargetRange: targetRange, Trajectory: r, Iterations: i}, nil
		}
		if math.Abs(r.Range()-targetRange) < math.Abs(best.Range()-targetRange) {
			best = r
		}
		if (r.Range() < targetRange) == rising {
			low = mid
		} else {
			high = mid
		}
	}
	return RangeMatch{}, diverged(v.config.maxIterations, best.DepartureAngle(), best.Range()-targetRange, "iteration limit exceeded", nil)
}
