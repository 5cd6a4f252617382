package go_exteriorballistics

import (
	"fmt"
	"math"

	"github.com/go-kit/log/level"
)

//golden section ratio, (sqrt(5) - 1) / 2
var cGoldenRatio = (math.Sqrt(5) - 1) / 2

//cap of the golden section steps; the smallest accepted angle tolerance needs 53
const cMaxRangeIterations int = 200

//MaxRangeResult is the greatest range the projectile can reach and the departure angle to reach it
type MaxRangeResult struct {
	Range       float64          `json:"range"`
	Angle       float64          `json:"angle"`
	Evaluations int              `json:"evaluations"`
	Trajectory  TrajectoryResult `json:"-"`
}

//MaxRange finds the departure angle which gives the greatest range.
//
//The range is unimodal in the departure angle, so the interval (0, 90) is narrowed by the
//golden section search until it is narrower than the angle tolerance. The best evaluated
//trajectory is returned.
func (v TrajectoryCalculator) MaxRange(projectile Projectile, ic InitialConditions) (MaxRangeResult, error) {
	if err := projectile.Validate(); err != nil {
		return MaxRangeResult{}, err
	}
	if err := ic.Validate(false); err != nil {
		return MaxRangeResult{}, err
	}
	return v.maxRange(projectile, ic)
}

func (v TrajectoryCalculator) maxRange(projectile Projectile, ic InitialConditions) (MaxRangeResult, error) {
	var best MaxRangeResult
	evaluate := func(angle float64) (float64, error) {
		r, err := v.rangeAt(projectile, ic, angle)
		if err != nil {
			return 0, err
		}
		best.Evaluations++
		if best.Evaluations == 1 || r.Range() > best.Range {
			best.Range, best.Angle, best.Trajectory = r.Range(), angle, r
		}
		return r.Range(), nil
	}

	low, high := 0.0, 90.0
	a := high - cGoldenRatio*(high-low)
	b := low + cGoldenRatio*(high-low)
	ra, err := evaluate(a)
	if err != nil {
		return MaxRangeResult{}, err
	}
	rb, err := evaluate(b)
	if err != nil {
		return MaxRangeResult{}, err
	}

	for iteration := 0; high-low > v.config.angleTolerance; iteration++ {
		if iteration == cMaxRangeIterations {
			return MaxRangeResult{}, &DivergenceError{
				Solver:     "MaxRangeFinder",
				Iterations: iteration,
				Estimate:   best.Angle,
				Reason:     fmt.Sprintf("the angle interval %g did not narrow to %g", high-low, v.config.angleTolerance),
			}
		}
		if ra < rb {
			low, a, ra = a, b, rb
			b = low + cGoldenRatio*(high-low)
			if rb, err = evaluate(b); err != nil {
				return MaxRangeResult{}, err
			}
		} else {
			high, b, rb = b, a, ra
			a = high - cGoldenRatio*(high-low)
			if ra, err = evaluate(a); err != nil {
				return MaxRangeResult{}, err
			}
		}
	}

	level.Debug(v.logger).Log("solver", "max-range", "angle", best.Angle, "range", best.Range, "evaluations", best.Evaluations)
	return best, nil
}
