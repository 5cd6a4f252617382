package go_exteriorballistics

import (
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/gehtsoft-usa/go_exteriorballistics/bmath/vector"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/workers"
)

//retardationScale converts the surface density and the caliber in centimeters
//into the units of the retardation formula
const retardationScale float64 = 1e-4

//TrajectoryCalculator runs trajectories and the solvers built on top of them
type TrajectoryCalculator struct {
	config  SimulationConfig
	logger  log.Logger
	workers int
}

//CreateTrajectoryCalculator creates an instance of the trajectory calculator
func CreateTrajectoryCalculator(config SimulationConfig) (TrajectoryCalculator, error) {
	if err := config.Validate(); err != nil {
		return TrajectoryCalculator{}, err
	}
	return TrajectoryCalculator{
		config:  config,
		logger:  log.NewNopLogger(),
		workers: 1,
	}, nil
}

//MustCreateTrajectoryCalculator creates the calculator but panics instead of returning an error
func MustCreateTrajectoryCalculator(config SimulationConfig) TrajectoryCalculator {
	c, err := CreateTrajectoryCalculator(config)
	if err != nil {
		panic(err)
	}
	return c
}

//WithLogger returns a copy of the calculator which logs the solver progress to the logger
func (v TrajectoryCalculator) WithLogger(logger log.Logger) TrajectoryCalculator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	v.logger = log.With(logger, "subsys", "calculator")
	return v
}

//WithWorkers returns a copy of the calculator which builds the independent rows
//of tables and form factor sets on the number of goroutines specified
func (v TrajectoryCalculator) WithWorkers(workers int) TrajectoryCalculator {
	if workers < 1 {
		workers = 1
	}
	v.workers = workers
	return v
}

//Config returns the simulation parameters of the calculator
func (v TrajectoryCalculator) Config() SimulationConfig {
	return v.config
}

//Workers returns the number of goroutines used for independent work
func (v TrajectoryCalculator) Workers() int {
	return v.workers
}

func (v TrajectoryCalculator) pool() *workers.Pool {
	return workers.NewPool(v.workers)
}

//Trajectory calculates one trajectory of the projectile fired at the departure angle of the initial conditions
func (v TrajectoryCalculator) Trajectory(projectile Projectile, ic InitialConditions, recordPath bool) (TrajectoryResult, error) {
	r, err := Integrate(projectile, ic, v.config, recordPath)
	if err != nil {
		return TrajectoryResult{}, err
	}
	level.Debug(v.logger).Log("msg", "trajectory", "angle", r.DepartureAngle(), "range", r.Range(), "steps", r.Steps())
	return r, nil
}

//Integrate calculates one trajectory of the projectile fired at the departure angle of the initial conditions.
//
//The form factor is looked up once, from the departure angle. Stepping continues while the
//altitude is not negative; the impact is then interpolated between the last two states.
func Integrate(projectile Projectile, ic InitialConditions, config SimulationConfig, recordPath bool) (TrajectoryResult, error) {
	if err := projectile.Validate(); err != nil {
		return TrajectoryResult{}, err
	}
	if err := ic.Validate(true); err != nil {
		return TrajectoryResult{}, err
	}
	if err := config.Validate(); err != nil {
		return TrajectoryResult{}, err
	}
	return integrate(projectile, ic.velocity, ic.altitude, ic.departureAngle, config, recordPath)
}

//integrator keeps the parameters which stay the same during the whole flight
type integrator struct {
	drag     DragTable
	density  DensityFunction
	factor   float64
	c        float64
	timestep float64
}

func integrate(projectile Projectile, velocity, altitude, angle float64, config SimulationConfig, recordPath bool) (TrajectoryResult, error) {
	ff := projectile.formFactors.Lookup(angle)
	in := integrator{
		drag:     projectile.drag,
		density:  projectile.density,
		factor:   projectile.airDensityFactor,
		c:        projectile.BallisticCoefficient(ff),
		timestep: config.timestep,
	}

	state := TrajectoryState{
		position: vector.Create(0, altitude),
		velocity: vector.FromPolar(velocity, degreesToRadians(angle)),
	}

	result := TrajectoryResult{departureAngle: angle, formFactor: ff, maxOrdinate: altitude}
	if recordPath {
		result.path = append(result.path, state)
	}

	for steps := 1; ; steps++ {
		if steps > config.maxSteps {
			return TrajectoryResult{}, &SimulationError{Steps: config.maxSteps, Reason: "the projectile has not reached the ground"}
		}
		next := in.step(state)
		if !next.isFinite() {
			return TrajectoryResult{}, &SimulationError{Steps: steps, Reason: "the state is not a finite number"}
		}
		result.steps = steps

		if next.position.Y < 0 {
			result.impact = interpolateImpact(state, next)
			if recordPath {
				result.path = append(result.path, result.impact)
			}
			return result, nil
		}

		if next.position.Y > result.maxOrdinate {
			result.maxOrdinate = next.position.Y
		}
		if recordPath {
			result.path = append(result.path, next)
		}
		state = next
	}
}

//retardation returns the horizontal and vertical decelerations at the altitude
//for the projectile moving with the velocity specified
func (in integrator) retardation(altitude float64, velocity vector.Vector) vector.Vector {
	speed := velocity.Magnitude()
	if speed == 0 {
		return vector.Create(0, Gravity(altitude))
	}
	mach := speed / in.density.SpeedOfSound(altitude)
	kd := in.drag.Lookup(mach)
	e := kd * in.density.Density(altitude) * in.factor * retardationScale * speed * speed / in.c
	return vector.Create(e*velocity.X/speed, e*velocity.Y/speed+Gravity(altitude))
}

//step advances the state by one timestep.
//
//The decelerations at the start of the step predict the velocity at its end; two
//corrector passes then average the start decelerations with the ones evaluated
//at the altitude of the mean vertical velocity. The position moves with the mean
//of the start and the corrected velocities.
func (in integrator) step(s TrajectoryState) TrajectoryState {
	dt := in.timestep
	altitude := s.position.Y
	v0 := s.velocity
	r0 := in.retardation(altitude, v0)

	v1 := v0.Subtract(r0.MultiplyByConst(dt))
	v2 := in.correct(altitude+(v0.Y+v1.Y)/2*dt, v0, v1, r0)
	v3 := in.correct(altitude+(v0.Y+v2.Y)/2*dt, v0, v2, r0)

	mean := v0.Add(v3).MultiplyByConst(0.5)
	return TrajectoryState{
		time:     s.time + dt,
		position: s.position.Add(mean.MultiplyByConst(dt)),
		velocity: v3,
	}
}

func (in integrator) correct(altitude float64, v0, estimate, r0 vector.Vector) vector.Vector {
	r := in.retardation(altitude, estimate)
	return v0.Subtract(r0.Add(r).MultiplyByConst(0.5 * in.timestep))
}

//rangeAt returns the range of the projectile fired at the angle specified
func (v TrajectoryCalculator) rangeAt(projectile Projectile, ic InitialConditions, angle float64) (TrajectoryResult, error) {
	if math.IsNaN(angle) {
		return TrajectoryResult{}, invalidInput("Trajectory", "departure angle is not a number")
	}
	return integrate(projectile, ic.velocity, ic.altitude, angle, v.config, false)
}
