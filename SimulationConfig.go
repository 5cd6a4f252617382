package go_exteriorballistics

import "math"

//DefaultTimestep is the default integration step in seconds
const DefaultTimestep float64 = 0.1

//DefaultTolerance is the default range tolerance of the solvers in meters
const DefaultTolerance float64 = 1.0

//DefaultMaxIterations is the default iteration budget of the solvers
const DefaultMaxIterations int = 100

//DefaultAngleTolerance is the default angular tolerance in degrees
const DefaultAngleTolerance float64 = 0.05

//MinimumAngleTolerance is the smallest angular tolerance in degrees the max range search can reach
const MinimumAngleTolerance float64 = 1e-9

//DefaultMaxSteps is the default cap of integration steps of one trajectory
const DefaultMaxSteps int = 1000000

//SimulationConfig keeps the parameters of the numeric methods
type SimulationConfig struct {
	timestep       float64
	tolerance      float64
	maxIterations  int
	angleTolerance float64
	maxSteps       int
}

//DefaultSimulationConfig returns the configuration used by the historical program
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		timestep:       DefaultTimestep,
		tolerance:      DefaultTolerance,
		maxIterations:  DefaultMaxIterations,
		angleTolerance: DefaultAngleTolerance,
		maxSteps:       DefaultMaxSteps,
	}
}

//CreateSimulationConfig creates the configuration with the timestep (s), range tolerance (m)
//and iteration budget specified
func CreateSimulationConfig(timestep, tolerance float64, maxIterations int) (SimulationConfig, error) {
	c := DefaultSimulationConfig()
	c.timestep = timestep
	c.tolerance = tolerance
	c.maxIterations = maxIterations
	if err := c.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	return c, nil
}

//MustCreateSimulationConfig creates the configuration but panics instead of returning an error
func MustCreateSimulationConfig(timestep, tolerance float64, maxIterations int) SimulationConfig {
	c, err := CreateSimulationConfig(timestep, tolerance, maxIterations)
	if err != nil {
		panic(err)
	}
	return c
}

//Validate checks that every bound of the configuration is finite and positive
func (c SimulationConfig) Validate() error {
	if !(c.timestep > 0) || math.IsInf(c.timestep, 0) {
		return invalidInput("SimulationConfig", "timestep must be greater than zero")
	}
	if !(c.tolerance > 0) || math.IsInf(c.tolerance, 0) {
		return invalidInput("SimulationConfig", "tolerance must be greater than zero")
	}
	if c.maxIterations <= 0 {
		return invalidInput("SimulationConfig", "maximum iterations must be greater than zero")
	}
	if !(c.angleTolerance >= MinimumAngleTolerance) || c.angleTolerance >= 90 {
		return invalidInput("SimulationConfig", "angle tolerance must be between %g and 90 degrees", MinimumAngleTolerance)
	}
	if c.maxSteps <= 0 {
		return invalidInput("SimulationConfig", "maximum steps must be greater than zero")
	}
	return nil
}

//WithAngleTolerance returns a copy of the configuration with the angular tolerance (degrees) set
func (c SimulationConfig) WithAngleTolerance(tolerance float64) (SimulationConfig, error) {
	c.angleTolerance = tolerance
	if err := c.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	return c, nil
}

//WithMaxSteps returns a copy of the configuration with the integration step cap set
func (c SimulationConfig) WithMaxSteps(steps int) (SimulationConfig, error) {
	c.maxSteps = steps
	if err := c.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	return c, nil
}

//Timestep returns the integration step in seconds
func (c SimulationConfig) Timestep() float64 {
	return c.timestep
}

//Tolerance returns the range tolerance of the solvers in meters
func (c SimulationConfig) Tolerance() float64 {
	return c.tolerance
}

//MaxIterations returns the iteration budget of the solvers
func (c SimulationConfig) MaxIterations() int {
	return c.maxIterations
}

//AngleTolerance returns the angular tolerance in degrees
func (c SimulationConfig) AngleTolerance() float64 {
	return c.angleTolerance
}

//MaxSteps returns the cap of integration steps of one trajectory
func (c SimulationConfig) MaxSteps() int {
	return c.maxSteps
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
