package api

import (
	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/config"
)

type dragPoint struct {
	Mach float64 `json:"mach"`
	KD   float64 `json:"kd"`
}

type formFactorPoint struct {
	Angle      float64 `json:"angle"`
	FormFactor float64 `json:"form_factor"`
}

// projectileRequest describes the projectile. A custom drag table takes precedence
// over the drag function name; a form factor list over the constant form factor.
type projectileRequest struct {
	Name             string            `json:"name"`
	Mass             float64           `json:"mass"`
	Caliber          float64           `json:"caliber"`
	DragFunction     string            `json:"drag_function"`
	DragTable        []dragPoint       `json:"drag_table"`
	DensityFunction  string            `json:"density_function"`
	FormFactor       float64           `json:"form_factor"`
	FormFactors      []formFactorPoint `json:"form_factors"`
	AirDensityFactor float64           `json:"air_density_factor"`
}

type conditionsRequest struct {
	Velocity       float64  `json:"velocity"`
	Altitude       *float64 `json:"altitude"`
	DepartureAngle float64  `json:"departure_angle"`
}

type simulationRequest struct {
	Timestep      float64 `json:"timestep"`
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
}

// shotRequest is the part every solver request shares.
type shotRequest struct {
	Projectile projectileRequest `json:"projectile"`
	Conditions conditionsRequest `json:"conditions"`
	Simulation simulationRequest `json:"simulation"`
}

type trajectoryRequest struct {
	shotRequest
	Path      bool `json:"path"`
	PathEvery int  `json:"path_every"`
}

type formFactorRequest struct {
	shotRequest
	Shots []eb.Shot `json:"shots"`
}

type matchRangeRequest struct {
	shotRequest
	Targets []float64 `json:"targets"`
	// Arc is "low" (default) or "high".
	Arc string `json:"arc"`
}

type rangeTableRequest struct {
	shotRequest
	// By is "range" (default) or "angle".
	By        string  `json:"by"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Increment float64 `json:"increment"`
}

func (p projectileRequest) dragTable() (eb.DragTable, error) {
	if len(p.DragTable) == 0 {
		name := p.DragFunction
		if name == "" {
			name = eb.DefaultDragFunction
		}
		return eb.DragTableByName(name)
	}
	points := make([]eb.DragPoint, len(p.DragTable))
	for i, dp := range p.DragTable {
		points[i] = eb.DragPoint{Mach: dp.Mach, KD: dp.KD}
	}
	name := p.DragFunction
	if name == "" {
		name = "custom"
	}
	return eb.CreateDragTable(name, points)
}

func (p projectileRequest) formFactors() (eb.FormFactorFunction, error) {
	if len(p.FormFactors) == 0 {
		ff := p.FormFactor
		if ff == 0 {
			ff = 1
		}
		return eb.CreateConstantFormFactor(ff)
	}
	points := make([]eb.FormFactorPoint, len(p.FormFactors))
	for i, fp := range p.FormFactors {
		points[i] = eb.FormFactorPoint{Angle: fp.Angle, FormFactor: fp.FormFactor}
	}
	config.SortFormFactors(points)
	return eb.CreateFormFactorFunction(points)
}

func (p projectileRequest) build() (eb.Projectile, error) {
	drag, err := p.dragTable()
	if err != nil {
		return eb.Projectile{}, err
	}
	density := eb.DefaultDensityFunction
	if p.DensityFunction != "" {
		if density, err = eb.ParseDensityFunction(p.DensityFunction); err != nil {
			return eb.Projectile{}, err
		}
	}
	ff, err := p.formFactors()
	if err != nil {
		return eb.Projectile{}, err
	}
	projectile, err := eb.CreateProjectile(p.Mass, p.Caliber, drag, density, ff)
	if err != nil {
		return eb.Projectile{}, err
	}
	if p.AirDensityFactor != 0 {
		if projectile, err = projectile.WithAirDensityFactor(p.AirDensityFactor); err != nil {
			return eb.Projectile{}, err
		}
	}
	return projectile.WithName(p.Name), nil
}

func (c conditionsRequest) build() (eb.InitialConditions, error) {
	ic, err := eb.CreateInitialConditions(c.Velocity)
	if err != nil {
		return eb.InitialConditions{}, err
	}
	if c.Altitude != nil {
		if ic, err = ic.WithAltitude(*c.Altitude); err != nil {
			return eb.InitialConditions{}, err
		}
	}
	if c.DepartureAngle != 0 {
		ic = ic.WithDepartureAngle(c.DepartureAngle)
	}
	return ic, nil
}

// build applies the defaults to the missing values and the server bounds to the result.
func (s simulationRequest) build(limits Limits) (eb.SimulationConfig, error) {
	d := eb.DefaultSimulationConfig()
	timestep, tolerance, iterations := s.Timestep, s.Tolerance, s.MaxIterations
	if timestep == 0 {
		timestep = d.Timestep()
	}
	if tolerance == 0 {
		tolerance = d.Tolerance()
	}
	if iterations == 0 {
		iterations = d.MaxIterations()
	}
	if timestep < limits.MinTimestep {
		return eb.SimulationConfig{}, &eb.InvalidInputError{Subject: "SimulationConfig", Reason: "timestep is below the limit of the server"}
	}
	if iterations > limits.MaxIterations {
		return eb.SimulationConfig{}, &eb.InvalidInputError{Subject: "SimulationConfig", Reason: "maximum iterations exceed the limit of the server"}
	}
	c, err := eb.CreateSimulationConfig(timestep, tolerance, iterations)
	if err != nil {
		return eb.SimulationConfig{}, err
	}
	return c.WithMaxSteps(limits.MaxSteps)
}

type shot struct {
	projectile eb.Projectile
	conditions eb.InitialConditions
	calculator eb.TrajectoryCalculator
}

func (s *Server) build(r shotRequest) (shot, error) {
	p, err := r.Projectile.build()
	if err != nil {
		return shot{}, err
	}
	ic, err := r.Conditions.build()
	if err != nil {
		return shot{}, err
	}
	c, err := r.Simulation.build(s.limits)
	if err != nil {
		return shot{}, err
	}
	calc, err := eb.CreateTrajectoryCalculator(c)
	if err != nil {
		return shot{}, err
	}
	return shot{
		projectile: p,
		conditions: ic,
		calculator: calc.WithLogger(s.logger).WithWorkers(s.limits.Workers),
	}, nil
}

type pathPoint struct {
	Time     float64 `json:"time"`
	Range    float64 `json:"range"`
	Altitude float64 `json:"altitude"`
	Velocity float64 `json:"velocity"`
	Angle    float64 `json:"angle"`
}

type trajectoryResponse struct {
	DepartureAngle   float64     `json:"departure_angle"`
	FormFactor       float64     `json:"form_factor"`
	Range            float64     `json:"range"`
	TimeOfFlight     float64     `json:"time_of_flight"`
	AngleOfFall      float64     `json:"angle_of_fall"`
	StrikingVelocity float64     `json:"striking_velocity"`
	MaxOrdinate      float64     `json:"max_ordinate"`
	Steps            int         `json:"steps"`
	Path             []pathPoint `json:"path,omitempty"`
}

func newTrajectoryResponse(r eb.TrajectoryResult, every int) trajectoryResponse {
	resp := trajectoryResponse{
		DepartureAngle:   r.DepartureAngle(),
		FormFactor:       r.FormFactor(),
		Range:            r.Range(),
		TimeOfFlight:     r.TimeOfFlight(),
		AngleOfFall:      r.ImpactAngle(),
		StrikingVelocity: r.ImpactVelocity(),
		MaxOrdinate:      r.MaxOrdinate(),
		Steps:            r.Steps(),
	}
	if every < 1 {
		every = 1
	}
	path := r.Path()
	for i, st := range path {
		if i%every != 0 && i != len(path)-1 {
			continue
		}
		resp.Path = append(resp.Path, pathPoint{
			Time:     st.Time(),
			Range:    st.Range(),
			Altitude: st.Altitude(),
			Velocity: st.Speed(),
			Angle:    st.Angle(),
		})
	}
	return resp
}

type maxRangeResponse struct {
	Range       float64            `json:"range"`
	Angle       float64            `json:"angle"`
	Evaluations int                `json:"evaluations"`
	Trajectory  trajectoryResponse `json:"trajectory"`
}

func newMaxRangeResponse(m eb.MaxRangeResult) maxRangeResponse {
	return maxRangeResponse{
		Range:       m.Range,
		Angle:       m.Angle,
		Evaluations: m.Evaluations,
		Trajectory:  newTrajectoryResponse(m.Trajectory, 1),
	}
}

type matchResponse struct {
	TargetRange float64            `json:"target_range"`
	Iterations  int                `json:"iterations"`
	Trajectory  trajectoryResponse `json:"trajectory"`
}

type matchRangeResponse struct {
	MaxRange maxRangeResponse `json:"max_range"`
	Matches  []matchResponse  `json:"matches"`
}

type formFactorResponse struct {
	Solutions   []eb.FormFactorSolution `json:"solutions"`
	FormFactors []formFactorPoint       `json:"form_factors"`
}

type rangeTableResponse struct {
	Rows []eb.RangeTableRow `json:"rows"`
}

type dragFunctionResponse struct {
	Name    string  `json:"name"`
	Points  int     `json:"points"`
	MinMach float64 `json:"min_mach"`
	MaxMach float64 `json:"max_mach"`
}
