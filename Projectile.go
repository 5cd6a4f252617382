package go_exteriorballistics

import "math"

//DefaultAltitude is the initial altitude used when none is set.
//
//It is kept slightly above zero so the first step is always taken.
const DefaultAltitude float64 = 0.0001

//Projectile keeps description of a projectile
type Projectile struct {
	name             string
	mass             float64
	caliber          float64
	drag             DragTable
	density          DensityFunction
	formFactors      FormFactorFunction
	airDensityFactor float64
}

//CreateProjectile creates the description of a projectile.
//
//mass is in kilograms and caliber in millimeters. The air density factor is set to 1.
func CreateProjectile(mass, caliber float64, drag DragTable, density DensityFunction, formFactors FormFactorFunction) (Projectile, error) {
	p := Projectile{
		mass:             mass,
		caliber:          caliber,
		drag:             drag,
		density:          density,
		formFactors:      formFactors,
		airDensityFactor: 1.0,
	}
	if err := p.Validate(); err != nil {
		return Projectile{}, err
	}
	return p, nil
}

//MustCreateProjectile creates the projectile but panics instead of returning an error
func MustCreateProjectile(mass, caliber float64, drag DragTable, density DensityFunction, formFactors FormFactorFunction) Projectile {
	p, err := CreateProjectile(mass, caliber, drag, density, formFactors)
	if err != nil {
		panic(err)
	}
	return p
}

//Validate checks that the projectile describes a physical body
func (v Projectile) Validate() error {
	if !(v.mass > 0) || math.IsInf(v.mass, 0) {
		return invalidInput("Projectile", "mass must be greater than zero")
	}
	if !(v.caliber > 0) || math.IsInf(v.caliber, 0) {
		return invalidInput("Projectile", "caliber must be greater than zero")
	}
	if !(v.airDensityFactor > 0) || math.IsInf(v.airDensityFactor, 0) {
		return invalidInput("Projectile", "air density factor must be greater than zero")
	}
	if !v.drag.isValid() {
		return invalidInput("Projectile", "drag function is not set")
	}
	if !v.density.IsValid() {
		return invalidInput("Projectile", "density function is not set")
	}
	if !v.formFactors.isValid() {
		return invalidInput("Projectile", "form factor is not set")
	}
	return nil
}

//WithName returns a copy of the projectile with the name set
func (v Projectile) WithName(name string) Projectile {
	v.name = name
	return v
}

//WithAirDensityFactor returns a copy of the projectile using the air density factor specified
func (v Projectile) WithAirDensityFactor(factor float64) (Projectile, error) {
	v.airDensityFactor = factor
	if err := v.Validate(); err != nil {
		return Projectile{}, err
	}
	return v, nil
}

//WithFormFactors returns a copy of the projectile with other form factors
func (v Projectile) WithFormFactors(formFactors FormFactorFunction) Projectile {
	v.formFactors = formFactors
	return v
}

//withFormFactor returns a copy of the projectile with a constant form factor
func (v Projectile) withFormFactor(formFactor float64) Projectile {
	v.formFactors = FormFactorFunction{points: []FormFactorPoint{{Angle: 45, FormFactor: formFactor}}}
	return v
}

//Name returns the name of the projectile
func (v Projectile) Name() string {
	return v.name
}

//Mass returns the mass of the projectile in kilograms
func (v Projectile) Mass() float64 {
	return v.mass
}

//Caliber returns the caliber of the projectile in millimeters
func (v Projectile) Caliber() float64 {
	return v.caliber
}

//DragTable returns the drag function of the projectile
func (v Projectile) DragTable() DragTable {
	return v.drag
}

//DensityFunction returns the atmosphere used with the projectile
func (v Projectile) DensityFunction() DensityFunction {
	return v.density
}

//FormFactors returns the form factor function of the projectile
func (v Projectile) FormFactors() FormFactorFunction {
	return v.formFactors
}

//AirDensityFactor returns the scaling factor applied to the air density
func (v Projectile) AirDensityFactor() float64 {
	return v.airDensityFactor
}

//BallisticCoefficient returns C = mass / (caliber^2 * formFactor) with caliber in centimeters
func (v Projectile) BallisticCoefficient(formFactor float64) float64 {
	d := v.caliber / 10.0
	return v.mass / (formFactor * d * d)
}

//InitialConditions keeps the conditions of the shot at the muzzle
type InitialConditions struct {
	velocity          float64
	altitude          float64
	departureAngle    float64
	hasDepartureAngle bool
}

//CreateInitialConditions creates the conditions for the muzzle velocity (m/s) specified
func CreateInitialConditions(velocity float64) (InitialConditions, error) {
	ic := InitialConditions{velocity: velocity, altitude: DefaultAltitude}
	if err := ic.Validate(false); err != nil {
		return InitialConditions{}, err
	}
	return ic, nil
}

//CreateInitialConditionsWithAngle creates the conditions for the velocity and departure angle (degrees) specified
func CreateInitialConditionsWithAngle(velocity, departureAngle float64) (InitialConditions, error) {
	ic := InitialConditions{velocity: velocity, altitude: DefaultAltitude, departureAngle: departureAngle, hasDepartureAngle: true}
	if err := ic.Validate(true); err != nil {
		return InitialConditions{}, err
	}
	return ic, nil
}

//MustCreateInitialConditions creates the conditions but panics instead of returning an error
func MustCreateInitialConditions(velocity float64) InitialConditions {
	ic, err := CreateInitialConditions(velocity)
	if err != nil {
		panic(err)
	}
	return ic
}

//MustCreateInitialConditionsWithAngle creates the conditions but panics instead of returning an error
func MustCreateInitialConditionsWithAngle(velocity, departureAngle float64) InitialConditions {
	ic, err := CreateInitialConditionsWithAngle(velocity, departureAngle)
	if err != nil {
		panic(err)
	}
	return ic
}

//Validate checks the conditions; the departure angle is checked only when it is required
func (v InitialConditions) Validate(angleRequired bool) error {
	if !(v.velocity > 0) || math.IsInf(v.velocity, 0) {
		return invalidInput("InitialConditions", "velocity must be greater than zero")
	}
	if !(v.altitude >= 0) || math.IsInf(v.altitude, 0) {
		return invalidInput("InitialConditions", "altitude must not be negative")
	}
	if angleRequired {
		if !v.hasDepartureAngle {
			return invalidInput("InitialConditions", "departure angle is required")
		}
		if err := validateAngle("InitialConditions", v.departureAngle); err != nil {
			return err
		}
	}
	return nil
}

func validateAngle(subject string, angle float64) error {
	if !(angle > 0 && angle < 90) {
		return invalidInput(subject, "departure angle must be between 0 and 90 degrees, got %g", angle)
	}
	return nil
}

//WithAltitude returns a copy of the conditions with the initial altitude (m) set
func (v InitialConditions) WithAltitude(altitude float64) (InitialConditions, error) {
	v.altitude = altitude
	if err := v.Validate(false); err != nil {
		return InitialConditions{}, err
	}
	return v, nil
}

//WithDepartureAngle returns a copy of the conditions with the departure angle (degrees) set
func (v InitialConditions) WithDepartureAngle(angle float64) InitialConditions {
	v.departureAngle = angle
	v.hasDepartureAngle = true
	return v
}

//WithoutDepartureAngle returns a copy of the conditions with no departure angle
func (v InitialConditions) WithoutDepartureAngle() InitialConditions {
	v.departureAngle = 0
	v.hasDepartureAngle = false
	return v
}

//Velocity returns the muzzle velocity in m/s
func (v InitialConditions) Velocity() float64 {
	return v.velocity
}

//Altitude returns the initial altitude in meters
func (v InitialConditions) Altitude() float64 {
	return v.altitude
}

//DepartureAngle returns the departure angle in degrees
func (v InitialConditions) DepartureAngle() float64 {
	return v.departureAngle
}

//HasDepartureAngle returns the flag indicating whether the departure angle is set
func (v InitialConditions) HasDepartureAngle() bool {
	return v.hasDepartureAngle
}
