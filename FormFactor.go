package go_exteriorballistics

import (
	"gonum.org/v1/gonum/interp"
)

//FormFactorPoint is a form factor measured (or fitted) at a departure angle in degrees
type FormFactorPoint struct {
	Angle      float64
	FormFactor float64
}

//FormFactorFunction maps the departure angle to the form factor of the projectile.
//
//With a single point the function is constant. With more points the value is
//interpolated linearly and clamped to the endpoints outside of the angle range.
type FormFactorFunction struct {
	points []FormFactorPoint
	curve  *interp.PiecewiseLinear
}

//CreateFormFactorFunction creates the function from points ordered by strictly increasing angle
func CreateFormFactorFunction(points []FormFactorPoint) (FormFactorFunction, error) {
	if len(points) < 1 {
		return FormFactorFunction{}, invalidInput("FormFactor", "at least one form factor is required")
	}
	angles := make([]float64, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		if !isFinite(p.Angle) || !isFinite(p.FormFactor) {
			return FormFactorFunction{}, invalidInput("FormFactor", "point %d is not a finite number", i)
		}
		if p.FormFactor <= 0 {
			return FormFactorFunction{}, invalidInput("FormFactor", "form factor at %g deg must be greater than zero", p.Angle)
		}
		if i > 0 && p.Angle <= points[i-1].Angle {
			return FormFactorFunction{}, invalidInput("FormFactor", "departure angles must be strictly increasing (%g after %g)", p.Angle, points[i-1].Angle)
		}
		angles[i] = p.Angle
		values[i] = p.FormFactor
	}

	copied := make([]FormFactorPoint, len(points))
	copy(copied, points)
	f := FormFactorFunction{points: copied}
	if len(points) > 1 {
		f.curve = &interp.PiecewiseLinear{}
		if err := f.curve.Fit(angles, values); err != nil {
			return FormFactorFunction{}, invalidInput("FormFactor", "%s", err)
		}
	}
	return f, nil
}

//CreateConstantFormFactor creates the function which returns the same form factor at every angle
func CreateConstantFormFactor(formFactor float64) (FormFactorFunction, error) {
	return CreateFormFactorFunction([]FormFactorPoint{{Angle: 45, FormFactor: formFactor}})
}

//MustCreateFormFactorFunction creates the function but panics instead of returning an error
func MustCreateFormFactorFunction(points []FormFactorPoint) FormFactorFunction {
	f, err := CreateFormFactorFunction(points)
	if err != nil {
		panic(err)
	}
	return f
}

//MustCreateConstantFormFactor creates a constant function but panics instead of returning an error
func MustCreateConstantFormFactor(formFactor float64) FormFactorFunction {
	f, err := CreateConstantFormFactor(formFactor)
	if err != nil {
		panic(err)
	}
	return f
}

//Lookup returns the form factor at the departure angle in degrees
func (f FormFactorFunction) Lookup(angle float64) float64 {
	if f.curve == nil {
		return f.points[0].FormFactor
	}
	return f.curve.Predict(angle)
}

//Points returns a copy of the points of the function
func (f FormFactorFunction) Points() []FormFactorPoint {
	copied := make([]FormFactorPoint, len(f.points))
	copy(copied, f.points)
	return copied
}

//IsConstant returns the flag indicating whether the function has only one point
func (f FormFactorFunction) IsConstant() bool {
	return len(f.points) == 1
}

func (f FormFactorFunction) isValid() bool {
	return len(f.points) > 0
}
