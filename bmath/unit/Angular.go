package unit

import "math"

//AngularRadian is the value indicating that the angular value is set in radians
const AngularRadian byte = 0

//AngularDegree is the value indicating that the angular value is set in degrees
const AngularDegree byte = 1

//AngularMOA is the value indicating that the angular value is set in minutes of angle
const AngularMOA byte = 2

//AngularMil is the value indicating that the angular value is set in NATO mils (1/6400 of the circle)
const AngularMil byte = 3

//AngularMRad is the value indicating that the angular value is set in milliradians
const AngularMRad byte = 4

var angulars = quantity{
	name: "Angular",
	units: map[byte]unitInfo{
		AngularRadian: {"rad", 1, 6, []string{"rad"}},
		AngularDegree: {"°", math.Pi / 180, 4, []string{"deg", "°", "d"}},
		AngularMOA:    {"moa", math.Pi / 180 / 60, 2, []string{"moa"}},
		AngularMil:    {"mil", math.Pi / 3200, 2, []string{"mil"}},
		AngularMRad:   {"mrad", 0.001, 2, []string{"mrad"}},
	},
}

//Angular keeps the angular value
type Angular struct {
	value        float64
	defaultUnits byte
}

//CreateAngular creates an angular value.
//
//units are measurement unit and may be any value from
//unit.Angular* constants.
func CreateAngular(value float64, units byte) (Angular, error) {
	v, err := angulars.toBase(value, units)
	if err != nil {
		return Angular{}, err
	}
	return Angular{value: v, defaultUnits: units}, nil
}

//MustCreateAngular creates the angular value but panics instead of returned a error
func MustCreateAngular(value float64, units byte) Angular {
	v, err := CreateAngular(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//ParseAngular reads an angle like "45.2deg" or "800mil"; a plain number is taken in the default units
func ParseAngular(s string, defaultUnits byte) (Angular, error) {
	value, units, err := angulars.parse(s, defaultUnits)
	if err != nil {
		return Angular{}, err
	}
	return CreateAngular(value, units)
}

//Value returns the value of the angle in the specified units.
//
//The method returns a error in case the unit is not supported.
func (v Angular) Value(units byte) (float64, error) {
	return angulars.fromBase(v.value, units)
}

//Convert converts the value into the specified units.
func (v Angular) Convert(units byte) Angular {
	return Angular{value: v.value, defaultUnits: units}
}

//In converts the value in the specified units.
//Returns 0 if unit conversion is not possible.
func (v Angular) In(units byte) float64 {
	x, e := angulars.fromBase(v.value, units)
	if e != nil {
		return 0
	}
	return x
}

func (v Angular) String() string {
	return angulars.format(v.value, v.defaultUnits)
}

//Units return the units in which the value is measured
func (v Angular) Units() byte {
	return v.defaultUnits
}
