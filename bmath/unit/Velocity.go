package unit

//VelocityMPS is the value indicating that the velocity value is set in meters per second
const VelocityMPS byte = 60

//VelocityKMH is the value indicating that the velocity value is set in kilometers per hour
const VelocityKMH byte = 61

//VelocityFPS is the value indicating that the velocity value is set in feet per second
const VelocityFPS byte = 62

//VelocityMPH is the value indicating that the velocity value is set in miles per hour
const VelocityMPH byte = 63

//VelocityKT is the value indicating that the velocity value is set in knots
const VelocityKT byte = 64

var velocities = quantity{
	name: "Velocity",
	units: map[byte]unitInfo{
		VelocityMPS: {"m/s", 1, 1, []string{"m/s", "mps"}},
		VelocityKMH: {"km/h", 1000.0 / 3600.0, 1, []string{"km/h", "kmh"}},
		VelocityFPS: {"ft/s", 0.3048, 1, []string{"ft/s", "fps"}},
		VelocityMPH: {"mph", 0.44704, 1, []string{"mph"}},
		VelocityKT:  {"kt", 1852.0 / 3600.0, 1, []string{"kt", "kn"}},
	},
}

//Velocity keeps the velocity value
type Velocity struct {
	value        float64
	defaultUnits byte
}

//CreateVelocity creates a velocity value.
//
//units are measurement unit and may be any value from
//unit.Velocity* constants.
func CreateVelocity(value float64, units byte) (Velocity, error) {
	v, err := velocities.toBase(value, units)
	if err != nil {
		return Velocity{}, err
	}
	return Velocity{value: v, defaultUnits: units}, nil
}

//MustCreateVelocity creates the velocity value but panics instead of returned a error
func MustCreateVelocity(value float64, units byte) Velocity {
	v, err := CreateVelocity(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//ParseVelocity reads a velocity like "2500fps"; a plain number is taken in the default units
func ParseVelocity(s string, defaultUnits byte) (Velocity, error) {
	value, units, err := velocities.parse(s, defaultUnits)
	if err != nil {
		return Velocity{}, err
	}
	return CreateVelocity(value, units)
}

//Value returns the value of the velocity in the specified units.
//
//The method returns a error in case the unit is not supported.
func (v Velocity) Value(units byte) (float64, error) {
	return velocities.fromBase(v.value, units)
}

//Convert converts the value into the specified units.
func (v Velocity) Convert(units byte) Velocity {
	return Velocity{value: v.value, defaultUnits: units}
}

//In converts the value in the specified units.
//Returns 0 if unit conversion is not possible.
func (v Velocity) In(units byte) float64 {
	x, e := velocities.fromBase(v.value, units)
	if e != nil {
		return 0
	}
	return x
}

func (v Velocity) String() string {
	return velocities.format(v.value, v.defaultUnits)
}

//Units return the units in which the value is measured
func (v Velocity) Units() byte {
	return v.defaultUnits
}
