package unit

//DistanceInch is the value indicating that the distance value is set in inches
const DistanceInch byte = 10

//DistanceFoot is the value indicating that the distance value is set in feet
const DistanceFoot byte = 11

//DistanceYard is the value indicating that the distance value is set in yards
const DistanceYard byte = 12

//DistanceMile is the value indicating that the distance value is set in miles
const DistanceMile byte = 13

//DistanceNauticalMile is the value indicating that the distance value is set in nautical miles
const DistanceNauticalMile byte = 14

//DistanceMillimeter is the value indicating that the distance value is set in millimeters
const DistanceMillimeter byte = 15

//DistanceCentimeter is the value indicating that the distance value is set in centimeters
const DistanceCentimeter byte = 16

//DistanceMeter is the value indicating that the distance value is set in meters
const DistanceMeter byte = 17

//DistanceKilometer is the value indicating that the distance value is set in kilometers
const DistanceKilometer byte = 18

var distances = quantity{
	name: "Distance",
	units: map[byte]unitInfo{
		DistanceInch:         {"in", 0.0254, 2, []string{"in", "inch", "\""}},
		DistanceFoot:         {"ft", 0.3048, 1, []string{"ft", "feet", "'"}},
		DistanceYard:         {"yd", 0.9144, 0, []string{"yd", "yard", "yards"}},
		DistanceMile:         {"mi", 1609.344, 3, []string{"mi", "mile", "miles"}},
		DistanceNauticalMile: {"nm", 1852, 3, []string{"nm", "nmi"}},
		DistanceMillimeter:   {"mm", 0.001, 1, []string{"mm"}},
		DistanceCentimeter:   {"cm", 0.01, 1, []string{"cm"}},
		DistanceMeter:        {"m", 1, 1, []string{"m"}},
		DistanceKilometer:    {"km", 1000, 3, []string{"km"}},
	},
}

//Distance structure keeps the distance value
type Distance struct {
	value        float64
	defaultUnits byte
}

//CreateDistance creates a distance value.
//
//units are measurement unit and may be any value from
//unit.Distance* constants.
func CreateDistance(value float64, units byte) (Distance, error) {
	v, err := distances.toBase(value, units)
	if err != nil {
		return Distance{}, err
	}
	return Distance{value: v, defaultUnits: units}, nil
}

//MustCreateDistance creates the distance value but panics instead of returned a error
func MustCreateDistance(value float64, units byte) Distance {
	v, err := CreateDistance(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//ParseDistance reads a distance like "16in" or "36.2km"; a plain number is taken in the default units
func ParseDistance(s string, defaultUnits byte) (Distance, error) {
	value, units, err := distances.parse(s, defaultUnits)
	if err != nil {
		return Distance{}, err
	}
	return CreateDistance(value, units)
}

//Value returns the value of the distance in the specified units.
//
//The method returns a error in case the unit is not supported.
func (v Distance) Value(units byte) (float64, error) {
	return distances.fromBase(v.value, units)
}

//Convert converts the value into the specified units.
func (v Distance) Convert(units byte) Distance {
	return Distance{value: v.value, defaultUnits: units}
}

//In converts the value in the specified units.
//Returns 0 if unit conversion is not possible.
func (v Distance) In(units byte) float64 {
	x, e := distances.fromBase(v.value, units)
	if e != nil {
		return 0
	}
	return x
}

func (v Distance) String() string {
	return distances.format(v.value, v.defaultUnits)
}

//Units return the units in which the value is measured
func (v Distance) Units() byte {
	return v.defaultUnits
}

//DistanceSymbol returns the symbol the distance units are printed with
func DistanceSymbol(units byte) string {
	return distances.symbol(units)
}
