package unit

//WeightGrain is the value indicating that the weight value is set in grains
const WeightGrain byte = 70

//WeightOunce is the value indicating that the weight value is set in ounces
const WeightOunce byte = 71

//WeightGram is the value indicating that the weight value is set in grams
const WeightGram byte = 72

//WeightPound is the value indicating that the weight value is set in pounds
const WeightPound byte = 73

//WeightKilogram is the value indicating that the weight value is set in kilograms
const WeightKilogram byte = 74

var weights = quantity{
	name: "Weight",
	units: map[byte]unitInfo{
		WeightGrain:    {"gr", 0.00006479891, 1, []string{"gr", "grain", "grains"}},
		WeightOunce:    {"oz", 0.028349523125, 2, []string{"oz"}},
		WeightGram:     {"g", 0.001, 1, []string{"g"}},
		WeightPound:    {"lb", 0.45359237, 1, []string{"lb", "lbs"}},
		WeightKilogram: {"kg", 1, 3, []string{"kg"}},
	},
}

//Weight keeps the weight (mass) value
type Weight struct {
	value        float64
	defaultUnits byte
}

//CreateWeight creates a weight value.
//
//units are measurement unit and may be any value from
//unit.Weight* constants.
func CreateWeight(value float64, units byte) (Weight, error) {
	v, err := weights.toBase(value, units)
	if err != nil {
		return Weight{}, err
	}
	return Weight{value: v, defaultUnits: units}, nil
}

//MustCreateWeight creates the weight value but panics instead of returned a error
func MustCreateWeight(value float64, units byte) Weight {
	v, err := CreateWeight(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//ParseWeight reads a weight like "2100lb"; a plain number is taken in the default units
func ParseWeight(s string, defaultUnits byte) (Weight, error) {
	value, units, err := weights.parse(s, defaultUnits)
	if err != nil {
		return Weight{}, err
	}
	return CreateWeight(value, units)
}

//Value returns the value of the weight in the specified units.
//
//The method returns a error in case the unit is not supported.
func (v Weight) Value(units byte) (float64, error) {
	return weights.fromBase(v.value, units)
}

//Convert converts the value into the specified units.
func (v Weight) Convert(units byte) Weight {
	return Weight{value: v.value, defaultUnits: units}
}

//In converts the value in the specified units.
//Returns 0 if unit conversion is not possible.
func (v Weight) In(units byte) float64 {
	x, e := weights.fromBase(v.value, units)
	if e != nil {
		return 0
	}
	return x
}

func (v Weight) String() string {
	return weights.format(v.value, v.defaultUnits)
}

//Units return the units in which the value is measured
func (v Weight) Units() byte {
	return v.defaultUnits
}
