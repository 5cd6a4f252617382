package unit

//EnergyFootPound is the value indicating that the energy value is set in foot-pounds
const EnergyFootPound byte = 30

//EnergyJoule is the value indicating that the energy value is set in joules
const EnergyJoule byte = 31

//EnergyMegajoule is the value indicating that the energy value is set in megajoules
const EnergyMegajoule byte = 32

var energies = quantity{
	name: "Energy",
	units: map[byte]unitInfo{
		EnergyFootPound: {"ft·lb", 1.3558179483314004, 0, []string{"ft-lb", "ftlb", "ft·lb"}},
		EnergyJoule:     {"J", 1, 0, []string{"j"}},
		EnergyMegajoule: {"MJ", 1e6, 2, []string{"mj"}},
	},
}

//Energy keeps the energy value
type Energy struct {
	value        float64
	defaultUnits byte
}

//CreateEnergy creates an energy value.
//
//units are measurement unit and may be any value from
//unit.Energy* constants.
func CreateEnergy(value float64, units byte) (Energy, error) {
	v, err := energies.toBase(value, units)
	if err != nil {
		return Energy{}, err
	}
	return Energy{value: v, defaultUnits: units}, nil
}

//MustCreateEnergy creates the energy value but panics instead of returned a error
func MustCreateEnergy(value float64, units byte) Energy {
	v, err := CreateEnergy(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//KineticEnergy returns the energy of the body of the weight moving with the velocity
func KineticEnergy(weight Weight, velocity Velocity, units byte) Energy {
	m := weight.In(WeightKilogram)
	v := velocity.In(VelocityMPS)
	return Energy{value: m * v * v / 2}.Convert(units)
}

//Value returns the value of the energy in the specified units.
//
//The method returns a error in case the unit is not supported.
func (v Energy) Value(units byte) (float64, error) {
	return energies.fromBase(v.value, units)
}

//Convert converts the value into the specified units.
func (v Energy) Convert(units byte) Energy {
	return Energy{value: v.value, defaultUnits: units}
}

//In converts the value in the specified units.
//Returns 0 if unit conversion is not possible.
func (v Energy) In(units byte) float64 {
	x, e := energies.fromBase(v.value, units)
	if e != nil {
		return 0
	}
	return x
}

func (v Energy) String() string {
	return energies.format(v.value, v.defaultUnits)
}

//Units return the units in which the value is measured
func (v Energy) Units() byte {
	return v.defaultUnits
}
