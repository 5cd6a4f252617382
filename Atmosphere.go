package go_exteriorballistics

import (
	"math"
	"strings"
)

const cSurfaceDensity float64 = 1.2250          // kg/m^3
const cSurfaceGravity float64 = 9.80665         // m/s^2
const cGravityGradient float64 = 0.000003665    // m/s^2 per m
const cSurfaceSpeedOfSound float64 = 344.0      // m/s
const cSpeedOfSoundGradient float64 = 0.004     // m/s per m
const cMinimumSpeedOfSound float64 = 1.0        // keeps Mach finite far outside the model
const cICAOZ4 float64 = 1.34279408e-18
const cICAOZ3 float64 = -9.87941429e-14
const cICAOZ2 float64 = 3.90848966e-9
const cICAOZ1 float64 = -9.69888125e-5

//DensityFunction selects one of the historical standard atmospheres
type DensityFunction byte

//DensityUS is the US standard density function
const DensityUS DensityFunction = 1

//DensityUK is the British standard density function
const DensityUK DensityFunction = 2

//DensityICAO is the ICAO standard atmosphere
const DensityICAO DensityFunction = 3

//DefaultDensityFunction is used when no density function is configured
const DefaultDensityFunction = DensityUS

var densityFunctionNames = map[DensityFunction]string{
	DensityUS:   "US",
	DensityUK:   "UK",
	DensityICAO: "ICAO",
}

//ParseDensityFunction returns the density function with the name specified
func ParseDensityFunction(name string) (DensityFunction, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for df, n := range densityFunctionNames {
		if n == name {
			return df, nil
		}
	}
	return 0, invalidInput("DensityFunction", "unknown density function %q", name)
}

//DensityFunctionNames returns the names of all supported density functions
func DensityFunctionNames() []string {
	return []string{"US", "UK", "ICAO"}
}

//IsValid returns the flag indicating whether the value is one of the supported atmospheres
func (d DensityFunction) IsValid() bool {
	_, ok := densityFunctionNames[d]
	return ok
}

func (d DensityFunction) String() string {
	if n, ok := densityFunctionNames[d]; ok {
		return n
	}
	return "?"
}

//DensityRatio returns the air density at the altitude (m) relative to the surface density
func (d DensityFunction) DensityRatio(altitude float64) float64 {
	switch d {
	case DensityUS:
		return math.Pow(10, -0.000045*altitude)
	case DensityUK:
		return math.Pow(0.1, 0.141*(altitude/3048.0))
	case DensityICAO:
		r := cICAOZ4*math.Pow(altitude, 4) + cICAOZ3*math.Pow(altitude, 3) +
			cICAOZ2*altitude*altitude + cICAOZ1*altitude + 1
		return math.Max(r, 0)
	default:
		return 1
	}
}

//Density returns the air density at the altitude in kg/m^3
func (d DensityFunction) Density(altitude float64) float64 {
	return cSurfaceDensity * d.DensityRatio(altitude)
}

//SpeedOfSound returns the speed of sound at the altitude in m/s.
//
//All historical standards share the same linear model.
func (d DensityFunction) SpeedOfSound(altitude float64) float64 {
	return math.Max(cSurfaceSpeedOfSound-cSpeedOfSoundGradient*altitude, cMinimumSpeedOfSound)
}

//Gravity returns the gravity acceleration at the altitude in m/s^2
func Gravity(altitude float64) float64 {
	return cSurfaceGravity - cGravityGradient*altitude
}
