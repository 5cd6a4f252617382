// Package report renders trajectories, solver results and range tables as text
// and plots.
package report

import (
	"fmt"
	"strings"

	"github.com/gehtsoft-usa/go_exteriorballistics/bmath/unit"
)

// Units selects the measurement units values are printed in.
type Units struct {
	Name     string
	Range    byte
	Ordinate byte
	Caliber  byte
	Weight   byte
	Velocity byte
	Energy   byte
}

// Metric prints ranges and ordinates in meters, velocities in m/s and energies in megajoules.
var Metric = Units{
	Name:     "metric",
	Range:    unit.DistanceMeter,
	Ordinate: unit.DistanceMeter,
	Caliber:  unit.DistanceMillimeter,
	Weight:   unit.WeightKilogram,
	Velocity: unit.VelocityMPS,
	Energy:   unit.EnergyMegajoule,
}

// Imperial prints ranges in yards, ordinates in feet, velocities in ft/s and energies in foot-pounds.
var Imperial = Units{
	Name:     "imperial",
	Range:    unit.DistanceYard,
	Ordinate: unit.DistanceFoot,
	Caliber:  unit.DistanceInch,
	Weight:   unit.WeightPound,
	Velocity: unit.VelocityFPS,
	Energy:   unit.EnergyFootPound,
}

// ParseUnits returns the unit system with the name specified.
func ParseUnits(name string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "metric", "si":
		return Metric, nil
	case "imperial", "us":
		return Imperial, nil
	default:
		return Units{}, fmt.Errorf("unknown unit system %q (metric or imperial expected)", name)
	}
}

// The core works in SI units; these helpers wrap the raw values for printing.

func (u Units) rangeOf(meters float64) unit.Distance {
	return unit.MustCreateDistance(meters, unit.DistanceMeter).Convert(u.Range)
}

func (u Units) ordinateOf(meters float64) unit.Distance {
	return unit.MustCreateDistance(meters, unit.DistanceMeter).Convert(u.Ordinate)
}

func (u Units) caliberOf(millimeters float64) unit.Distance {
	return unit.MustCreateDistance(millimeters, unit.DistanceMillimeter).Convert(u.Caliber)
}

func (u Units) weightOf(kilograms float64) unit.Weight {
	return unit.MustCreateWeight(kilograms, unit.WeightKilogram).Convert(u.Weight)
}

func (u Units) velocityOf(mps float64) unit.Velocity {
	return unit.MustCreateVelocity(mps, unit.VelocityMPS).Convert(u.Velocity)
}

func (u Units) energyOf(kilograms, mps float64) unit.Energy {
	return unit.KineticEnergy(unit.MustCreateWeight(kilograms, unit.WeightKilogram),
		unit.MustCreateVelocity(mps, unit.VelocityMPS), u.Energy)
}

func angleOf(degrees float64) unit.Angular {
	return unit.MustCreateAngular(degrees, unit.AngularDegree)
}
