package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
)

// LoadDragTable reads a two column "mach,kd" drag function file.
// The table is named after the file.
func LoadDragTable(path string) (eb.DragTable, error) {
	fp, err := os.Open(path)
	if err != nil {
		return eb.DragTable{}, fmt.Errorf("unable to load drag function %s: %w", path, err)
	}
	defer fp.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	table, err := eb.ParseDragTable(name, fp)
	if err != nil {
		return eb.DragTable{}, fmt.Errorf("drag function %s: %w", path, err)
	}
	return table, nil
}

// DragTable returns the drag function of the configuration: the file if one is set,
// the built-in function otherwise. Relative file names are resolved against the
// directory of the configuration file.
func (f File) DragTable() (eb.DragTable, error) {
	if f.DragFunctionFile == "" {
		return eb.DragTableByName(f.DragFunction)
	}
	path := f.DragFunctionFile
	if !filepath.IsAbs(path) && f.dir != "" {
		path = filepath.Join(f.dir, path)
	}
	return LoadDragTable(path)
}

// FormFactorFunction returns the form factors of the configuration.
func (f File) FormFactorFunction() (eb.FormFactorFunction, error) {
	points := append([]eb.FormFactorPoint(nil), f.FormFactors...)
	SortFormFactors(points)
	return eb.CreateFormFactorFunction(points)
}

// Projectile builds the projectile described by the configuration.
func (f File) Projectile() (eb.Projectile, error) {
	drag, err := f.DragTable()
	if err != nil {
		return eb.Projectile{}, err
	}
	density, err := eb.ParseDensityFunction(f.DensityFunction)
	if err != nil {
		return eb.Projectile{}, err
	}
	ff, err := f.FormFactorFunction()
	if err != nil {
		return eb.Projectile{}, err
	}
	p, err := eb.CreateProjectile(f.Mass, f.Caliber, drag, density, ff)
	if err != nil {
		return eb.Projectile{}, err
	}
	if p, err = p.WithAirDensityFactor(f.AirDensityFactor); err != nil {
		return eb.Projectile{}, err
	}
	return p.WithName(f.Name), nil
}

// ProjectileWithoutFormFactors builds the projectile for the form factor solver,
// which ignores the configured form factors.
func (f File) ProjectileWithoutFormFactors() (eb.Projectile, error) {
	f.FormFactors = []eb.FormFactorPoint{{Angle: 45, FormFactor: 1}}
	return f.Projectile()
}

// InitialConditions builds the conditions of the shot. The departure angle is set
// only if the configuration has one.
func (f File) InitialConditions() (eb.InitialConditions, error) {
	ic, err := eb.CreateInitialConditions(f.Velocity)
	if err != nil {
		return eb.InitialConditions{}, err
	}
	if ic, err = ic.WithAltitude(f.Altitude); err != nil {
		return eb.InitialConditions{}, err
	}
	if f.DepartureAngle != 0 {
		ic = ic.WithDepartureAngle(f.DepartureAngle)
	}
	return ic, nil
}

// SimulationConfig builds the parameters of the numeric methods.
func (f File) SimulationConfig() (eb.SimulationConfig, error) {
	return eb.CreateSimulationConfig(f.Timestep, f.Tolerance, f.MaxIterations)
}
