package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/bmath/unit"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/config"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/report"
)

// pairFlag collects repeatable "a,b" pairs of numbers.
type pairFlag [][2]float64

func (p *pairFlag) String() string {
	parts := make([]string, len(*p))
	for i, v := range *p {
		parts[i] = fmt.Sprintf("%g,%g", v[0], v[1])
	}
	return strings.Join(parts, " ")
}

func (p *pairFlag) Set(s string) error {
	fields := strings.Split(s, ",")
	if len(fields) != 2 {
		return fmt.Errorf("%q: two comma separated numbers expected", s)
	}
	var pair [2]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return fmt.Errorf("%q: %q is not a number", s, f)
		}
		pair[i] = x
	}
	*p = append(*p, pair)
	return nil
}

// options are the flags every calculating subcommand shares. Scalar values are
// kept as text so they may carry a unit suffix.
type options struct {
	fs *flag.FlagSet

	configPath       string
	name             string
	mass             string
	caliber          string
	dragFunction     string
	dragFunctionFile string
	densityFunction  string
	formFactor       float64
	formFactors      pairFlag
	velocity         string
	altitude         string
	airDensityFactor float64
	departureAngle   string
	timestep         float64
	tolerance        float64
	maxIterations    int
	workers          int
	units            string
	verbose          bool
}

func newOptions(name string, output io.Writer) *options {
	o := &options{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	fs := o.fs
	fs.SetOutput(output)
	fs.StringVar(&o.configPath, "config", "", "projectile configuration file (INI, TOML or YAML)")
	fs.StringVar(&o.name, "name", "", "projectile name")
	fs.StringVar(&o.mass, "mass", "", "projectile mass, kg unless a unit is given (e.g. 2700lb)")
	fs.StringVar(&o.caliber, "caliber", "", "projectile caliber, mm unless a unit is given (e.g. 16in)")
	fs.StringVar(&o.dragFunction, "drag-function", "", "built-in drag function ("+strings.Join(eb.DragTableNames(), ", ")+")")
	fs.StringVar(&o.dragFunctionFile, "drag-function-file", "", "two column mach,kd drag function file")
	fs.StringVar(&o.densityFunction, "density-function", "", "atmosphere ("+strings.Join(eb.DensityFunctionNames(), ", ")+")")
	fs.Float64Var(&o.formFactor, "form-factor", 0, "constant form factor")
	fs.Var(&o.formFactors, "F", "form factor at a departure angle as angle,ff (repeatable)")
	fs.StringVar(&o.velocity, "mv", "", "muzzle velocity, m/s unless a unit is given (e.g. 2500fps)")
	fs.StringVar(&o.altitude, "altitude", "", "initial altitude, m unless a unit is given")
	fs.Float64Var(&o.airDensityFactor, "air-density-factor", 0, "air density factor")
	fs.StringVar(&o.departureAngle, "departure-angle", "", "departure angle, degrees unless a unit is given")
	fs.StringVar(&o.departureAngle, "a", "", "shorthand for -departure-angle")
	fs.Float64Var(&o.timestep, "timestep", 0, "integration step, s")
	fs.Float64Var(&o.tolerance, "tolerance", 0, "range tolerance of the solvers, m")
	fs.IntVar(&o.maxIterations, "max-iterations", 0, "iteration budget of the solvers")
	fs.IntVar(&o.workers, "workers", 1, "goroutines used for independent rows and shots")
	fs.StringVar(&o.units, "units", "metric", "units of the output (metric or imperial)")
	fs.BoolVar(&o.verbose, "verbose", false, "log solver progress")
	fs.BoolVar(&o.verbose, "v", false, "shorthand for -verbose")
	return o
}

func (o *options) parse(args []string) error {
	if err := o.fs.Parse(args); err != nil {
		return err
	}
	if o.fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(o.fs.Args(), " "))
	}
	return nil
}

// file returns the configuration file (or the defaults) with the flags set on the
// command line applied over it.
func (o *options) file() (config.File, error) {
	f := config.Defaults()
	if o.configPath != "" {
		var err error
		if f, err = config.Load(o.configPath); err != nil {
			return config.File{}, err
		}
	}

	var err error
	o.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "name":
			f.Name = o.name
		case "mass":
			f.Mass, err = parseWeight(o.mass)
		case "caliber":
			f.Caliber, err = parseCaliber(o.caliber)
		case "drag-function":
			f.DragFunction = o.dragFunction
			f.DragFunctionFile = ""
		case "drag-function-file":
			f.DragFunctionFile = o.dragFunctionFile
		case "density-function":
			f.DensityFunction = o.densityFunction
		case "form-factor":
			f.FormFactors = []eb.FormFactorPoint{{Angle: 45, FormFactor: o.formFactor}}
		case "F":
			f.FormFactors = nil
			for _, p := range o.formFactors {
				f.FormFactors = append(f.FormFactors, eb.FormFactorPoint{Angle: p[0], FormFactor: p[1]})
			}
			config.SortFormFactors(f.FormFactors)
		case "mv":
			f.Velocity, err = parseVelocity(o.velocity)
		case "altitude":
			f.Altitude, err = parseDistance(o.altitude)
		case "air-density-factor":
			f.AirDensityFactor = o.airDensityFactor
		case "departure-angle", "a":
			f.DepartureAngle, err = parseAngle(o.departureAngle)
		case "timestep":
			f.Timestep = o.timestep
		case "tolerance":
			f.Tolerance = o.tolerance
		case "max-iterations":
			f.MaxIterations = o.maxIterations
		}
		if err != nil {
			err = fmt.Errorf("-%s: %w", fl.Name, err)
		}
	})
	if err != nil {
		return config.File{}, err
	}
	if len(f.FormFactors) == 0 {
		f.FormFactors = []eb.FormFactorPoint{{Angle: 45, FormFactor: 1}}
	}
	return f, nil
}

func (o *options) reportUnits() (report.Units, error) {
	return report.ParseUnits(o.units)
}

func parseWeight(s string) (float64, error) {
	w, err := unit.ParseWeight(s, unit.WeightKilogram)
	if err != nil {
		return 0, err
	}
	return w.In(unit.WeightKilogram), nil
}

func parseCaliber(s string) (float64, error) {
	d, err := unit.ParseDistance(s, unit.DistanceMillimeter)
	if err != nil {
		return 0, err
	}
	return d.In(unit.DistanceMillimeter), nil
}

func parseDistance(s string) (float64, error) {
	d, err := unit.ParseDistance(s, unit.DistanceMeter)
	if err != nil {
		return 0, err
	}
	return d.In(unit.DistanceMeter), nil
}

func parseVelocity(s string) (float64, error) {
	v, err := unit.ParseVelocity(s, unit.VelocityMPS)
	if err != nil {
		return 0, err
	}
	return v.In(unit.VelocityMPS), nil
}

func parseAngle(s string) (float64, error) {
	a, err := unit.ParseAngular(s, unit.AngularDegree)
	if err != nil {
		return 0, err
	}
	return a.In(unit.AngularDegree), nil
}

// distanceFlag is a distance in meters which may be given with a unit suffix.
type distanceFlag float64

func (d *distanceFlag) String() string {
	return strconv.FormatFloat(float64(*d), 'g', -1, 64)
}

func (d *distanceFlag) Set(s string) error {
	x, err := parseDistance(s)
	if err != nil {
		return err
	}
	*d = distanceFlag(x)
	return nil
}

// distanceListFlag collects repeatable distances in meters.
type distanceListFlag []float64

func (l *distanceListFlag) String() string {
	parts := make([]string, len(*l))
	for i, x := range *l {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func (l *distanceListFlag) Set(s string) error {
	x, err := parseDistance(s)
	if err != nil {
		return err
	}
	*l = append(*l, x)
	return nil
}

// angleFlag is an angle in degrees which may be given with a unit suffix.
type angleFlag float64

func (a *angleFlag) String() string {
	return strconv.FormatFloat(float64(*a), 'g', -1, 64)
}

func (a *angleFlag) Set(s string) error {
	x, err := parseAngle(s)
	if err != nil {
		return err
	}
	*a = angleFlag(x)
	return nil
}
