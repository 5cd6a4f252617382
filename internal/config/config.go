// Package config reads and writes projectile configuration files.
//
// The files keep the layout of the historical INI files: the sections
// projectile, form_factor, initial_conditions and simulation. TOML and YAML
// files with the same layout are accepted as well.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
)

// keyDelimiter separates sections from keys. The form factor keys are
// departure angles which contain dots.
const keyDelimiter = "::"

// EnvPrefix is the prefix of the environment variables which override file values,
// e.g. MEB_INITIAL_CONDITIONS_MV.
const EnvPrefix = "MEB"

const (
	keyName             = "projectile" + keyDelimiter + "name"
	keyMass             = "projectile" + keyDelimiter + "mass"
	keyCaliber          = "projectile" + keyDelimiter + "caliber"
	keyDragFunction     = "projectile" + keyDelimiter + "drag_function"
	keyDragFunctionFile = "projectile" + keyDelimiter + "drag_function_file"
	keyDensityFunction  = "projectile" + keyDelimiter + "density_function"
	keyFormFactor       = "form_factor"
	keyAltitude         = "initial_conditions" + keyDelimiter + "altitude"
	keyVelocity         = "initial_conditions" + keyDelimiter + "mv"
	keyAirDensityFactor = "initial_conditions" + keyDelimiter + "air_density_factor"
	keyDepartureAngle   = "initial_conditions" + keyDelimiter + "departure_angle"
	keyTimestep         = "simulation" + keyDelimiter + "timestep"
	keyTolerance        = "simulation" + keyDelimiter + "tolerance"
	keyMaxIterations    = "simulation" + keyDelimiter + "max_iterations"
)

// File is the content of a projectile configuration file.
//
// Units are SI: kilograms, millimeters for the caliber, meters, m/s, degrees, seconds.
// A zero DepartureAngle means no angle is configured.
type File struct {
	Name             string
	Mass             float64
	Caliber          float64
	DragFunction     string
	DragFunctionFile string
	DensityFunction  string
	FormFactors      []eb.FormFactorPoint

	Altitude         float64
	Velocity         float64
	AirDensityFactor float64
	DepartureAngle   float64

	Timestep      float64
	Tolerance     float64
	MaxIterations int

	// dir is the directory of the file, relative drag function files are resolved against it
	dir string
}

// Defaults returns the configuration used when no file is given.
func Defaults() File {
	return File{
		DragFunction:     eb.DefaultDragFunction,
		DensityFunction:  eb.DefaultDensityFunction.String(),
		Altitude:         eb.DefaultAltitude,
		AirDensityFactor: 1.0,
		Timestep:         eb.DefaultTimestep,
		Tolerance:        eb.DefaultTolerance,
		MaxIterations:    eb.DefaultMaxIterations,
	}
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	d := Defaults()
	v.SetDefault(keyDragFunction, d.DragFunction)
	v.SetDefault(keyDensityFunction, d.DensityFunction)
	v.SetDefault(keyAltitude, d.Altitude)
	v.SetDefault(keyAirDensityFactor, d.AirDensityFactor)
	v.SetDefault(keyTimestep, d.Timestep)
	v.SetDefault(keyTolerance, d.Tolerance)
	v.SetDefault(keyMaxIterations, d.MaxIterations)
	return v
}

// configType returns the viper format for the file name; anything which is not
// TOML, YAML or JSON is read as INI.
func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "ini"
	}
}

// Load reads the configuration file. Missing values take the defaults and
// MEB_* environment variables override the values of the file.
func Load(path string) (File, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return File{}, fmt.Errorf("unable to load config file %s: %w", path, err)
	}

	f, err := fromViper(v)
	if err != nil {
		return File{}, fmt.Errorf("config file %s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Read reads the configuration in the format specified ("ini", "toml", "yaml" or "json").
func Read(r io.Reader, format string) (File, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return File{}, fmt.Errorf("unable to read config: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (File, error) {
	f := File{
		Name:             v.GetString(keyName),
		Mass:             v.GetFloat64(keyMass),
		Caliber:          v.GetFloat64(keyCaliber),
		DragFunction:     v.GetString(keyDragFunction),
		DragFunctionFile: v.GetString(keyDragFunctionFile),
		DensityFunction:  v.GetString(keyDensityFunction),
		Altitude:         v.GetFloat64(keyAltitude),
		Velocity:         v.GetFloat64(keyVelocity),
		AirDensityFactor: v.GetFloat64(keyAirDensityFactor),
		DepartureAngle:   v.GetFloat64(keyDepartureAngle),
		Timestep:         v.GetFloat64(keyTimestep),
		Tolerance:        v.GetFloat64(keyTolerance),
		MaxIterations:    v.GetInt(keyMaxIterations),
	}

	for angle, ff := range v.GetStringMapString(keyFormFactor) {
		a, err := strconv.ParseFloat(strings.TrimSpace(angle), 64)
		if err != nil {
			return File{}, fmt.Errorf("form_factor: %q is not a departure angle", angle)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(ff), 64)
		if err != nil {
			return File{}, fmt.Errorf("form_factor: %q is not a form factor", ff)
		}
		f.FormFactors = append(f.FormFactors, eb.FormFactorPoint{Angle: a, FormFactor: x})
	}
	SortFormFactors(f.FormFactors)
	return f, nil
}

// SortFormFactors orders the points by departure angle.
func SortFormFactors(points []eb.FormFactorPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Angle < points[j].Angle })
}

// Save writes the configuration. INI is written unless the file name says TOML, YAML or JSON.
func Save(path string, f File) error {
	format := configType(path)
	if format == "ini" {
		fp, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := WriteINI(fp, f); err != nil {
			fp.Close()
			return err
		}
		return fp.Close()
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	for key, value := range f.settings() {
		v.Set(key, value)
	}
	ff := make(map[string]interface{}, len(f.FormFactors))
	for _, p := range f.FormFactors {
		ff[formatFloat(p.Angle)] = p.FormFactor
	}
	v.Set(keyFormFactor, ff)
	return v.WriteConfigAs(path)
}

// WriteINI writes the configuration in the historical INI layout.
func WriteINI(w io.Writer, f File) error {
	cfg := ini.Empty()
	settings := f.settings()
	for _, section := range []string{"projectile", "form_factor", "initial_conditions", "simulation"} {
		s, err := cfg.NewSection(section)
		if err != nil {
			return err
		}
		if section == keyFormFactor {
			for _, p := range f.FormFactors {
				if _, err := s.NewKey(formatFloat(p.Angle), formatFloat(p.FormFactor)); err != nil {
					return err
				}
			}
			continue
		}
		for _, key := range settingKeys {
			value, ok := settings[key]
			if !ok || !strings.HasPrefix(key, section+keyDelimiter) {
				continue
			}
			if _, err := s.NewKey(strings.TrimPrefix(key, section+keyDelimiter), fmt.Sprint(value)); err != nil {
				return err
			}
		}
	}
	_, err := cfg.WriteTo(w)
	return err
}

// settingKeys is the order the scalar settings are written in
var settingKeys = []string{
	keyName, keyMass, keyCaliber, keyDragFunctionFile, keyDragFunction, keyDensityFunction,
	keyAltitude, keyVelocity, keyAirDensityFactor, keyDepartureAngle,
	keyTimestep, keyTolerance, keyMaxIterations,
}

func (f File) settings() map[string]interface{} {
	s := map[string]interface{}{
		keyMass:             f.Mass,
		keyCaliber:          f.Caliber,
		keyDensityFunction:  f.DensityFunction,
		keyAltitude:         f.Altitude,
		keyVelocity:         f.Velocity,
		keyAirDensityFactor: f.AirDensityFactor,
		keyTimestep:         f.Timestep,
		keyTolerance:        f.Tolerance,
		keyMaxIterations:    f.MaxIterations,
	}
	if f.Name != "" {
		s[keyName] = f.Name
	}
	if f.DragFunctionFile != "" {
		s[keyDragFunctionFile] = f.DragFunctionFile
	} else {
		s[keyDragFunction] = f.DragFunction
	}
	if f.DepartureAngle != 0 {
		s[keyDepartureAngle] = f.DepartureAngle
	}
	return s
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
