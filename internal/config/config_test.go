package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/config"
)

const iowa = `[projectile]
name = 16in Mk8 AP
mass = 1225.0
caliber = 406.4
drag_function = KD6
density_function = US

[form_factor]
45.0 = 0.996695
20.0 = 1.0234
10.5 = 1.05

[initial_conditions]
altitude = 0.0001
mv = 762.0
air_density_factor = 1.0

[simulation]
timestep = 0.1
`

func TestReadINI(t *testing.T) {
	f, err := config.Read(strings.NewReader(iowa), "ini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Name != "16in Mk8 AP" || f.Mass != 1225 || f.Caliber != 406.4 || f.DragFunction != "KD6" || f.DensityFunction != "US" {
		t.Errorf("projectile section: %+v", f)
	}
	if f.Velocity != 762 || f.Altitude != 0.0001 || f.AirDensityFactor != 1 || f.DepartureAngle != 0 {
		t.Errorf("initial conditions section: %+v", f)
	}
	//missing values take the defaults
	if f.Timestep != 0.1 || f.Tolerance != eb.DefaultTolerance || f.MaxIterations != eb.DefaultMaxIterations {
		t.Errorf("simulation section: %+v", f)
	}

	want := []eb.FormFactorPoint{{Angle: 10.5, FormFactor: 1.05}, {Angle: 20, FormFactor: 1.0234}, {Angle: 45, FormFactor: 0.996695}}
	if len(f.FormFactors) != len(want) {
		t.Fatalf("expected %d form factors, got %v", len(want), f.FormFactors)
	}
	for i, p := range want {
		if f.FormFactors[i] != p {
			t.Errorf("form factor %d: got %+v, want %+v", i, f.FormFactors[i], p)
		}
	}

	//KD6 is not a built-in drag function
	if _, err := f.Projectile(); !errors.Is(err, eb.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
	f.DragFunction = "g1"
	p, err := f.Projectile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "16in Mk8 AP" || p.DragTable().Name() != "G1" || p.FormFactors().Lookup(45) != 0.996695 {
		t.Errorf("unexpected projectile %s", p.Name())
	}

	ic, err := f.InitialConditions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ic.Velocity() != 762 || ic.HasDepartureAngle() {
		t.Errorf("unexpected conditions %+v", ic)
	}
	if _, err := f.SimulationConfig(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReadBadFormFactor(t *testing.T) {
	text := "[projectile]\nmass = 1\n[form_factor]\nhigh = 1.0\n"
	if _, err := config.Read(strings.NewReader(text), "ini"); err == nil {
		t.Errorf("expected an error for a form factor without an angle")
	}
	text = "[projectile]\nmass = 1\n[form_factor]\n45 = fast\n"
	if _, err := config.Read(strings.NewReader(text), "ini"); err == nil {
		t.Errorf("expected an error for a form factor which is not a number")
	}
}

func sample() config.File {
	f := config.Defaults()
	f.Name = "155mm M107"
	f.Mass = 43.2
	f.Caliber = 155
	f.DragFunction = "G7"
	f.DensityFunction = "ICAO"
	f.FormFactors = []eb.FormFactorPoint{{Angle: 12.25, FormFactor: 0.98}, {Angle: 45.2483, FormFactor: 1.02}}
	f.Velocity = 684
	f.Altitude = 250
	f.AirDensityFactor = 0.97
	f.DepartureAngle = 30
	f.Timestep = 0.05
	f.Tolerance = 0.5
	f.MaxIterations = 60
	return f
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"shell.conf", "shell.ini", "shell.toml", "shell.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sample()
			if err := config.Save(path, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := config.Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}

			if got.Name != want.Name || got.Mass != want.Mass || got.Caliber != want.Caliber ||
				got.DragFunction != want.DragFunction || got.DensityFunction != want.DensityFunction {
				t.Errorf("projectile: got %+v", got)
			}
			if got.Velocity != want.Velocity || got.Altitude != want.Altitude ||
				got.AirDensityFactor != want.AirDensityFactor || got.DepartureAngle != want.DepartureAngle {
				t.Errorf("initial conditions: got %+v", got)
			}
			if got.Timestep != want.Timestep || got.Tolerance != want.Tolerance || got.MaxIterations != want.MaxIterations {
				t.Errorf("simulation: got %+v", got)
			}
			if len(got.FormFactors) != 2 || got.FormFactors[0] != want.FormFactors[0] || got.FormFactors[1] != want.FormFactors[1] {
				t.Errorf("form factors: got %+v", got.FormFactors)
			}

			ic, err := got.InitialConditions()
			if err != nil || !ic.HasDepartureAngle() || ic.DepartureAngle() != 30 {
				t.Errorf("departure angle lost: %+v, %v", ic, err)
			}
		})
	}
}

func TestWriteINI(t *testing.T) {
	var b strings.Builder
	if err := config.WriteINI(&b, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := b.String()
	for _, s := range []string{"[projectile]", "[form_factor]", "[initial_conditions]", "[simulation]", "45.2483", "drag_function", "mv"} {
		if !strings.Contains(text, s) {
			t.Errorf("%q is missing from\n%s", s, text)
		}
	}
	if strings.Index(text, "[projectile]") > strings.Index(text, "[simulation]") {
		t.Errorf("sections are out of order:\n%s", text)
	}
}

func TestDragFunctionFile(t *testing.T) {
	dir := t.TempDir()
	table := "# measured\n0.0,0.12\n0.9,0.14\n1.1,0.33\n3.0,0.25\n"
	if err := os.WriteFile(filepath.Join(dir, "KD8.csv"), []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	f := sample()
	f.DragFunctionFile = "KD8.csv"
	path := filepath.Join(dir, "shell.conf")
	if err := config.Save(path, f); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.DragFunctionFile != "KD8.csv" {
		t.Fatalf("drag function file lost: %+v", loaded)
	}

	p, err := loaded.Projectile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DragTable().Name() != "KD8" || p.DragTable().Lookup(1.1) != 0.33 {
		t.Errorf("unexpected drag function %s", p.DragTable().Name())
	}

	if _, err := config.LoadDragTable(filepath.Join(dir, "missing.csv")); err == nil {
		t.Errorf("missing file accepted")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.conf")
	if err := config.Save(path, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv("MEB_INITIAL_CONDITIONS_MV", "700")

	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Velocity != 700 {
		t.Errorf("expected the environment to override the velocity, got %f", f.Velocity)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "none.conf")); err == nil {
		t.Errorf("missing file accepted")
	}
}
