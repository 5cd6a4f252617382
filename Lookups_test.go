package go_exteriorballistics_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
)

func TestDragTableLookup(t *testing.T) {
	points := []eb.DragPoint{{Mach: 0, KD: 0.1}, {Mach: 0.8, KD: 0.12}, {Mach: 1.0, KD: 0.2}, {Mach: 2.0, KD: 0.15}}
	table := eb.MustCreateDragTable("test", points)

	for _, p := range points {
		if table.Lookup(p.Mach) != p.KD {
			t.Errorf("exact key %f returned %f instead of %f", p.Mach, table.Lookup(p.Mach), p.KD)
		}
	}

	for i := 1; i < len(points); i++ {
		p1, p2 := points[i-1], points[i]
		for _, f := range []float64{0.1, 0.25, 0.5, 0.9} {
			x := p1.Mach + f*(p2.Mach-p1.Mach)
			want := p1.KD + (x-p1.Mach)*(p2.KD-p1.KD)/(p2.Mach-p1.Mach)
			assertEqual(t, table.Lookup(x), want, 1e-12, "Interpolation")
		}
	}

	assertEqual(t, table.Lookup(-1), 0.1, 0, "Clamp below")
	assertEqual(t, table.Lookup(7), 0.15, 0, "Clamp above")

	//the table keeps its own copy
	points[0].KD = 99
	assertEqual(t, table.Lookup(0), 0.1, 0, "Copy")
	copied := table.Points()
	copied[1].KD = 99
	assertEqual(t, table.Lookup(0.8), 0.12, 0, "Points copy")
}

func TestDragTableValidation(t *testing.T) {
	tests := []struct {
		name   string
		points []eb.DragPoint
	}{
		{"empty", nil},
		{"single point", []eb.DragPoint{{Mach: 0, KD: 0.1}}},
		{"equal keys", []eb.DragPoint{{Mach: 0, KD: 0.1}, {Mach: 0, KD: 0.2}}},
		{"decreasing keys", []eb.DragPoint{{Mach: 1, KD: 0.1}, {Mach: 0.5, KD: 0.2}}},
		{"negative drag", []eb.DragPoint{{Mach: 0, KD: -0.1}, {Mach: 1, KD: 0.2}}},
		{"not a number", []eb.DragPoint{{Mach: 0, KD: math.NaN()}, {Mach: 1, KD: 0.2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := eb.CreateDragTable("test", tt.points); !errors.Is(err, eb.ErrInvalidInput) {
				t.Errorf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestParseDragTable(t *testing.T) {
	text := "# KD test table\n0.0, 0.25\n\n0.5,0.26\n# transonic\n1.0,0.40\n2.0,0.30\n"
	table, err := eb.ParseDragTable("KDT", strings.NewReader(text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Name() != "KDT" || len(table.Points()) != 4 {
		t.Fatalf("unexpected table %s with %d points", table.Name(), len(table.Points()))
	}
	assertEqual(t, table.Lookup(0.75), 0.33, 1e-12, "Parsed lookup")

	for name, bad := range map[string]string{
		"three columns":  "0,0.1,3\n1,0.2,4\n",
		"not a number":   "0,abc\n1,0.2\n",
		"non increasing": "1,0.1\n0.5,0.2\n",
		"one row":        "0,0.1\n",
		"empty":          "# nothing\n",
	} {
		if _, err := eb.ParseDragTable(name, strings.NewReader(bad)); !errors.Is(err, eb.ErrInvalidInput) {
			t.Errorf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestBuiltinDragTables(t *testing.T) {
	names := eb.DragTableNames()
	want := []string{"G1", "G2", "G5", "G6", "G7", "G8", "GI", "GL"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected drag functions %v", names)
	}

	for _, name := range names {
		table, err := eb.DragTableByName(strings.ToLower(name))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if table.Name() != name {
			t.Errorf("%s: named %s", name, table.Name())
		}
		//every standard shape has its drag peak just above the speed of sound
		if !(table.Lookup(1.2) > table.Lookup(0.5)) {
			t.Errorf("%s: no transonic rise (%f/%f)", name, table.Lookup(1.2), table.Lookup(0.5))
		}
	}

	g1 := eb.MustDragTableByName("G1")
	assertEqual(t, g1.Lookup(0), 0.2629*math.Pi/8, 1e-12, "G1 at Mach 0")
	assertEqual(t, g1.Lookup(1), 0.4805*math.Pi/8, 1e-12, "G1 at Mach 1")

	//the polynomial fits are sampled at every 0.05 Mach
	for _, c := range []struct {
		name    string
		mach    float64
		a, b, c float64
	}{
		{"G2", 1.5, 0.7016110, -0.3075100, 0.05192560},
		{"G5", 0.5, 0.186386, -0.0342136, -0.035691},
		{"G5", 1.5, 0.134374, 0.4378330, -0.1570190},
		{"G6", 0.75, 0.366723, -0.458435, 0.337906},
		{"G8", 1, -12.9053, 24.9181, -11.6191},
		{"GI", 1.5, 0.630556, 0.00701308, 0},
		{"GL", 0.9, 1.59969, -3.9465500, 2.831370},
	} {
		cd := c.a + c.mach*(c.b+c.mach*c.c)
		assertEqual(t, eb.MustDragTableByName(c.name).Lookup(c.mach), cd*math.Pi/8, 1e-9, fmt.Sprintf("%s at Mach %.2f", c.name, c.mach))
	}

	if _, err := eb.DragTableByName("KD6"); !errors.Is(err, eb.ErrInvalidInput) {
		t.Errorf("unknown drag function accepted: %v", err)
	}
}

func TestFormFactorFunction(t *testing.T) {
	constant := eb.MustCreateConstantFormFactor(0.9967)
	if !constant.IsConstant() {
		t.Errorf("single point must be constant")
	}
	for _, angle := range []float64{0.1, 10, 45, 89} {
		assertEqual(t, constant.Lookup(angle), 0.9967, 0, "Constant form factor")
	}

	points := []eb.FormFactorPoint{{Angle: 10, FormFactor: 0.9}, {Angle: 30, FormFactor: 1.1}, {Angle: 45, FormFactor: 1.0}}
	ff := eb.MustCreateFormFactorFunction(points)
	if ff.IsConstant() {
		t.Errorf("three points are not constant")
	}
	for _, p := range points {
		if ff.Lookup(p.Angle) != p.FormFactor {
			t.Errorf("exact key %f returned %f", p.Angle, ff.Lookup(p.Angle))
		}
	}
	assertEqual(t, ff.Lookup(20), 1.0, 1e-12, "Interpolated form factor")
	assertEqual(t, ff.Lookup(40), 1.1-2.0/3.0*0.1, 1e-12, "Interpolated form factor")
	assertEqual(t, ff.Lookup(5), 0.9, 0, "Clamp below")
	assertEqual(t, ff.Lookup(60), 1.0, 0, "Clamp above")

	for name, bad := range map[string][]eb.FormFactorPoint{
		"empty":          nil,
		"zero":           {{Angle: 10, FormFactor: 0}},
		"negative":       {{Angle: 10, FormFactor: -1}},
		"equal angles":   {{Angle: 10, FormFactor: 1}, {Angle: 10, FormFactor: 1.1}},
		"non increasing": {{Angle: 20, FormFactor: 1}, {Angle: 10, FormFactor: 1.1}},
		"infinite":       {{Angle: math.Inf(1), FormFactor: 1}},
	} {
		if _, err := eb.CreateFormFactorFunction(bad); !errors.Is(err, eb.ErrInvalidInput) {
			t.Errorf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestDensityFunctions(t *testing.T) {
	for _, df := range []eb.DensityFunction{eb.DensityUS, eb.DensityUK, eb.DensityICAO} {
		assertEqual(t, df.DensityRatio(0), 1, 1e-12, df.String()+" surface ratio")
		assertEqual(t, df.Density(0), 1.225, 1e-12, df.String()+" surface density")
		assertEqual(t, df.SpeedOfSound(0), 344, 1e-12, df.String()+" surface speed of sound")
		assertEqual(t, df.SpeedOfSound(1000), 340, 1e-12, df.String()+" speed of sound")
		if !(df.DensityRatio(5000) < df.DensityRatio(1000)) {
			t.Errorf("%s: density must fall with altitude", df)
		}
	}

	assertEqual(t, eb.DensityUS.DensityRatio(1000), math.Pow(10, -0.045), 1e-12, "US")
	assertEqual(t, eb.DensityUK.DensityRatio(3048), math.Pow(0.1, 0.141), 1e-12, "UK")
	assertEqual(t, eb.DensityICAO.DensityRatio(11000), 0.2971, 0.005, "ICAO at the tropopause")
	assertEqual(t, eb.Gravity(0), 9.80665, 0, "Gravity")
	assertEqual(t, eb.Gravity(10000), 9.80665-0.03665, 1e-12, "Gravity at altitude")

	for _, name := range eb.DensityFunctionNames() {
		df, err := eb.ParseDensityFunction(strings.ToLower(name))
		if err != nil || df.String() != name {
			t.Errorf("%s: parsed as %s, %v", name, df, err)
		}
	}
	if _, err := eb.ParseDensityFunction("martian"); !errors.Is(err, eb.ErrInvalidInput) {
		t.Errorf("unknown density function accepted: %v", err)
	}
}
