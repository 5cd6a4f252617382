package report_test

import (
	"bytes"
	"strings"
	"testing"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/report"
)

func shell() (eb.Projectile, eb.InitialConditions) {
	p := eb.MustCreateProjectile(45, 155, eb.MustDragTableByName(eb.DragFunctionG1), eb.DensityUS,
		eb.MustCreateConstantFormFactor(1)).WithName("155mm")
	return p, eb.MustCreateInitialConditionsWithAngle(560, 30)
}

func trajectory(t *testing.T, angle float64) (eb.Projectile, eb.TrajectoryResult) {
	t.Helper()
	p, ic := shell()
	r, err := eb.Integrate(p, ic.WithDepartureAngle(angle), eb.DefaultSimulationConfig(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p, r
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"", "metric", true},
		{"Metric", "metric", true},
		{"imperial", "imperial", true},
		{"US", "imperial", true},
		{"furlongs", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := report.ParseUnits(tt.name)
			if (err == nil) != tt.ok {
				t.Fatalf("unexpected error state: %v", err)
			}
			if u.Name != tt.want {
				t.Errorf("got %q, want %q", u.Name, tt.want)
			}
		})
	}
}

func TestTrajectory(t *testing.T) {
	p, r := trajectory(t, 30)
	for _, units := range []report.Units{report.Metric, report.Imperial} {
		t.Run(units.Name, func(t *testing.T) {
			var b bytes.Buffer
			w := report.NewWriter(&b, units)
			if err := w.Trajectory(p, r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			text := b.String()
			for _, s := range []string{"range", "angle of fall", "striking energy", "max ordinate", "30.0000°"} {
				if !strings.Contains(text, s) {
					t.Errorf("%q is missing from\n%s", s, text)
				}
			}
			symbol := "m/s"
			if units.Name == "imperial" {
				symbol = "ft/s"
			}
			if !strings.Contains(text, symbol) {
				t.Errorf("velocity is not printed in %s:\n%s", symbol, text)
			}
		})
	}
}

func TestPath(t *testing.T) {
	_, r := trajectory(t, 30)
	var b bytes.Buffer
	if err := report.NewWriter(&b, report.Metric).Path(r, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	path := r.Path()
	//the header, every 10th state and the impact
	want := 1 + (len(path)-1)/10 + 1
	if (len(path)-1)%10 != 0 {
		want++
	}
	if len(lines) != want {
		t.Errorf("expected %d lines, got %d", want, len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "0.0m") {
		t.Errorf("the last line is not the impact: %s", lines[len(lines)-1])
	}
}

func TestProjectile(t *testing.T) {
	p, ic := shell()
	p = p.WithFormFactors(eb.MustCreateFormFactorFunction([]eb.FormFactorPoint{{Angle: 10, FormFactor: 1.1}, {Angle: 45, FormFactor: 0.95}}))
	var b bytes.Buffer
	if err := report.NewWriter(&b, report.Imperial).Projectile(p, ic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := b.String()
	for _, s := range []string{"155mm", "G1", "US atmosphere", "1.100000", "0.950000", "ft/s", "in"} {
		if !strings.Contains(text, s) {
			t.Errorf("%q is missing from\n%s", s, text)
		}
	}
}

func TestTables(t *testing.T) {
	p, _ := shell()
	rows := []eb.RangeTableRow{
		{Range: 1000, DepartureAngle: 1.2, AngleOfFall: -1.3, TimeOfFlight: 1.9, StrikingVelocity: 400, MaxOrdinate: 5, FormFactor: 1},
		{Range: 2000, DepartureAngle: 2.6, AngleOfFall: -3.1, TimeOfFlight: 4.1, StrikingVelocity: 450, MaxOrdinate: 21, FormFactor: 1},
	}
	var b bytes.Buffer
	w := report.NewWriter(&b, report.Metric)
	if err := w.RangeTable(p, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(b.String(), "\n"); n != 3 {
		t.Errorf("expected a header and 2 rows, got %d lines", n)
	}
	//1/2 * 45kg * 400^2 = 3.6 MJ
	if !strings.Contains(b.String(), "3.60MJ") {
		t.Errorf("striking energy is missing:\n%s", b.String())
	}

	//the tables swept by range show the target, not the achieved range
	b.Reset()
	swept := []eb.RangeTableRow{{TargetRange: 2000, Range: 1999.3, DepartureAngle: 2.3, TimeOfFlight: 4, StrikingVelocity: 450, FormFactor: 1}}
	if err := w.RangeTable(p, swept); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(b.String(), "2000.0m") || strings.Contains(b.String(), "1999.3m") {
		t.Errorf("the target range is not printed:\n%s", b.String())
	}

	b.Reset()
	solutions := []eb.FormFactorSolution{{Angle: 20, FormFactor: 0.98, Range: 15000, Iterations: 12}}
	if err := w.FormFactors(solutions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(b.String(), "0.980000") || !strings.Contains(b.String(), "15000.0m") {
		t.Errorf("unexpected form factor table:\n%s", b.String())
	}

	b.Reset()
	if err := w.DragFunctions(eb.DragTableNames()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(b.String(), "\n"); n != len(eb.DragTableNames()) {
		t.Errorf("expected a line per drag function:\n%s", b.String())
	}
}

func TestPlot(t *testing.T) {
	_, low := trajectory(t, 20)
	_, high := trajectory(t, 50)

	xys := report.Metric.PathXYs(low)
	if len(xys) != len(low.Path()) {
		t.Fatalf("expected %d points, got %d", len(low.Path()), len(xys))
	}
	if xys[len(xys)-1].X != low.Range() {
		t.Errorf("the last point is not the impact")
	}

	var b bytes.Buffer
	if err := report.WritePlot(&b, "png", "155mm", report.Imperial, low, high); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(b.Bytes(), []byte("\x89PNG")) {
		t.Errorf("the plot is not a PNG image")
	}

	p, ic := shell()
	noPath, err := eb.Integrate(p, ic, eb.DefaultSimulationConfig(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := report.WritePlot(&b, "png", "", report.Metric, noPath); err == nil {
		t.Errorf("a trajectory without the path was plotted")
	}
}
