package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
)

// Writer prints the results in the unit system it was created with.
type Writer struct {
	out   io.Writer
	units Units
}

// NewWriter creates a writer printing to out.
func NewWriter(out io.Writer, units Units) *Writer {
	return &Writer{out: out, units: units}
}

// Units returns the unit system of the writer.
func (w *Writer) Units() Units {
	return w.units
}

// table collects the rows of one tabwriter block and keeps the first write error.
type table struct {
	tw  *tabwriter.Writer
	err error
}

func (w *Writer) newTable() *table {
	return &table{tw: tabwriter.NewWriter(w.out, 0, 0, 2, ' ', tabwriter.AlignRight)}
}

func (t *table) row(cells ...interface{}) {
	if t.err != nil {
		return
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	_, t.err = fmt.Fprintln(t.tw, strings.Join(parts, "\t")+"\t")
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.tw.Flush()
}

func (w *Writer) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w.out, format, args...)
	return err
}

// Projectile prints the description of the projectile and the shot conditions.
func (w *Writer) Projectile(p eb.Projectile, ic eb.InitialConditions) error {
	u := w.units
	name := p.Name()
	if name == "" {
		name = "projectile"
	}
	if err := w.printf("%s: %s, %s, drag function %s, %s atmosphere, air density factor %.3f\n",
		name, u.weightOf(p.Mass()), u.caliberOf(p.Caliber()), p.DragTable().Name(),
		p.DensityFunction(), p.AirDensityFactor()); err != nil {
		return err
	}
	if err := w.printf("muzzle velocity %s, altitude %s\n", u.velocityOf(ic.Velocity()), u.ordinateOf(ic.Altitude())); err != nil {
		return err
	}
	points := p.FormFactors().Points()
	if len(points) == 1 {
		return w.printf("form factor %.6f\n", points[0].FormFactor)
	}
	t := w.newTable()
	t.row("departure angle", "form factor")
	for _, pt := range points {
		t.row(angleOf(pt.Angle), fmt.Sprintf("%.6f", pt.FormFactor))
	}
	return t.flush()
}

// Trajectory prints the summary of one trajectory of the projectile.
func (w *Writer) Trajectory(p eb.Projectile, r eb.TrajectoryResult) error {
	u := w.units
	t := w.newTable()
	t.row("departure angle", angleOf(r.DepartureAngle()))
	t.row("form factor", fmt.Sprintf("%.6f", r.FormFactor()))
	t.row("range", u.rangeOf(r.Range()))
	t.row("time of flight", fmt.Sprintf("%.2fs", r.TimeOfFlight()))
	t.row("angle of fall", angleOf(r.ImpactAngle()))
	t.row("striking velocity", u.velocityOf(r.ImpactVelocity()))
	t.row("striking energy", u.energyOf(p.Mass(), r.ImpactVelocity()))
	t.row("max ordinate", u.ordinateOf(r.MaxOrdinate()))
	t.row("steps", r.Steps())
	return t.flush()
}

// Path prints every n-th recorded state of the trajectory and the impact.
func (w *Writer) Path(r eb.TrajectoryResult, every int) error {
	if every < 1 {
		every = 1
	}
	path := r.Path()
	u := w.units
	t := w.newTable()
	t.row("time", "range", "altitude", "velocity", "angle")
	for i, s := range path {
		if i%every != 0 && i != len(path)-1 {
			continue
		}
		t.row(fmt.Sprintf("%.2f", s.Time()), u.rangeOf(s.Range()), u.ordinateOf(s.Altitude()),
			u.velocityOf(s.Speed()), angleOf(s.Angle()))
	}
	return t.flush()
}

// MaxRange prints the greatest range and the departure angle reaching it.
func (w *Writer) MaxRange(p eb.Projectile, r eb.MaxRangeResult) error {
	if err := w.printf("maximum range %s at %s (%d trajectories)\n",
		w.units.rangeOf(r.Range), angleOf(r.Angle), r.Evaluations); err != nil {
		return err
	}
	return w.Trajectory(p, r.Trajectory)
}

// Matches prints the departure angles found for the target ranges.
func (w *Writer) Matches(p eb.Projectile, matches []eb.RangeMatch) error {
	u := w.units
	t := w.newTable()
	t.row("target", "departure angle", "range", "angle of fall", "time of flight", "striking velocity", "energy", "iterations")
	for _, m := range matches {
		r := m.Trajectory
		t.row(u.rangeOf(m.TargetRange), angleOf(r.DepartureAngle()), u.rangeOf(r.Range()), angleOf(r.ImpactAngle()),
			fmt.Sprintf("%.2fs", r.TimeOfFlight()), u.velocityOf(r.ImpactVelocity()),
			u.energyOf(p.Mass(), r.ImpactVelocity()), m.Iterations)
	}
	return t.flush()
}

// FormFactors prints the form factors solved for the shots.
func (w *Writer) FormFactors(solutions []eb.FormFactorSolution) error {
	t := w.newTable()
	t.row("departure angle", "range", "form factor", "iterations")
	for _, s := range solutions {
		t.row(angleOf(s.Angle), w.units.rangeOf(s.Range), fmt.Sprintf("%.6f", s.FormFactor), s.Iterations)
	}
	return t.flush()
}

// RangeTable prints the rows of a range table. The rows swept by range show the
// target range, the achieved one is within the solver tolerance of it.
func (w *Writer) RangeTable(p eb.Projectile, rows []eb.RangeTableRow) error {
	u := w.units
	t := w.newTable()
	t.row("range", "departure angle", "angle of fall", "time of flight", "striking velocity", "energy", "max ordinate", "form factor")
	for _, r := range rows {
		distance := r.Range
		if r.TargetRange > 0 {
			distance = r.TargetRange
		}
		t.row(u.rangeOf(distance), angleOf(r.DepartureAngle), angleOf(r.AngleOfFall), fmt.Sprintf("%.2fs", r.TimeOfFlight),
			u.velocityOf(r.StrikingVelocity), u.energyOf(p.Mass(), r.StrikingVelocity), u.ordinateOf(r.MaxOrdinate),
			fmt.Sprintf("%.4f", r.FormFactor))
	}
	return t.flush()
}

// DragFunctions prints the names of the drag functions.
func (w *Writer) DragFunctions(names []string) error {
	for _, n := range names {
		t, err := eb.DragTableByName(n)
		if err != nil {
			return err
		}
		points := t.Points()
		if err := w.printf("%-4s %d points, Mach %.2f..%.2f\n", n, len(points), points[0].Mach, points[len(points)-1].Mach); err != nil {
			return err
		}
	}
	return nil
}
