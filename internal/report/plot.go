package report

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/bmath/unit"
)

// PlotWidth and PlotHeight are the size of the trajectory plot.
const (
	PlotWidth  = 10 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// PathXYs returns the recorded path of the trajectory as plot points in the range
// and ordinate units.
func (u Units) PathXYs(r eb.TrajectoryResult) plotter.XYs {
	path := r.Path()
	xys := make(plotter.XYs, len(path))
	for i, s := range path {
		xys[i].X = u.rangeOf(s.Range()).In(u.Range)
		xys[i].Y = u.ordinateOf(s.Altitude()).In(u.Ordinate)
	}
	return xys
}

// NewPlot draws the recorded paths of the trajectories.
func NewPlot(title string, u Units, trajectories ...eb.TrajectoryResult) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("range, %s", unit.DistanceSymbol(u.Range))
	p.Y.Label.Text = fmt.Sprintf("altitude, %s", unit.DistanceSymbol(u.Ordinate))
	p.Add(plotter.NewGrid())

	var xs, ys []float64
	for _, r := range trajectories {
		xys := u.PathXYs(r)
		if len(xys) < 2 {
			return nil, errors.New("the trajectory path was not recorded")
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add(angleOf(r.DepartureAngle()).String(), line)
		for _, xy := range xys {
			xs = append(xs, xy.X)
			ys = append(ys, xy.Y)
		}
	}
	if len(xs) == 0 {
		return nil, errors.New("nothing to plot")
	}

	p.X.Min = 0
	p.X.Max = floats.Max(xs)
	p.Y.Min = 0
	p.Y.Max = floats.Max(ys) * 1.05
	return p, nil
}

// WritePlot draws the trajectories in the format specified ("png", "svg", "pdf", ...).
func WritePlot(w io.Writer, format, title string, u Units, trajectories ...eb.TrajectoryResult) error {
	p, err := NewPlot(title, u, trajectories...)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePlot draws the trajectories into the file; the format follows the file extension.
func SavePlot(path, title string, u Units, trajectories ...eb.TrajectoryResult) error {
	p, err := NewPlot(title, u, trajectories...)
	if err != nil {
		return err
	}
	return p.Save(PlotWidth, PlotHeight, path)
}
