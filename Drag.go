package go_exteriorballistics

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

//DragPoint is one entry of a drag function table
type DragPoint struct {
	Mach float64
	KD   float64
}

//DragTable is a drag function: the drag coefficient (in the KD convention
//used by the retardation formula) tabulated against the Mach number.
//
//Lookups between two entries interpolate linearly, lookups outside of the
//table return the value of the nearest endpoint.
type DragTable struct {
	name   string
	points []DragPoint
	curve  *interp.PiecewiseLinear
}

//CreateDragTable creates a drag table from the points specified.
//
//The Mach numbers must be strictly increasing and at least two points are required.
func CreateDragTable(name string, points []DragPoint) (DragTable, error) {
	if len(points) < 2 {
		return DragTable{}, invalidInput("DragTable", "at least two points are required, got %d", len(points))
	}
	machs := make([]float64, len(points))
	kds := make([]float64, len(points))
	for i, p := range points {
		if !isFinite(p.Mach) || !isFinite(p.KD) {
			return DragTable{}, invalidInput("DragTable", "point %d is not a finite number", i)
		}
		if p.KD < 0 {
			return DragTable{}, invalidInput("DragTable", "drag coefficient at Mach %g must not be negative", p.Mach)
		}
		if i > 0 && p.Mach <= points[i-1].Mach {
			return DragTable{}, invalidInput("DragTable", "Mach numbers must be strictly increasing (%g after %g)", p.Mach, points[i-1].Mach)
		}
		machs[i] = p.Mach
		kds[i] = p.KD
	}

	curve := &interp.PiecewiseLinear{}
	if err := curve.Fit(machs, kds); err != nil {
		return DragTable{}, invalidInput("DragTable", "%s", err)
	}

	copied := make([]DragPoint, len(points))
	copy(copied, points)
	return DragTable{name: name, points: copied, curve: curve}, nil
}

//MustCreateDragTable creates the drag table but panics instead of returning an error
func MustCreateDragTable(name string, points []DragPoint) DragTable {
	t, err := CreateDragTable(name, points)
	if err != nil {
		panic(err)
	}
	return t
}

//ParseDragTable reads a two column "mach,kd" table.
//
//Blank lines and lines starting with # are ignored.
func ParseDragTable(name string, r io.Reader) (DragTable, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var points []DragPoint
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return DragTable{}, invalidInput("DragTable", "invalid drag function format: %s", err)
		}
		mach, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return DragTable{}, invalidInput("DragTable", "invalid Mach number %q", record[0])
		}
		kd, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return DragTable{}, invalidInput("DragTable", "invalid drag coefficient %q", record[1])
		}
		points = append(points, DragPoint{Mach: mach, KD: kd})
	}
	return CreateDragTable(name, points)
}

//Name returns the name of the drag function
func (t DragTable) Name() string {
	return t.name
}

//Points returns a copy of the table entries
func (t DragTable) Points() []DragPoint {
	copied := make([]DragPoint, len(t.points))
	copy(copied, t.points)
	return copied
}

//Lookup returns the drag coefficient at the Mach number specified
func (t DragTable) Lookup(mach float64) float64 {
	return t.curve.Predict(mach)
}

func (t DragTable) isValid() bool {
	return t.curve != nil
}

//scaled returns the table with every coefficient multiplied by the factor
func (t DragTable) scaled(factor float64) DragTable {
	points := t.Points()
	for i := range points {
		points[i].KD *= factor
	}
	return MustCreateDragTable(t.name, points)
}
