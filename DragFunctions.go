package go_exteriorballistics

import (
	"embed"
	"fmt"
	"math"
	"path"
	"sort"
	"strings"
	"sync"
)

//Names of the built-in drag functions
const (
	DragFunctionG1 = "G1"
	DragFunctionG2 = "G2"
	DragFunctionG5 = "G5"
	DragFunctionG6 = "G6"
	DragFunctionG7 = "G7"
	DragFunctionG8 = "G8"
	DragFunctionGI = "GI"
	DragFunctionGL = "GL"
)

//DefaultDragFunction is used when no drag function is configured
const DefaultDragFunction = DragFunctionG1

//cdToKD converts a standard drag coefficient into the KD convention
//of the retardation formula (pi/8 folds the cross-section area and the
//one half of the dynamic pressure into the coefficient)
const cdToKD = math.Pi / 8

//go:embed drag_functions/*.csv
var dragFunctionFiles embed.FS

type polynomialSegment struct {
	from    float64 // segment applies for mach >= from
	a, b, c float64 // cd = a + mach*(b + mach*c)
}

//standard drag functions which are only published as piecewise polynomial
//fits; segments are ordered from the highest Mach number down
var polynomialDragFunctions = map[string][]polynomialSegment{
	DragFunctionG2: {
		{2.5, 0.4465610, -0.0958548, 0.00799645},
		{1.2, 0.7016110, -0.3075100, 0.05192560},
		{1.0, -1.105010, 2.77195000, -1.26667000},
		{0.9, -2.240370, 2.63867000, 0},
		{0.7, 0.9099690, -1.9017100, 1.21524000},
		{math.Inf(-1), 0.2302760, 0.000210564, -0.1275050},
	},
	DragFunctionG5: {
		{2.0, 0.671388, -0.185208, 0.0204508},
		{1.1, 0.134374, 0.4378330, -0.1570190},
		{0.9, -0.924258, 1.24904, 0},
		{0.6, 0.654405, -1.4275000, 0.998463},
		{math.Inf(-1), 0.186386, -0.0342136, -0.035691},
	},
	DragFunctionG6: {
		{2.0, 0.746228, -0.255926, 0.0291726},
		{1.1, 0.513638, -0.015269, -0.0331221},
		{0.9, -0.908802, 1.25814, 0},
		{0.6, 0.366723, -0.458435, 0.337906},
		{math.Inf(-1), 0.264481, -0.157237, 0.117441},
	},
	DragFunctionG8: {
		{1.1, 0.639096, -0.197471, 0.0216221},
		{0.925, -12.9053, 24.9181, -11.6191},
		{math.Inf(-1), 0.210589, -0.00184895, 0.00211107},
	},
	DragFunctionGI: {
		{1.65, 0.845362, -0.143989, 0.0113272},
		{1.2, 0.630556, 0.00701308, 0},
		{0.7, 0.531976, -1.28079, 1.17628},
		{math.Inf(-1), 0.2282, 0, 0},
	},
	DragFunctionGL: {
		{1.0, 0.286629, 0.3588930, -0.0610598},
		{0.8, 1.59969, -3.9465500, 2.831370},
		{math.Inf(-1), 0.333118, -0.498448, 0.474774},
	},
}

const (
	polynomialSampleStep = 0.05
	polynomialSampleMax  = 5.0
)

var (
	builtinOnce   sync.Once
	builtinTables map[string]DragTable
)

func loadBuiltinDragTables() {
	builtinTables = make(map[string]DragTable)

	files, err := dragFunctionFiles.ReadDir("drag_functions")
	if err != nil {
		panic(fmt.Errorf("DragTable: built-in drag functions are missing: %w", err))
	}
	for _, f := range files {
		name := strings.TrimSuffix(f.Name(), path.Ext(f.Name()))
		fp, err := dragFunctionFiles.Open(path.Join("drag_functions", f.Name()))
		if err != nil {
			panic(err)
		}
		table, err := ParseDragTable(name, fp)
		fp.Close()
		if err != nil {
			panic(fmt.Errorf("DragTable: built-in drag function %s is broken: %w", name, err))
		}
		builtinTables[name] = table.scaled(cdToKD)
	}

	for name, segments := range polynomialDragFunctions {
		builtinTables[name] = samplePolynomial(name, segments)
	}
}

func samplePolynomial(name string, segments []polynomialSegment) DragTable {
	count := int(math.Round(polynomialSampleMax/polynomialSampleStep)) + 1
	points := make([]DragPoint, count)
	for i := range points {
		mach := float64(i) * polynomialSampleStep
		points[i] = DragPoint{Mach: mach, KD: evaluatePolynomial(segments, mach) * cdToKD}
	}
	return MustCreateDragTable(name, points)
}

func evaluatePolynomial(segments []polynomialSegment, mach float64) float64 {
	for _, s := range segments {
		if mach >= s.from {
			return s.a + mach*(s.b+mach*s.c)
		}
	}
	return 0
}

//DragTableByName returns one of the built-in drag functions
func DragTableByName(name string) (DragTable, error) {
	builtinOnce.Do(loadBuiltinDragTables)
	t, ok := builtinTables[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return DragTable{}, invalidInput("DragTable", "unknown drag function %q", name)
	}
	return t, nil
}

//MustDragTableByName returns the built-in drag function but panics if there is no such function
func MustDragTableByName(name string) DragTable {
	t, err := DragTableByName(name)
	if err != nil {
		panic(err)
	}
	return t
}

//DragTableNames returns the sorted names of the built-in drag functions
func DragTableNames() []string {
	builtinOnce.Do(loadBuiltinDragTables)
	names := make([]string, 0, len(builtinTables))
	for name := range builtinTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
