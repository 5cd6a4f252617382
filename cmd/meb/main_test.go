package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/config"
)

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

var shellFlags = []string{"-name", "155mm", "-mass", "45", "-caliber", "155", "-mv", "560"}

func withShell(cmd string, args ...string) []string {
	return append(append([]string{cmd}, shellFlags...), args...)
}

func TestUnknownCommand(t *testing.T) {
	if code, _, _ := execute(); code != 2 {
		t.Errorf("no command: code %d", code)
	}
	if code, _, stderr := execute("fly"); code != 2 || !strings.Contains(stderr, "unknown command") {
		t.Errorf("unknown command: code %d, %s", code, stderr)
	}
	if code, stdout, _ := execute("help"); code != 0 || !strings.Contains(stdout, "range-table-angle") {
		t.Errorf("help: code %d, %s", code, stdout)
	}
}

func TestSingle(t *testing.T) {
	code, stdout, stderr := execute(withShell("single", "-a", "30", "-t", "-every", "50")...)
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	for _, s := range []string{"155mm", "range", "angle of fall", "time"} {
		if !strings.Contains(stdout, s) {
			t.Errorf("%q is missing from\n%s", s, stdout)
		}
	}

	if code, _, stderr := execute(withShell("single")...); code != 1 || !strings.Contains(stderr, "departure angle") {
		t.Errorf("missing angle: code %d, %s", code, stderr)
	}
	if code, _, _ := execute(withShell("single", "-a", "30", "-mass", "heavy")...); code != 1 {
		t.Errorf("bad mass accepted: code %d", code)
	}
}

func TestUnitSuffixes(t *testing.T) {
	_, metric, _ := execute(withShell("single", "-a", "30")...)
	code, imperial, stderr := execute("single", "-mass", "99.208lb", "-caliber", "6.1024in", "-mv", "1837.27fps", "-a", "30", "-units", "imperial")
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	if !strings.Contains(imperial, "ft/s") || !strings.Contains(imperial, "yd") {
		t.Errorf("the output is not imperial:\n%s", imperial)
	}
	if metric == imperial {
		t.Errorf("the unit system is ignored")
	}
}

func TestPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectory.png")
	if code, _, stderr := execute(withShell("single", "-a", "45", "-plot", path)...); code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	st, err := os.Stat(path)
	if err != nil || st.Size() == 0 {
		t.Errorf("the plot was not written: %v", err)
	}
}

func TestMatchRange(t *testing.T) {
	code, stdout, stderr := execute(withShell("match-range", "-r", "8km", "-r", "10000000", "-arc", "high")...)
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "8000.0m") {
		t.Errorf("the target is missing:\n%s", stdout)
	}
	if !strings.Contains(stderr, "no departure angle") {
		t.Errorf("the unreachable target is not reported:\n%s", stderr)
	}
	if code, _, _ := execute(withShell("match-range", "-r", "10000000")...); code != 1 {
		t.Errorf("no target reached: code %d", code)
	}
	if code, _, _ := execute(withShell("match-range")...); code != 1 {
		t.Errorf("no targets: code %d", code)
	}
}

func TestRangeTables(t *testing.T) {
	code, stdout, stderr := execute(withShell("range-table-angle", "-start", "10", "-end", "30", "-increment", "10")...)
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "20.0000°") {
		t.Errorf("the 20 degree row is missing:\n%s", stdout)
	}

	code, stdout, stderr = execute(withShell("range-table", "-start", "2km", "-end", "6km", "-increment", "2km", "-workers", "2")...)
	if code != 0 {
		t.Fatalf("code %d: %s", code, stderr)
	}
	for _, s := range []string{"2000.0m", "4000.0m", "6000.0m"} {
		if !strings.Contains(stdout, s) {
			t.Errorf("%q is missing from\n%s", s, stdout)
		}
	}

	code, stdout, stderr = execute(withShell("range-table", "-start", "100", "-end", "300", "-increment", "100")...)
	if code != 0 {
		t.Fatalf("short ranges: code %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "100.0m") {
		t.Errorf("the 100m row is missing:\n%s", stdout)
	}

	if code, _, _ := execute(withShell("range-table", "-increment", "-5")...); code != 1 {
		t.Errorf("negative increment accepted: code %d", code)
	}
}

func TestMakeConfigAndFindFormFactor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "155mm.conf")
	if code, _, stderr := execute(withShell("make-config", "-density-function", "ICAO", "-output", path)...); code != 0 {
		t.Fatalf("make-config: code %d: %s", code, stderr)
	}
	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Mass != 45 || f.Caliber != 155 || f.Velocity != 560 || f.DensityFunction != "ICAO" {
		t.Fatalf("unexpected configuration %+v", f)
	}

	//the range a form factor of 0.9 gives at 25 degrees
	p, err := f.Projectile()
	if err != nil {
		t.Fatal(err)
	}
	ic, err := f.InitialConditions()
	if err != nil {
		t.Fatal(err)
	}
	p = p.WithFormFactors(eb.MustCreateConstantFormFactor(0.9))
	r, err := eb.Integrate(p, ic.WithDepartureAngle(25), eb.DefaultSimulationConfig(), false)
	if err != nil {
		t.Fatal(err)
	}

	shot := fmt.Sprintf("25,%f", r.Range())
	if code, stdout, stderr := execute("find-ff", "-config", path, "-shot", shot, "-save-to-config"); code != 0 {
		t.Fatalf("find-ff: code %d: %s", code, stderr)
	} else if !strings.Contains(stdout, "25.0000°") {
		t.Errorf("the form factor is missing:\n%s", stdout)
	}

	f, err = config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(f.FormFactors) != 1 || f.FormFactors[0].Angle != 25 || math.Abs(f.FormFactors[0].FormFactor-0.9) > 0.01 {
		t.Errorf("the form factors were not saved: %+v", f.FormFactors)
	}

	if code, _, _ := execute(withShell("find-ff", "-shot", shot, "-save-to-config")...); code != 1 {
		t.Errorf("saving without a configuration file: code %d", code)
	}

	var b bytes.Buffer
	if code := run(context.Background(), withShell("make-config", "-F", "10,1.1", "-F", "45,0.95"), &b, &b); code != 0 {
		t.Fatalf("make-config to stdout: code %d: %s", code, b.String())
	}
	if !strings.Contains(b.String(), "[form_factor]") || !strings.Contains(b.String(), "1.1") {
		t.Errorf("unexpected configuration:\n%s", b.String())
	}
}

func TestDragFunctions(t *testing.T) {
	code, stdout, _ := execute("drag-functions")
	if code != 0 || !strings.Contains(stdout, "G7") {
		t.Errorf("code %d:\n%s", code, stdout)
	}
}

func TestVerbose(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"-v"}, true},
		{[]string{"-mass", "45", "--verbose"}, true},
		{[]string{"-verbose=true"}, true},
		{[]string{"-verbose=false"}, false},
		{[]string{"-name", "v"}, false},
		{[]string{"-name", "v", "-v"}, true},
		{nil, false},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := verbose(tt.args); got != tt.want {
				t.Errorf("verbose(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
