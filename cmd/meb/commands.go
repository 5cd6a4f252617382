package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-kit/log/level"

	eb "github.com/gehtsoft-usa/go_exteriorballistics"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/api"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/config"
	"github.com/gehtsoft-usa/go_exteriorballistics/internal/report"
)

// setup is what a calculating subcommand works with once the flags are parsed.
type setup struct {
	file       config.File
	projectile eb.Projectile
	conditions eb.InitialConditions
	calculator eb.TrajectoryCalculator
	units      report.Units
	writer     *report.Writer
}

func (o *options) setup(e *env) (setup, error) {
	units, err := o.reportUnits()
	if err != nil {
		return setup{}, err
	}
	f, err := o.file()
	if err != nil {
		return setup{}, err
	}
	p, err := f.Projectile()
	if err != nil {
		return setup{}, err
	}
	ic, err := f.InitialConditions()
	if err != nil {
		return setup{}, err
	}
	sc, err := f.SimulationConfig()
	if err != nil {
		return setup{}, err
	}
	calc, err := eb.CreateTrajectoryCalculator(sc)
	if err != nil {
		return setup{}, err
	}
	workers := o.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return setup{
		file:       f,
		projectile: p,
		conditions: ic,
		calculator: calc.WithLogger(e.logger).WithWorkers(workers),
		units:      units,
		writer:     report.NewWriter(e.stdout, units),
	}, nil
}

// pathFlags are the flags of the subcommands which may print or plot the trajectory.
type pathFlags struct {
	show  bool
	every int
	plot  string
}

func (o *options) addPathFlags() *pathFlags {
	p := &pathFlags{}
	o.fs.BoolVar(&p.show, "show-trajectory", false, "print the trajectory")
	o.fs.BoolVar(&p.show, "t", false, "shorthand for -show-trajectory")
	o.fs.IntVar(&p.every, "every", 10, "print every n-th step of the trajectory")
	o.fs.StringVar(&p.plot, "plot", "", "plot the trajectory into the file (.png, .svg or .pdf)")
	return p
}

func (p *pathFlags) record() bool {
	return p.show || p.plot != ""
}

// output prints and plots the recorded paths of the trajectories.
func (p *pathFlags) output(s setup, trajectories ...eb.TrajectoryResult) error {
	if p.show {
		for _, r := range trajectories {
			if err := s.writer.Path(r, p.every); err != nil {
				return err
			}
		}
	}
	if p.plot != "" {
		return report.SavePlot(p.plot, s.projectile.Name(), s.units, trajectories...)
	}
	return nil
}

func runSingle(ctx context.Context, e *env, args []string) error {
	o := newOptions("single", e.stderr)
	path := o.addPathFlags()
	if err := o.parse(args); err != nil {
		return err
	}
	s, err := o.setup(e)
	if err != nil {
		return err
	}
	if !s.conditions.HasDepartureAngle() {
		return errors.New("the departure angle is required (-a)")
	}

	r, err := s.calculator.Trajectory(s.projectile, s.conditions, path.record())
	if err != nil {
		return err
	}
	if err := s.writer.Projectile(s.projectile, s.conditions); err != nil {
		return err
	}
	if err := s.writer.Trajectory(s.projectile, r); err != nil {
		return err
	}
	return path.output(s, r)
}

func runMaxRange(ctx context.Context, e *env, args []string) error {
	o := newOptions("max-range", e.stderr)
	path := o.addPathFlags()
	if err := o.parse(args); err != nil {
		return err
	}
	s, err := o.setup(e)
	if err != nil {
		return err
	}

	m, err := s.calculator.MaxRange(s.projectile, s.conditions)
	if err != nil {
		return err
	}
	if err := s.writer.Projectile(s.projectile, s.conditions); err != nil {
		return err
	}
	if err := s.writer.MaxRange(s.projectile, m); err != nil {
		return err
	}
	if !path.record() {
		return nil
	}
	r, err := s.calculator.Trajectory(s.projectile, s.conditions.WithDepartureAngle(m.Angle), true)
	if err != nil {
		return err
	}
	return path.output(s, r)
}

func runMatchRange(ctx context.Context, e *env, args []string) error {
	o := newOptions("match-range", e.stderr)
	path := o.addPathFlags()
	var targets distanceListFlag
	o.fs.Var(&targets, "target-range", "target range, m unless a unit is given (repeatable)")
	o.fs.Var(&targets, "r", "shorthand for -target-range")
	arc := o.fs.String("arc", "low", "trajectory arc (low or high)")
	if err := o.parse(args); err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("at least one target range is required (-r)")
	}
	if *arc != "low" && *arc != "high" {
		return fmt.Errorf("unknown arc %q (low or high expected)", *arc)
	}
	s, err := o.setup(e)
	if err != nil {
		return err
	}

	m, err := s.calculator.MaxRange(s.projectile, s.conditions)
	if err != nil {
		return err
	}
	bracket := eb.LowArc(m)
	if *arc == "high" {
		bracket = eb.HighArc(m)
	}

	var matches []eb.RangeMatch
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		match, err := s.calculator.MatchRange(s.projectile, s.conditions, target, bracket)
		if err != nil {
			level.Warn(e.logger).Log("msg", "no departure angle", "target_range", target, "err", err)
			continue
		}
		matches = append(matches, match)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no target is within the maximum range of %.1fm", m.Range)
	}

	if err := s.writer.Projectile(s.projectile, s.conditions); err != nil {
		return err
	}
	if err := s.writer.Matches(s.projectile, matches); err != nil {
		return err
	}
	if !path.record() {
		return nil
	}
	var trajectories []eb.TrajectoryResult
	for _, match := range matches {
		r, err := s.calculator.Trajectory(s.projectile, s.conditions.WithDepartureAngle(match.DepartureAngle()), true)
		if err != nil {
			return err
		}
		trajectories = append(trajectories, r)
	}
	return path.output(s, trajectories...)
}

func runFindFormFactor(ctx context.Context, e *env, args []string) error {
	o := newOptions("find-ff", e.stderr)
	var shots pairFlag
	o.fs.Var(&shots, "shot", "observed shot as departure angle (deg),range (m) (repeatable)")
	save := o.fs.Bool("save-to-config", false, "write the form factors found into the configuration file")
	if err := o.parse(args); err != nil {
		return err
	}
	if len(shots) == 0 {
		return errors.New("at least one shot is required (-shot angle,range)")
	}
	if *save && o.configPath == "" {
		return errors.New("-save-to-config requires -config")
	}
	s, err := o.setup(e)
	if err != nil {
		return err
	}

	observed := make([]eb.Shot, len(shots))
	for i, sh := range shots {
		observed[i] = eb.Shot{Angle: sh[0], Range: sh[1]}
	}
	f, solutions, err := s.calculator.SolveFormFactors(ctx, s.projectile, s.conditions, observed)
	if err != nil {
		return err
	}
	if err := s.writer.FormFactors(solutions); err != nil {
		return err
	}
	if !*save {
		return nil
	}

	file := s.file
	file.FormFactors = f.Points()
	if err := config.Save(o.configPath, file); err != nil {
		return err
	}
	level.Info(e.logger).Log("msg", "form factors saved", "config", o.configPath, "points", len(file.FormFactors))
	return nil
}

func runRangeTable(ctx context.Context, e *env, args []string) error {
	o := newOptions("range-table", e.stderr)
	start, end, increment := distanceFlag(1000), distanceFlag(20000), distanceFlag(1000)
	o.fs.Var(&start, "start", fmt.Sprintf("first range, m unless a unit is given; it must be beyond the range at %g°", eb.MinimumDepartureAngle))
	o.fs.Var(&end, "end", "last range, m unless a unit is given")
	o.fs.Var(&increment, "increment", "range increment, m unless a unit is given")
	if err := o.parse(args); err != nil {
		return err
	}
	s, err := o.setup(e)
	if err != nil {
		return err
	}

	rows, err := s.calculator.RangeTableByRange(ctx, s.projectile, s.conditions, float64(start), float64(end), float64(increment))
	if err != nil {
		return err
	}
	if err := s.writer.Projectile(s.projectile, s.conditions); err != nil {
		return err
	}
	return s.writer.RangeTable(s.projectile, rows)
}

func runRangeTableAngle(ctx context.Context, e *env, args []string) error {
	o := newOptions("range-table-angle", e.stderr)
	start, end, increment := angleFlag(1), angleFlag(89), angleFlag(1)
	o.fs.Var(&start, "start", "first departure angle, degrees unless a unit is given")
	o.fs.Var(&end, "end", "last departure angle, degrees unless a unit is given")
	o.fs.Var(&increment, "increment", "departure angle increment, degrees unless a unit is given")
	if err := o.parse(args); err != nil {
		return err
	}
	s, err := o.setup(e)
	if err != nil {
		return err
	}

	rows, err := s.calculator.RangeTableByAngle(ctx, s.projectile, s.conditions, float64(start), float64(end), float64(increment))
	if err != nil {
		return err
	}
	if err := s.writer.Projectile(s.projectile, s.conditions); err != nil {
		return err
	}
	return s.writer.RangeTable(s.projectile, rows)
}

func runMakeConfig(ctx context.Context, e *env, args []string) error {
	o := newOptions("make-config", e.stderr)
	output := o.fs.String("output", "", "configuration file to write; INI on the standard output if not set")
	if err := o.parse(args); err != nil {
		return err
	}
	f, err := o.file()
	if err != nil {
		return err
	}
	// the configuration must describe a valid projectile
	if _, err := f.Projectile(); err != nil {
		return err
	}
	if *output == "" {
		return config.WriteINI(e.stdout, f)
	}
	return config.Save(*output, f)
}

func runDragFunctions(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("drag-functions", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return report.NewWriter(e.stdout, report.Metric).DragFunctions(eb.DragTableNames())
}

func runServe(ctx context.Context, e *env, args []string) error {
	limits := api.DefaultLimits()
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	addr := os.Getenv("MEB_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	fs.StringVar(&addr, "addr", addr, "listen address (MEB_HTTP_ADDR)")
	fs.IntVar(&limits.Workers, "workers", runtime.NumCPU(), "goroutines per request for independent rows and shots")
	fs.IntVar(&limits.MaxRows, "max-rows", limits.MaxRows, "greatest number of range table rows per request")
	fs.IntVar(&limits.MaxSteps, "max-steps", limits.MaxSteps, "greatest number of integration steps per trajectory")
	fs.DurationVar(&limits.RequestTimeout, "timeout", limits.RequestTimeout, "request timeout")
	var verbose bool
	fs.BoolVar(&verbose, "verbose", false, "log debug messages")
	fs.BoolVar(&verbose, "v", false, "shorthand for -verbose")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := api.NewServer(addr, e.logger, limits)
	errc := make(chan error, 1)
	go func() {
		level.Info(e.logger).Log("msg", "starting server", "addr", addr, "workers", limits.Workers)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	level.Info(e.logger).Log("msg", "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	level.Info(e.logger).Log("msg", "server stopped")
	return nil
}
