// Command meb calculates trajectories, range tables and form factors of
// artillery projectiles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type command struct {
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

var commands = map[string]command{
	"single":            {"calculate one trajectory", runSingle},
	"max-range":         {"find the maximum range", runMaxRange},
	"match-range":       {"find the departure angles for target ranges", runMatchRange},
	"find-ff":           {"find the form factors which reproduce observed shots", runFindFormFactor},
	"range-table":       {"build a range table by range", runRangeTable},
	"range-table-angle": {"build a range table by departure angle", runRangeTableAngle},
	"make-config":       {"write a projectile configuration file", runMakeConfig},
	"drag-functions":    {"list the built-in drag functions", runDragFunctions},
	"serve":             {"run the HTTP API", runServe},
}

// env is what the subcommands print to.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger log.Logger
}

// newLogger builds the logfmt logger on w; debug messages pass only when verbose.
func newLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: meb <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-18s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "run meb <command> -h for the flags of the command")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	name := args[0]
	if name == "-h" || name == "--help" || name == "help" {
		usage(stdout)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return 2
	}

	e := &env{stdout: stdout, stderr: stderr, logger: newLogger(stderr, verbose(args[1:]))}
	if err := cmd.run(ctx, e, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		level.Error(e.logger).Log("cmd", name, "err", err)
		return 1
	}
	return 0
}

// verbose looks for the verbose flag before the flags are parsed so the logger
// is ready for the subcommand.
func verbose(args []string) bool {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			continue
		}
		switch strings.TrimLeft(a, "-") {
		case "v", "verbose", "v=true", "verbose=true":
			return true
		}
	}
	return false
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
