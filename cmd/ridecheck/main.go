package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/milk9111/powder/scenario"
)

func main() {
	scenes := flag.String("scenes", "hover,hop,crates", "comma separated scene files in prefabs/ (basename, .yaml optional)")
	ticks := flag.Int("ticks", 0, "override the tick count of every scene")
	debug := flag.Bool("debug", false, "log grounded and jump transitions")
	maxError := flag.Float64("max-error", 0, "fail when a scene's final ride distance misses the ride height by more than this (0 disables)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{ticks: *ticks, debug: *debug, maxError: *maxError}
	if err := run(ctx, splitNames(*scenes), opts, os.Stdout); err != nil {
		stop()
		log.Fatal(err)
	}
}

type options struct {
	ticks    int
	debug    bool
	maxError float64
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// run executes every scene in order and prints one report per scene. It stops
// at the first scene that fails to load or run.
func run(ctx context.Context, names []string, opts options, out io.Writer) error {
	if len(names) == 0 {
		return fmt.Errorf("ridecheck: no scenes given")
	}
	var failed []string
	for _, name := range names {
		scene, err := scenario.Load(name)
		if err != nil {
			return err
		}
		if scene.Input == nil {
			return fmt.Errorf("ridecheck: scene %s has no script", name)
		}
		if opts.ticks > 0 {
			scene.Ticks = opts.ticks
		}
		scene.Debug = scene.Debug || opts.debug

		res, err := scenario.Run(ctx, scene)
		if err != nil {
			return err
		}
		report(out, res, scene.Config.RideHeight)

		if opts.maxError > 0 && math.Abs(res.FinalRideDistance-scene.Config.RideHeight) > opts.maxError {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("ridecheck: ride height missed in %s", strings.Join(failed, ", "))
	}
	return nil
}

func report(out io.Writer, res scenario.Result, rideHeight float64) {
	fmt.Fprintf(out, "%s (%d ticks)\n", res.Name, res.Ticks)
	fmt.Fprintf(out, "  ride     final %.4f  min %.4f  max %.4f  target %.4f\n", res.FinalRideDistance, res.MinRideDistance, res.MaxRideDistance, rideHeight)
	fmt.Fprintf(out, "  grounded %d ticks\n", res.GroundedTicks)
	fmt.Fprintf(out, "  jumps    %d  max height %.3f\n", res.Jumps, res.MaxHeight)
	fmt.Fprintf(out, "  final    speed %.3f  position (%.3f, %.3f)\n", res.FinalSpeed, res.FinalPosition.X(), res.FinalPosition.Y())
}
