package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/tractionsim/internal/canbus"
	"github.com/san-kum/tractionsim/internal/config"
	"github.com/san-kum/tractionsim/internal/metrics"
	"github.com/san-kum/tractionsim/internal/sim"
	"github.com/san-kum/tractionsim/internal/storage"
	"github.com/san-kum/tractionsim/internal/vehicle"
	"github.com/san-kum/tractionsim/internal/viz"
)

var (
	canLog   string
	canIface string
	svgOut   string
	plain    bool
	saveLive bool
	sweepMu  []float64
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctrl, err := buildController(cfg)
	if err != nil {
		return err
	}

	set := metrics.Standard(cfg.Vehicle.Params, cfg.Controller.DesiredSlip)
	rec := storage.NewRecorder(recordEvery)
	loop, err := sim.NewLoop(cfg.NewVehicle(), ctrl, cfg.Loop, sim.WithObserver(set), sim.WithObserver(rec))
	if err != nil {
		return err
	}

	var cw *canbus.Writer
	if canLog != "" {
		f, err := os.Create(canLog)
		if err != nil {
			return err
		}
		defer f.Close()
		cw = canbus.NewWriter(f, canIface, recordEvery)
		loop.AddObserver(cw)
	}

	logger.Info("running simulation", "scenario", cfg.Scenario, "controller", cfg.Controller.Kind, "steps", cfg.Steps())
	start := time.Now()

	stats, runErr := loop.RunSteps(cmd.Context(), cfg.Steps())
	var simErr *sim.SimError
	if runErr != nil && !errors.As(runErr, &simErr) {
		return runErr
	}
	if simErr != nil {
		logger.Error("simulation diverged, storing partial run", "step", simErr.Step, "time", simErr.Time, "err", simErr.Message)
	}

	if cw != nil {
		if err := cw.Flush(); err != nil {
			return fmt.Errorf("write candump log: %w", err)
		}
		logger.Info("wrote candump log", "path", canLog)
	}

	runID, err := st.Save(runMetadata(cfg, stats, set), rec.Telemetry())
	if err != nil {
		return err
	}

	if svgOut != "" {
		if err := writeWheelSVG(svgOut, loop.Vehicle().Snapshot()); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%.2fs simulated)\n", stats.Steps, stats.SimTime.Seconds())
	fmt.Printf("final speed: %.3f m/s\n", loop.Vehicle().LinearSpeed())
	printMetrics(set)
	return runErr
}

func runMetadata(cfg *config.Config, stats sim.Stats, set metrics.Set) storage.RunMetadata {
	results := make(map[string]float64, len(set))
	for _, r := range set.Results() {
		results[r.Name] = r.Value
	}
	return storage.RunMetadata{
		Scenario:    cfg.Scenario,
		Seed:        cfg.Seed,
		PhysicsStep: cfg.Loop.PhysicsStep,
		Duration:    stats.SimTime,
		Steps:       stats.Steps,
		WheelCount:  cfg.Vehicle.WheelCount,
		Vehicle:     cfg.Vehicle.Params,
		Controller:  cfg.Controller,
		Metrics:     results,
	}
}

func printMetrics(set metrics.Set) {
	fmt.Println("\nmetrics:")
	for _, r := range set.Results() {
		fmt.Printf("  %s: %.6f\n", r.Name, r.Value)
	}
}

func writeWheelSVG(path string, s vehicle.Snapshot) error {
	c := viz.NewCanvas(40, 10)
	viz.DrawWheels(c, s.Wheels)
	if err := os.WriteFile(path, []byte(c.SVG(4)), 0644); err != nil {
		return err
	}
	logger.Info("wrote wheel drawing", "path", path)
	return nil
}

type liveRenderer interface {
	sim.Renderer
	Start()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctrl, err := buildController(cfg)
	if err != nil {
		return err
	}

	var (
		renderer liveRenderer
		stop     func() error
	)
	if plain {
		r := viz.NewTextRenderer(os.Stdout, cfg.Scenario, cfg.Controller.DesiredSlip, true)
		renderer, stop = r, func() error { r.Stop(); return nil }
	} else {
		d := viz.NewDashboard(cfg.Scenario, cfg.Controller)
		renderer, stop = d, d.Stop
	}

	set := metrics.Standard(cfg.Vehicle.Params, cfg.Controller.DesiredSlip)
	rec := storage.NewRecorder(recordEvery)
	loop, err := sim.NewLoop(cfg.NewVehicle(), ctrl, cfg.Loop,
		sim.WithRenderer(renderer), sim.WithObserver(set), sim.WithObserver(rec))
	if err != nil {
		return err
	}

	// Duration is wall time here: the loop keeps simulated time in step with
	// the clock.
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Duration)
	defer cancel()

	renderer.Start()
	stats, runErr := loop.Run(ctx)
	if err := stop(); err != nil {
		return err
	}
	if errors.Is(runErr, context.DeadlineExceeded) {
		runErr = nil
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	logger.Info("live run finished", "frames", stats.Frames, "steps", stats.Steps, "sim_time", stats.SimTime)
	if saveLive {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runMetadata(cfg, stats, set), rec.Telemetry())
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	printMetrics(set)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepMu) == 0 {
		return fmt.Errorf("sweep needs at least one --mus value")
	}

	sets := make([]metrics.Set, len(sweepMu))
	build := func(idx int) (*sim.Loop, error) {
		member := *cfg
		member.Vehicle.Params.MuPeak = sweepMu[idx]
		ctrl, err := buildController(&member)
		if err != nil {
			return nil, err
		}
		sets[idx] = metrics.Standard(member.Vehicle.Params, member.Controller.DesiredSlip)
		return sim.NewLoop(member.NewVehicle(), ctrl, member.Loop, sim.WithObserver(sets[idx]))
	}

	logger.Info("running sweep", "scenario", cfg.Scenario, "members", len(sweepMu), "steps", cfg.Steps())
	loops, err := sim.NewEnsemble(build, len(sweepMu), cfg.Steps()).Run(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "MU\tFINAL SPEED"
	for _, r := range sets[0].Results() {
		header += "\t" + r.Name
	}
	fmt.Fprintln(w, header)
	for i, l := range loops {
		fmt.Fprintf(w, "%.2f\t%.3f", sweepMu[i], l.Vehicle().LinearSpeed())
		for _, r := range sets[i].Results() {
			fmt.Fprintf(w, "\t%.4f", r.Value)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
