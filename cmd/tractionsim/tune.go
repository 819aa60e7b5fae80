package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/san-kum/tractionsim/internal/config"
	"github.com/san-kum/tractionsim/internal/tune"
)

var (
	tuneBrakeRates []float64
	tuneDriveRates []float64
	tuneMetric     string
	tuneSave       string
)

func tuneController(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	g := tune.NewGridSearch(
		tune.Param{Name: "brake_ramp_rate", Values: tuneBrakeRates},
		tune.Param{Name: "drive_ramp_rate", Values: tuneDriveRates},
	)
	logger.Info("tuning ramp rates", "scenario", cfg.Scenario, "points", g.Size(), "metric", tuneMetric)

	res, err := g.Search(cmd.Context(), tune.RunObjective(cfg, tuneMetric, controllerOptions(cfg)...))
	if err != nil {
		return err
	}

	names := make([]string, 0, len(res.Params))
	for name := range res.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("evaluated %d points\n", res.Evaluated)
	fmt.Printf("best %s: %.6f\n", tuneMetric, res.Value)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, res.Params[name])
	}

	if tuneSave == "" {
		return nil
	}
	if err := tune.Apply(&cfg.Controller, res.Params); err != nil {
		return err
	}
	if err := config.Save(tuneSave, cfg); err != nil {
		return err
	}
	logger.Info("wrote tuned config", "path", tuneSave)
	return nil
}
