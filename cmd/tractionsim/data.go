package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/tractionsim/internal/dataset"
	"github.com/san-kum/tractionsim/internal/inference"
)

var (
	genEntries int
	genSeed    int64
	genWheels  int
	genMu      []float64
	genSpeed   []float64
	genSlip    []float64

	fitOut    string
	fitLambda float64
)

func parseRange(name string, v []float64) (dataset.Range, error) {
	if len(v) != 2 || v[0] > v[1] {
		return dataset.Range{}, fmt.Errorf("--%s wants min,max, got %v", name, v)
	}
	return dataset.Range{Min: v[0], Max: v[1]}, nil
}

func generateDataset(cmd *cobra.Command, args []string) error {
	gcfg := dataset.DefaultGeneratorConfig()
	gcfg.Entries = genEntries
	gcfg.Seed = genSeed
	gcfg.WheelCount = genWheels

	var err error
	if gcfg.Mu, err = parseRange("mu", genMu); err != nil {
		return err
	}
	if gcfg.Speed, err = parseRange("speed", genSpeed); err != nil {
		return err
	}
	if gcfg.Slip, err = parseRange("slip", genSlip); err != nil {
		return err
	}

	sink, err := dataset.Create(args[0])
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := dataset.NewGenerator(gcfg, logger).Generate(cmd.Context(), sink)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %d rows from %d episodes to %s in %v\n",
		stats.Entries, stats.Episodes, args[0], time.Since(start).Round(time.Millisecond))
	return nil
}

func fitModel(cmd *cobra.Command, args []string) error {
	rows, err := dataset.ReadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	logger.Info("loaded dataset", "path", args[0], "rows", len(rows))

	model, err := inference.FitLinear(dataset.Samples(rows), fitLambda)
	if err != nil {
		return err
	}
	if err := inference.SaveModel(fitOut, model); err != nil {
		return err
	}

	// Round-trip through the runtime loader so a bad fit fails here and not
	// at the first control step.
	if _, err := inference.Load(fitOut); err != nil {
		return fmt.Errorf("fitted model does not load: %w", err)
	}
	fmt.Printf("wrote %s (%s, %d samples)\n", fitOut, model.Name, len(rows))
	return nil
}
