package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

type GeneratorConfig struct {
	Entries    int
	WheelCount int
	Params     vehicle.Params
	Controller control.Config
	Mu         Range
	Speed      Range
	Slip       Range
	MinSteps   int
	MaxSteps   int
	Step       time.Duration
	Seed       int64
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Entries:    1000,
		WheelCount: vehicle.DefaultWheelCount,
		Params:     vehicle.DefaultParams(),
		Controller: control.DefaultConfig(),
		Mu:         Range{Min: 0.5, Max: 1.0},
		Speed:      Range{Min: 5, Max: 25},
		Slip:       Range{Min: 0.05, Max: 0.15},
		MinSteps:   500,
		MaxSteps:   1500,
		Step:       10 * time.Millisecond,
		Seed:       1,
	}
}

type GenerateStats struct {
	Entries  int
	Episodes int
}

// Generator runs randomised ramp-controlled episodes and logs one row per
// wheel per step until the requested number of entries is written.
type Generator struct {
	cfg    GeneratorConfig
	rng    *rand.Rand
	logger *log.Logger
}

func NewGenerator(cfg GeneratorConfig, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxSteps < cfg.MinSteps {
		cfg.MaxSteps = cfg.MinSteps
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger.With("component", "generator"),
	}
}

func (g *Generator) Generate(ctx context.Context, sink Sink) (GenerateStats, error) {
	var stats GenerateStats
	if g.cfg.WheelCount < 1 {
		return stats, fmt.Errorf("generator needs at least one wheel, got %d", g.cfg.WheelCount)
	}
	if g.cfg.Step <= 0 {
		return stats, fmt.Errorf("generator step must be positive, got %v", g.cfg.Step)
	}

	recorder, _ := sink.(EpisodeRecorder)
	for stats.Entries < g.cfg.Entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ep := Episode{
			MuPeak:       g.cfg.Mu.draw(g.rng),
			InitialSpeed: g.cfg.Speed.draw(g.rng),
			DesiredSlip:  g.cfg.Slip.draw(g.rng),
			Steps:        g.cfg.MinSteps + g.rng.Intn(g.cfg.MaxSteps-g.cfg.MinSteps+1),
		}
		if recorder != nil {
			id, err := recorder.StartEpisode(ep)
			if err != nil {
				return stats, fmt.Errorf("start episode: %w", err)
			}
			ep.ID = id
		}

		rows := g.runEpisode(ep, g.cfg.Entries-stats.Entries)
		if err := sink.Write(rows...); err != nil {
			return stats, fmt.Errorf("write episode %d: %w", stats.Episodes, err)
		}
		stats.Entries += len(rows)
		stats.Episodes++

		g.logger.Debug("episode done",
			"mu", ep.MuPeak, "speed", ep.InitialSpeed, "slip", ep.DesiredSlip,
			"steps", ep.Steps, "rows", len(rows))
	}

	g.logger.Info("generation complete", "entries", stats.Entries, "episodes", stats.Episodes)
	return stats, nil
}

// runEpisode logs at most limit rows. Each step updates the controller, logs
// the state with the torques the ramp law would command next, then
// integrates the physics.
func (g *Generator) runEpisode(ep Episode, limit int) []Row {
	veh := vehicle.New(ep.InitialSpeed, g.cfg.WheelCount, g.cfg.Params)
	veh.SetMuPeak(ep.MuPeak)

	ctrlCfg := g.cfg.Controller
	ctrlCfg.DesiredSlip = ep.DesiredSlip
	ramp := control.NewRamp(ctrlCfg)

	dt := g.cfg.Step.Seconds()
	rows := make([]Row, 0, min(limit, ep.Steps*veh.WheelCount()))
	for step := 0; step < ep.Steps && len(rows) < limit; step++ {
		ramp.Update(veh, dt)

		for i := 0; i < veh.WheelCount() && len(rows) < limit; i++ {
			w, _ := veh.Wheel(i)
			slip := veh.SlipRatio(i)
			brake, drive := ramp.Desired(slip, w.BrakeTorque, w.DriveTorque, dt)
			rows = append(rows, Row{
				WheelIndex:         i,
				SlipRatio:          slip,
				AngularVelocity:    w.AngularVelocity,
				LinearSpeed:        veh.LinearSpeed(),
				CurrentBrakeTorque: w.BrakeTorque,
				CurrentDriveTorque: w.DriveTorque,
				DesiredBrakeTorque: brake,
				DesiredDriveTorque: drive,
			})
		}

		veh.Update(dt)
	}
	return rows
}
