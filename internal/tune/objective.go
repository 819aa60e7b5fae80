package tune

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/tractionsim/internal/config"
	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/metrics"
	"github.com/san-kum/tractionsim/internal/sim"
)

var ErrUnknownParam = errors.New("tune: unknown controller parameter")

// Apply sets controller fields by their config key.
func Apply(cfg *control.Config, params map[string]float64) error {
	for name, v := range params {
		switch name {
		case "desired_slip":
			cfg.DesiredSlip = v
		case "max_brake_torque":
			cfg.MaxBrakeTorque = v
		case "max_drive_torque":
			cfg.MaxDriveTorque = v
		case "brake_ramp_rate":
			cfg.BrakeRampRate = v
		case "drive_ramp_rate":
			cfg.DriveRampRate = v
		default:
			return fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
	}
	return nil
}

// RunObjective scores a grid point by running base headless with the point
// applied and reading the named metric. Runs that diverge score +Inf.
func RunObjective(base *config.Config, metric string, opts ...control.Option) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := *base
		if err := Apply(&cfg.Controller, params); err != nil {
			return 0, err
		}
		ctrl, err := control.Build(cfg.Controller, opts...)
		if err != nil {
			return 0, err
		}

		// Metrics score against the base target so desired_slip can be tuned.
		set := metrics.Standard(cfg.Vehicle.Params, base.Controller.DesiredSlip)
		loop, err := sim.NewLoop(cfg.NewVehicle(), ctrl, cfg.Loop, sim.WithObserver(set))
		if err != nil {
			return 0, err
		}

		_, err = loop.RunSteps(ctx, cfg.Steps())
		var simErr *sim.SimError
		if errors.As(err, &simErr) {
			return math.Inf(1), nil
		}
		if err != nil {
			return 0, err
		}

		for _, r := range set.Results() {
			if r.Name == metric {
				return r.Value, nil
			}
		}
		return 0, fmt.Errorf("tune: no metric %q", metric)
	}
}
