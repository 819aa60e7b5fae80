package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/sim"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

const (
	DefaultInitialSpeed = 20.0
	DefaultDuration     = 20 * time.Second
	DefaultScenario     = "dry"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Scenario   string         `yaml:"scenario"`
	Vehicle    VehicleConfig  `yaml:"vehicle"`
	Controller control.Config `yaml:"controller"`
	Loop       sim.LoopConfig `yaml:"loop"`
	Duration   time.Duration  `yaml:"duration"`
	Seed       int64          `yaml:"seed"`
}

type VehicleConfig struct {
	InitialSpeed float64        `yaml:"initial_speed"`
	WheelCount   int            `yaml:"wheel_count"`
	LockWheels   bool           `yaml:"lock_wheels"`
	Params       vehicle.Params `yaml:",inline"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Vehicle: VehicleConfig{
			InitialSpeed: DefaultInitialSpeed,
			WheelCount:   vehicle.DefaultWheelCount,
			Params:       vehicle.DefaultParams(),
		},
		Controller: control.DefaultConfig(),
		Loop:       sim.DefaultLoopConfig(),
		Duration:   DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	v := c.Vehicle
	switch {
	case v.WheelCount < 1:
		return fmt.Errorf("%w: wheel_count must be at least 1, got %d", ErrInvalidConfig, v.WheelCount)
	case v.InitialSpeed < 0:
		return fmt.Errorf("%w: initial_speed must be non-negative, got %g", ErrInvalidConfig, v.InitialSpeed)
	case v.Params.WheelRadius <= vehicle.MinWheelRadius:
		return fmt.Errorf("%w: wheel_radius too small: %g", ErrInvalidConfig, v.Params.WheelRadius)
	case v.Params.Mass <= 0:
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidConfig, v.Params.Mass)
	case v.Params.WheelInertia <= 0:
		return fmt.Errorf("%w: wheel_inertia must be positive, got %g", ErrInvalidConfig, v.Params.WheelInertia)
	case v.Params.MuPeak < 0:
		return fmt.Errorf("%w: mu_peak must be non-negative, got %g", ErrInvalidConfig, v.Params.MuPeak)
	}

	ctrl := c.Controller
	if !slices.Contains(control.Kinds(), ctrl.Kind) {
		return fmt.Errorf("%w: unknown controller %q", ErrInvalidConfig, ctrl.Kind)
	}
	if ctrl.DesiredSlip < 0 || ctrl.MaxBrakeTorque < 0 || ctrl.MaxDriveTorque < 0 ||
		ctrl.BrakeRampRate < 0 || ctrl.DriveRampRate < 0 {
		return fmt.Errorf("%w: controller limits must be non-negative", ErrInvalidConfig)
	}

	if c.Loop.PhysicsStep <= 0 {
		return fmt.Errorf("%w: physics_step must be positive, got %v", ErrInvalidConfig, c.Loop.PhysicsStep)
	}
	if c.Loop.FrameSleep < 0 {
		return fmt.Errorf("%w: frame_sleep must be non-negative, got %v", ErrInvalidConfig, c.Loop.FrameSleep)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	return nil
}

// Steps is the number of whole physics steps that fit in Duration.
func (c *Config) Steps() int {
	if c.Loop.PhysicsStep <= 0 {
		return 0
	}
	return int(c.Duration / c.Loop.PhysicsStep)
}

// NewVehicle builds the vehicle described by the config, with its wheels
// stopped when LockWheels is set.
func (c *Config) NewVehicle() *vehicle.Vehicle {
	v := vehicle.New(c.Vehicle.InitialSpeed, c.Vehicle.WheelCount, c.Vehicle.Params)
	if c.Vehicle.LockWheels {
		for i := 0; i < v.WheelCount(); i++ {
			v.SetAngularVelocity(i, 0)
		}
	}
	return v
}
