package control

import "github.com/san-kum/tractionsim/internal/vehicle"

// Plant is the vehicle surface a controller reads and commands.
type Plant interface {
	WheelCount() int
	SlipRatio(i int) float64
	Wheel(i int) (vehicle.Wheel, bool)
	LinearSpeed() float64
	SetBrakeTorque(i int, torque float64)
	SetDriveTorque(i int, torque float64)
}

// Controller is called once per fixed physics sub-step, before the plant
// integrates.
type Controller interface {
	Update(p Plant, dt float64)
}

const (
	DefaultDesiredSlip    = 0.1
	DefaultMaxBrakeTorque = 200.0 // N·m
	DefaultMaxDriveTorque = 150.0 // N·m
	DefaultBrakeRampRate  = 500.0 // N·m/s
	DefaultDriveRampRate  = 300.0 // N·m/s
)

const (
	KindRamp    = "ramp"
	KindLearned = "learned"
	KindNone    = "none"
)

type Config struct {
	Kind           string  `yaml:"kind" json:"kind"`
	DesiredSlip    float64 `yaml:"desired_slip" json:"desired_slip"`
	MaxBrakeTorque float64 `yaml:"max_brake_torque" json:"max_brake_torque"`
	MaxDriveTorque float64 `yaml:"max_drive_torque" json:"max_drive_torque"`
	BrakeRampRate  float64 `yaml:"brake_ramp_rate" json:"brake_ramp_rate"`
	DriveRampRate  float64 `yaml:"drive_ramp_rate" json:"drive_ramp_rate"`
	ModelPath      string  `yaml:"model_path,omitempty" json:"model_path,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Kind:           KindRamp,
		DesiredSlip:    DefaultDesiredSlip,
		MaxBrakeTorque: DefaultMaxBrakeTorque,
		MaxDriveTorque: DefaultMaxDriveTorque,
		BrakeRampRate:  DefaultBrakeRampRate,
		DriveRampRate:  DefaultDriveRampRate,
	}
}
