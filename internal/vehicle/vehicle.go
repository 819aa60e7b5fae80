package vehicle

import "math"

const (
	Gravity        = 9.81
	SlipEpsilon    = 0.001
	FrictionShape  = 10.0
	MinWheelRadius = 1e-5

	DefaultWheelCount   = 4
	DefaultWheelRadius  = 0.3
	DefaultMass         = 1200.0
	DefaultWheelInertia = 1.0
	DefaultMuPeak       = 1.0
	DefaultSlipOpt      = 0.1
)

type Wheel struct {
	AngularVelocity float64
	BrakeTorque     float64
	DriveTorque     float64
	RotationAngle   float64
}

// Params are the constant physical parameters of a vehicle. SlipOpt is kept
// for configuration round-trips; the friction curve does not read it.
type Params struct {
	WheelRadius  float64 `yaml:"wheel_radius" json:"wheel_radius"`
	Mass         float64 `yaml:"mass" json:"mass"`
	WheelInertia float64 `yaml:"wheel_inertia" json:"wheel_inertia"`
	MuPeak       float64 `yaml:"mu_peak" json:"mu_peak"`
	SlipOpt      float64 `yaml:"slip_opt" json:"slip_opt"`
}

func DefaultParams() Params {
	return Params{
		WheelRadius:  DefaultWheelRadius,
		Mass:         DefaultMass,
		WheelInertia: DefaultWheelInertia,
		MuPeak:       DefaultMuPeak,
		SlipOpt:      DefaultSlipOpt,
	}
}

type Vehicle struct {
	params      Params
	linearSpeed float64
	wheels      []Wheel
}

func New(initialSpeed float64, wheelCount int, p Params) *Vehicle {
	initialSpeed = math.Max(0, initialSpeed)
	if wheelCount < 0 {
		wheelCount = 0
	}

	omega := 0.0
	if p.WheelRadius > MinWheelRadius {
		omega = initialSpeed / p.WheelRadius
	}

	wheels := make([]Wheel, wheelCount)
	for i := range wheels {
		wheels[i].AngularVelocity = omega
	}

	return &Vehicle{
		params:      p,
		linearSpeed: initialSpeed,
		wheels:      wheels,
	}
}

func (v *Vehicle) Params() Params       { return v.params }
func (v *Vehicle) LinearSpeed() float64 { return v.linearSpeed }
func (v *Vehicle) WheelCount() int      { return len(v.wheels) }

func (v *Vehicle) Wheel(i int) (Wheel, bool) {
	if !v.valid(i) {
		return Wheel{}, false
	}
	return v.wheels[i], true
}

// Wheels returns a copy of the wheel states.
func (v *Vehicle) Wheels() []Wheel {
	out := make([]Wheel, len(v.wheels))
	copy(out, v.wheels)
	return out
}

// SlipRatio is positive when the wheel rim runs faster than the body
// (wheelspin) and negative when it runs slower (locking). Out-of-range
// indices read as zero slip.
func (v *Vehicle) SlipRatio(i int) float64 {
	if !v.valid(i) {
		return 0.0
	}
	wheelLinSpeed := v.wheels[i].AngularVelocity * v.params.WheelRadius
	denom := math.Max(v.linearSpeed, SlipEpsilon)
	return (wheelLinSpeed - v.linearSpeed) / denom
}

func (v *Vehicle) SetBrakeTorque(i int, torque float64) {
	if v.valid(i) {
		v.wheels[i].BrakeTorque = math.Max(0, torque)
	}
}

func (v *Vehicle) SetDriveTorque(i int, torque float64) {
	if v.valid(i) {
		v.wheels[i].DriveTorque = math.Max(0, torque)
	}
}

// SetAngularVelocity overrides a wheel's spin, e.g. to start a run with the
// wheels locked.
func (v *Vehicle) SetAngularVelocity(i int, omega float64) {
	if v.valid(i) {
		v.wheels[i].AngularVelocity = math.Max(0, omega)
	}
}

// SetMuPeak changes the road friction coefficient.
func (v *Vehicle) SetMuPeak(mu float64) {
	v.params.MuPeak = math.Max(0, mu)
}

func (v *Vehicle) valid(i int) bool {
	return i >= 0 && i < len(v.wheels)
}
