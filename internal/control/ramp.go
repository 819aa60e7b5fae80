package control

import "math"

// Ramp is a proportional ramp controller: the rate of torque change, not the
// torque itself, is proportional to the slip error. It keeps no state between
// calls, so one instance can drive any number of wheels.
type Ramp struct {
	desiredSlip    float64
	maxBrakeTorque float64
	maxDriveTorque float64
	brakeRampRate  float64
	driveRampRate  float64
}

func NewRamp(cfg Config) *Ramp {
	return &Ramp{
		desiredSlip:    cfg.DesiredSlip,
		maxBrakeTorque: cfg.MaxBrakeTorque,
		maxDriveTorque: cfg.MaxDriveTorque,
		brakeRampRate:  cfg.BrakeRampRate,
		driveRampRate:  cfg.DriveRampRate,
	}
}

func (r *Ramp) DesiredSlip() float64 { return r.desiredSlip }

func (r *Ramp) Limits() (maxBrake, maxDrive float64) {
	return r.maxBrakeTorque, r.maxDriveTorque
}

func (r *Ramp) Update(p Plant, dt float64) {
	for i := 0; i < p.WheelCount(); i++ {
		r.updateWheel(p, i, dt)
	}
}

func (r *Ramp) updateWheel(p Plant, i int, dt float64) {
	w, ok := p.Wheel(i)
	if !ok {
		return
	}
	brake, drive := r.Desired(p.SlipRatio(i), w.BrakeTorque, w.DriveTorque, dt)
	p.SetBrakeTorque(i, brake)
	p.SetDriveTorque(i, drive)
}

// Desired returns the brake and drive torque the ramp law commands for one
// wheel after dt, given its slip and current torques.
func (r *Ramp) Desired(slip, brake, drive, dt float64) (float64, float64) {
	slipError := slip - r.desiredSlip

	if slipError > 0 {
		// Too much slip: ramp brake up, drive down.
		newBrake := math.Min(r.maxBrakeTorque, brake+r.brakeRampRate*slipError*dt)
		newDrive := math.Max(0, drive-r.driveRampRate*slipError*dt)
		return newBrake, newDrive
	}

	slipMag := -slipError
	newBrake := math.Max(0, brake-r.brakeRampRate*slipMag*dt)
	newDrive := math.Min(r.maxDriveTorque, drive+r.driveRampRate*slipMag*dt)
	return newBrake, newDrive
}
