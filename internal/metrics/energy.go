package metrics

import "github.com/san-kum/tractionsim/internal/vehicle"

// KineticEnergy of the body plus the spinning wheels.
func KineticEnergy(p vehicle.Params, s vehicle.Snapshot) float64 {
	e := 0.5 * p.Mass * s.LinearSpeed * s.LinearSpeed
	for _, w := range s.Wheels {
		e += 0.5 * p.WheelInertia * w.AngularVelocity * w.AngularVelocity
	}
	return e
}

// EnergyDissipated is the kinetic energy lost since the first observed step.
// Drive torque can make it negative.
type EnergyDissipated struct {
	name          string
	params        vehicle.Params
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyDissipated(p vehicle.Params) *EnergyDissipated {
	return &EnergyDissipated{
		name:   "energy_dissipated",
		params: p,
	}
}

func (e *EnergyDissipated) Name() string { return e.name }

func (e *EnergyDissipated) Observe(s vehicle.Snapshot, t float64) {
	energy := KineticEnergy(e.params, s)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyDissipated) Value() float64 {
	return e.initialEnergy - e.currentEnergy
}

func (e *EnergyDissipated) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}
