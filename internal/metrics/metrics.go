package metrics

import "github.com/san-kum/tractionsim/internal/vehicle"

// Metric accumulates one scalar over a run, fed after every physics step.
type Metric interface {
	Name() string
	Observe(s vehicle.Snapshot, t float64)
	Value() float64
	Reset()
}

// Set fans a step out to several metrics. It satisfies sim.Observer.
type Set []Metric

func (s Set) OnStep(snap vehicle.Snapshot, t float64) {
	for _, m := range s {
		m.Observe(snap, t)
	}
}

type Result struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func (s Set) Results() []Result {
	out := make([]Result, len(s))
	for i, m := range s {
		out[i] = Result{Name: m.Name(), Value: m.Value()}
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Standard is the metric set recorded with every stored run.
func Standard(p vehicle.Params, desiredSlip float64) Set {
	return Set{
		NewSlipTracking(desiredSlip),
		NewControlEffort(),
		NewDistance(),
		NewEnergyDissipated(p),
		NewSlipStability(0.5),
		NewSlipOscillation(),
	}
}
