package storage

import "github.com/san-kum/tractionsim/internal/vehicle"

// Recorder collects telemetry from the simulation loop, keeping every
// Every-th step.
type Recorder struct {
	Every int
	tel   Telemetry
	seen  int
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnStep(s vehicle.Snapshot, t float64) {
	r.seen++
	if (r.seen-1)%r.Every != 0 {
		return
	}
	r.tel.Append(s, t)
}

func (r *Recorder) Telemetry() *Telemetry { return &r.tel }
