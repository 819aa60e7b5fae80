package metrics

import (
	"math"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

// SlipTracking is the RMS error between wheel slip and the target slip over
// all wheels and steps.
type SlipTracking struct {
	name    string
	target  float64
	sumSq   float64
	samples int
}

func NewSlipTracking(target float64) *SlipTracking {
	return &SlipTracking{name: "slip_rms_error", target: target}
}

func (s *SlipTracking) Name() string { return s.name }

func (s *SlipTracking) Observe(snap vehicle.Snapshot, t float64) {
	for _, slip := range snap.Slips {
		e := slip - s.target
		s.sumSq += e * e
		s.samples++
	}
}

func (s *SlipTracking) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return math.Sqrt(s.sumSq / float64(s.samples))
}

func (s *SlipTracking) Reset() {
	s.sumSq = 0
	s.samples = 0
}

// Distance integrates body speed over simulated time.
type Distance struct {
	name     string
	total    float64
	lastTime float64
}

func NewDistance() *Distance { return &Distance{name: "distance"} }

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(snap vehicle.Snapshot, t float64) {
	if dt := t - d.lastTime; dt > 0 {
		d.total += snap.LinearSpeed * dt
	}
	d.lastTime = t
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.total = 0
	d.lastTime = 0
}
