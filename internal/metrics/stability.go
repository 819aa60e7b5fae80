package metrics

import (
	"math"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

// SlipStability is the fraction of steps on which every wheel's slip stays
// within ±threshold.
type SlipStability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewSlipStability(threshold float64) *SlipStability {
	return &SlipStability{
		name:      "slip_stability",
		threshold: threshold,
	}
}

func (s *SlipStability) Name() string {
	return s.name
}

func (s *SlipStability) Observe(snap vehicle.Snapshot, t float64) {
	s.samples++
	for _, slip := range snap.Slips {
		if math.Abs(slip) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *SlipStability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SlipStability) Reset() {
	s.violations = 0
	s.samples = 0
}
