package metrics

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

// PowerSpectrum returns the one-sided magnitude spectrum of data with its
// mean removed. Bin k is k/(len(data)*dt) Hz.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	bins := fft.FFTReal(centred)
	ps := make([]float64, len(bins)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// SlipOscillation is the dominant frequency, in Hz, of the mean slip signal.
// A controller that hunts around its target shows up as a clear peak; a
// settled one reads 0.
type SlipOscillation struct {
	name   string
	slips  []float64
	first  float64
	last   float64
	minAmp float64
}

func NewSlipOscillation() *SlipOscillation {
	return &SlipOscillation{name: "slip_peak_hz", minAmp: 1e-6}
}

func (s *SlipOscillation) Name() string { return s.name }

func (s *SlipOscillation) Observe(snap vehicle.Snapshot, t float64) {
	if len(s.slips) == 0 {
		s.first = t
	}
	s.last = t
	s.slips = append(s.slips, snap.MeanSlip())
}

func (s *SlipOscillation) Value() float64 {
	n := len(s.slips)
	if n < 4 || s.last <= s.first {
		return 0
	}
	dt := (s.last - s.first) / float64(n-1)

	ps := PowerSpectrum(s.slips)
	peak, peakAmp := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peakAmp {
			peak, peakAmp = k, ps[k]
		}
	}
	if peakAmp/float64(n) < s.minAmp || math.IsNaN(peakAmp) {
		return 0
	}
	return float64(peak) / (float64(n) * dt)
}

func (s *SlipOscillation) Reset() {
	s.slips = s.slips[:0]
	s.first, s.last = 0, 0
}
