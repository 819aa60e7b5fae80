package vehicle

// Snapshot is a read-only copy of the vehicle state taken between physics
// steps.
type Snapshot struct {
	LinearSpeed float64
	Wheels      []Wheel
	Slips       []float64
}

func (v *Vehicle) Snapshot() Snapshot {
	s := Snapshot{
		LinearSpeed: v.linearSpeed,
		Wheels:      v.Wheels(),
		Slips:       make([]float64, len(v.wheels)),
	}
	for i := range v.wheels {
		s.Slips[i] = v.SlipRatio(i)
	}
	return s
}

func (s Snapshot) MeanSlip() float64 {
	if len(s.Slips) == 0 {
		return 0
	}
	sum := 0.0
	for _, slip := range s.Slips {
		sum += slip
	}
	return sum / float64(len(s.Slips))
}

func (s Snapshot) TotalTorque() (brake, drive float64) {
	for _, w := range s.Wheels {
		brake += w.BrakeTorque
		drive += w.DriveTorque
	}
	return brake, drive
}
