package metrics

import "github.com/san-kum/tractionsim/internal/vehicle"

// ControlEffort is the mean total commanded torque (brake plus drive, all
// wheels) per step.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s vehicle.Snapshot, t float64) {
	brake, drive := s.TotalTorque()
	c.sum += brake + drive
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
