package control

// None leaves every torque where it is. Used for coasting runs.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Update(p Plant, dt float64) {}
