package viz

import (
	"math"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

const spokes = 3

// DrawWheels lays the wheels out left to right, each as a rim with spokes
// turned by its rotation angle.
func DrawWheels(c *Canvas, wheels []vehicle.Wheel) {
	if len(wheels) == 0 {
		return
	}
	pw, ph := c.PixelSize()
	slot := pw / len(wheels)
	r := min(slot/2, ph/2) - 2
	if r < 2 {
		return
	}

	cy := ph / 2
	for i, w := range wheels {
		cx := slot*i + slot/2
		c.DrawCircle(cx, cy, r)
		for k := 0; k < spokes; k++ {
			a := w.RotationAngle + float64(k)*2*math.Pi/spokes
			// Screen y grows downwards; forward rotation is clockwise.
			x := cx + int(math.Round(float64(r-1)*math.Cos(a)))
			y := cy + int(math.Round(float64(r-1)*math.Sin(a)))
			c.DrawLine(cx, cy, x, y)
		}
	}
}
