package viz

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// TextRenderer writes one plain frame per render. It runs until Stop; the
// caller bounds it with a context deadline.
type TextRenderer struct {
	w       io.Writer
	title   string
	target  float64
	canvas  *Canvas
	frames  int
	stopped atomic.Bool
	ansi    bool
}

func NewTextRenderer(w io.Writer, title string, targetSlip float64, ansi bool) *TextRenderer {
	return &TextRenderer{
		w:      w,
		title:  title,
		target: targetSlip,
		canvas: NewCanvas(canvasWidth, canvasHeight),
		ansi:   ansi,
	}
}

func (r *TextRenderer) Start() {
	if r.ansi {
		fmt.Fprint(r.w, hideCursor)
	}
}

func (r *TextRenderer) Stop() {
	r.stopped.Store(true)
	if r.ansi {
		fmt.Fprint(r.w, showCursor)
	}
}

func (r *TextRenderer) IsRunning() bool { return !r.stopped.Load() }

func (r *TextRenderer) Frames() int { return r.frames }

func (r *TextRenderer) Render(s vehicle.Snapshot) {
	r.frames++
	r.canvas.Clear()
	DrawWheels(r.canvas, s.Wheels)

	var b strings.Builder
	if r.ansi {
		b.WriteString(clearScreen)
	}
	fmt.Fprintf(&b, "  %s  frame=%d\n", r.title, r.frames)
	b.WriteString("  " + strings.Repeat("-", canvasWidth) + "\n")
	for _, line := range strings.Split(strings.TrimRight(r.canvas.String(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", canvasWidth) + "\n")

	fmt.Fprintf(&b, "  v=%.2f m/s  slip=%+.4f  target=%.3f\n", s.LinearSpeed, s.MeanSlip(), r.target)
	for i, w := range s.Wheels {
		slip := 0.0
		if i < len(s.Slips) {
			slip = s.Slips[i]
		}
		fmt.Fprintf(&b, "  w%d slip=%+.4f omega=%.2f brake=%.1f drive=%.1f\n",
			i, slip, w.AngularVelocity, w.BrakeTorque, w.DriveTorque)
	}

	io.WriteString(r.w, b.String())
}
