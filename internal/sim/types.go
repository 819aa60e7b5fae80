package sim

import (
	"time"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

const (
	DefaultPhysicsStep = 10 * time.Millisecond
	DefaultFrameSleep  = 30 * time.Millisecond
)

// Renderer observes the vehicle once per outer iteration and decides when
// the loop stops.
type Renderer interface {
	Render(s vehicle.Snapshot)
	IsRunning() bool
}

// Observer sees the vehicle after every physics step. t is simulated time in
// seconds.
type Observer interface {
	OnStep(s vehicle.Snapshot, t float64)
}

type ObserverFunc func(s vehicle.Snapshot, t float64)

func (f ObserverFunc) OnStep(s vehicle.Snapshot, t float64) { f(s, t) }

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

type LoopConfig struct {
	PhysicsStep time.Duration `yaml:"physics_step" json:"physics_step"`
	FrameSleep  time.Duration `yaml:"frame_sleep" json:"frame_sleep"`
}

func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		PhysicsStep: DefaultPhysicsStep,
		FrameSleep:  DefaultFrameSleep,
	}
}

type Stats struct {
	Frames    int
	Steps     int
	SimTime   time.Duration
	Remainder time.Duration
}
