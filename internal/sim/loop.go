package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

type Loop struct {
	veh       *vehicle.Vehicle
	ctrl      control.Controller
	renderer  Renderer
	clock     Clock
	cfg       LoopConfig
	observers []Observer

	accumulator time.Duration
	steps       int
	frames      int
}

type Option func(*Loop)

func WithRenderer(r Renderer) Option { return func(l *Loop) { l.renderer = r } }
func WithClock(c Clock) Option       { return func(l *Loop) { l.clock = c } }
func WithObserver(o Observer) Option {
	return func(l *Loop) { l.observers = append(l.observers, o) }
}

func NewLoop(veh *vehicle.Vehicle, ctrl control.Controller, cfg LoopConfig, opts ...Option) (*Loop, error) {
	if cfg.PhysicsStep <= 0 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidStep, cfg.PhysicsStep)
	}
	if cfg.FrameSleep < 0 {
		cfg.FrameSleep = 0
	}
	if ctrl == nil {
		ctrl = control.NewNone()
	}
	l := &Loop{
		veh:   veh,
		ctrl:  ctrl,
		clock: SystemClock{},
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) Vehicle() *vehicle.Vehicle { return l.veh }

// SimTime is the simulated time covered by the steps taken so far.
func (l *Loop) SimTime() time.Duration {
	return time.Duration(l.steps) * l.cfg.PhysicsStep
}

func (l *Loop) Stats() Stats {
	return Stats{
		Frames:    l.frames,
		Steps:     l.steps,
		SimTime:   l.SimTime(),
		Remainder: l.accumulator,
	}
}

// Step runs the controller and then the physics once, for one fixed step.
func (l *Loop) Step() {
	dt := l.cfg.PhysicsStep.Seconds()
	l.ctrl.Update(l.veh, dt)
	l.veh.Update(dt)
	l.steps++

	if len(l.observers) == 0 {
		return
	}
	snap := l.veh.Snapshot()
	t := l.SimTime().Seconds()
	for _, o := range l.observers {
		o.OnStep(snap, t)
	}
}

// Advance adds frame to the accumulator and drains it in whole physics steps.
// It returns the number of steps taken.
func (l *Loop) Advance(frame time.Duration) int {
	if frame > 0 {
		l.accumulator += frame
	}
	n := 0
	for l.accumulator >= l.cfg.PhysicsStep {
		l.Step()
		l.accumulator -= l.cfg.PhysicsStep
		n++
	}
	return n
}

// Run is the real-time loop. It returns when the renderer stops running or
// ctx is done.
func (l *Loop) Run(ctx context.Context) (Stats, error) {
	if l.renderer == nil {
		return l.Stats(), ErrNoRenderer
	}

	prev := l.clock.Now()
	for l.renderer.IsRunning() {
		select {
		case <-ctx.Done():
			return l.Stats(), ctx.Err()
		default:
		}

		now := l.clock.Now()
		l.Advance(now.Sub(prev))
		prev = now

		l.renderer.Render(l.veh.Snapshot())
		l.frames++

		l.clock.Sleep(l.cfg.FrameSleep)
	}
	return l.Stats(), nil
}

// RunSteps steps the physics n times with no rendering and no sleeping. It
// stops with a *SimError if the state stops being finite.
func (l *Loop) RunSteps(ctx context.Context, n int) (Stats, error) {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return l.Stats(), ctx.Err()
		default:
		}
		l.Step()
		if msg := checkState(l.veh.Snapshot()); msg != "" {
			return l.Stats(), &SimError{Step: l.steps, Time: l.SimTime(), Message: msg}
		}
	}
	return l.Stats(), nil
}
