package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

func newTestLoop(t *testing.T, cfg LoopConfig) *Loop {
	t.Helper()
	l, err := NewLoop(vehicle.New(5, 4, vehicle.DefaultParams()), control.NewNone(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

func TestNewLoopRejectsNonPositiveStep(t *testing.T) {
	for _, step := range []time.Duration{0, -time.Millisecond} {
		_, err := NewLoop(vehicle.New(5, 4, vehicle.DefaultParams()), nil, LoopConfig{PhysicsStep: step})
		if !errors.Is(err, ErrInvalidStep) {
			t.Errorf("step %v: expected ErrInvalidStep, got %v", step, err)
		}
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name      string
		frames    []time.Duration
		steps     int
		remainder time.Duration
	}{
		{"none", nil, 0, 0},
		{"short frame", []time.Duration{3 * time.Millisecond}, 0, 3 * time.Millisecond},
		{"exact", []time.Duration{10 * time.Millisecond}, 1, 0},
		{"carry", []time.Duration{7 * time.Millisecond, 7 * time.Millisecond}, 1, 4 * time.Millisecond},
		{"long frame", []time.Duration{95 * time.Millisecond}, 9, 5 * time.Millisecond},
		{"negative ignored", []time.Duration{-time.Second, 12 * time.Millisecond}, 1, 2 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoop(t, DefaultLoopConfig())
			total := 0
			for _, f := range tt.frames {
				total += l.Advance(f)
			}
			st := l.Stats()
			if total != tt.steps || st.Steps != tt.steps {
				t.Errorf("expected %d steps, got %d (stats %d)", tt.steps, total, st.Steps)
			}
			if st.Remainder != tt.remainder {
				t.Errorf("expected remainder %v, got %v", tt.remainder, st.Remainder)
			}
		})
	}
}

func TestRunNeedsRenderer(t *testing.T) {
	l := newTestLoop(t, DefaultLoopConfig())
	if _, err := l.Run(context.Background()); !errors.Is(err, ErrNoRenderer) {
		t.Errorf("expected ErrNoRenderer, got %v", err)
	}
}

func TestRunStepsObserverTime(t *testing.T) {
	l := newTestLoop(t, DefaultLoopConfig())
	var times []float64
	l.AddObserver(ObserverFunc(func(_ vehicle.Snapshot, t float64) { times = append(times, t) }))

	st, err := l.RunSteps(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Steps != 3 || st.SimTime != 30*time.Millisecond {
		t.Errorf("expected 3 steps over 30ms, got %d over %v", st.Steps, st.SimTime)
	}
	want := []float64{0.01, 0.02, 0.03}
	for i, w := range want {
		if d := times[i] - w; d > 1e-12 || d < -1e-12 {
			t.Errorf("step %d: expected t=%v, got %v", i, w, times[i])
		}
	}
}

func TestEnsembleRunsMembersIndependently(t *testing.T) {
	speeds := []float64{5, 10, 15, 20}
	e := NewEnsemble(func(idx int) (*Loop, error) {
		v := vehicle.New(speeds[idx], 4, vehicle.DefaultParams())
		return NewLoop(v, control.NewRamp(control.DefaultConfig()), DefaultLoopConfig())
	}, len(speeds), 50)

	loops, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, l := range loops {
		solo := newTestLoopAt(t, speeds[i])
		if _, err := solo.RunSteps(context.Background(), 50); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := l.Vehicle().LinearSpeed(), solo.Vehicle().LinearSpeed(); got != want {
			t.Errorf("member %d: expected speed %v, got %v", i, want, got)
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEnsemble(func(idx int) (*Loop, error) {
		if idx == 2 {
			return nil, boom
		}
		return NewLoop(vehicle.New(5, 4, vehicle.DefaultParams()), nil, DefaultLoopConfig())
	}, 3, 10)

	if _, err := e.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}

func newTestLoopAt(t *testing.T, speed float64) *Loop {
	t.Helper()
	l, err := NewLoop(vehicle.New(speed, 4, vehicle.DefaultParams()), control.NewRamp(control.DefaultConfig()), DefaultLoopConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

func TestRunStepsReportsNonFiniteState(t *testing.T) {
	p := vehicle.DefaultParams()
	p.MuPeak = math.Inf(1)
	l, err := NewLoop(vehicle.New(5, 4, p), nil, DefaultLoopConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Vehicle().SetAngularVelocity(0, 0)

	_, err = l.RunSteps(context.Background(), 10)
	var simErr *SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimError, got %v", err)
	}
	if simErr.Step != 1 {
		t.Errorf("expected failure at step 1, got %d", simErr.Step)
	}
}
