package control

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

type fakeBackend struct {
	out   Output
	err   error
	calls int
	seen  []Features
}

func (f *fakeBackend) Predict(x Features) (Output, error) {
	f.calls++
	f.seen = append(f.seen, x)
	return f.out, f.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestVehicle() *vehicle.Vehicle {
	v := vehicle.New(5.0, 4, vehicle.DefaultParams())
	for i := 0; i < v.WheelCount(); i++ {
		v.SetBrakeTorque(i, 7)
		v.SetDriveTorque(i, 9)
	}
	return v
}

func TestLearned_PairOutput(t *testing.T) {
	v := newTestVehicle()
	b := &fakeBackend{out: Pair{Drive: 120, Brake: 30}}
	l := NewLearnedWithBackend(DefaultConfig(), b, quietLogger())

	l.Update(v, 0.01)

	if b.calls != 4 {
		t.Errorf("expected 4 predictions, got %d", b.calls)
	}
	for i, w := range v.Wheels() {
		if w.DriveTorque != 120 || w.BrakeTorque != 30 {
			t.Errorf("wheel %d: expected (120, 30), got (%f, %f)", i, w.DriveTorque, w.BrakeTorque)
		}
	}
}

func TestLearned_TensorOutput(t *testing.T) {
	v := newTestVehicle()
	b := &fakeBackend{out: Tensor{Shape: []int{1, 2}, Data: []float64{80, 15}}}
	l := NewLearnedWithBackend(DefaultConfig(), b, quietLogger())

	l.Update(v, 0.01)

	w, _ := v.Wheel(2)
	if w.DriveTorque != 80 || w.BrakeTorque != 15 {
		t.Errorf("expected lane 0 drive and lane 1 brake, got drive %f brake %f", w.DriveTorque, w.BrakeTorque)
	}
}

func TestLearned_ClampsPredictions(t *testing.T) {
	tests := []struct {
		name      string
		out       Output
		wantDrive float64
		wantBrake float64
	}{
		{"above max", Pair{Drive: 1000, Brake: 1000}, DefaultMaxDriveTorque, DefaultMaxBrakeTorque},
		{"negative", Pair{Drive: -5, Brake: -1}, 0, 0},
		{"nan", Tensor{Shape: []int{1, 2}, Data: []float64{math.NaN(), math.NaN()}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVehicle()
			l := NewLearnedWithBackend(DefaultConfig(), &fakeBackend{out: tt.out}, quietLogger())
			l.Update(v, 0.01)

			w, _ := v.Wheel(0)
			if w.DriveTorque != tt.wantDrive || w.BrakeTorque != tt.wantBrake {
				t.Errorf("expected (%f, %f), got (%f, %f)", tt.wantDrive, tt.wantBrake, w.DriveTorque, w.BrakeTorque)
			}
		})
	}
}

func TestLearned_MalformedOutputLeavesTorques(t *testing.T) {
	outputs := map[string]Output{
		"one lane":    Tensor{Shape: []int{1, 1}, Data: []float64{50}},
		"empty":       Tensor{},
		"nil output":  nil,
		"nil pointer": (*Tensor)(nil),
	}

	for name, out := range outputs {
		t.Run(name, func(t *testing.T) {
			v := newTestVehicle()
			before := v.Wheels()
			l := NewLearnedWithBackend(DefaultConfig(), &fakeBackend{out: out}, quietLogger())

			l.Update(v, 0.01)

			for i, w := range v.Wheels() {
				if w.BrakeTorque != before[i].BrakeTorque || w.DriveTorque != before[i].DriveTorque {
					t.Errorf("wheel %d torques changed: %+v -> %+v", i, before[i], w)
				}
			}
			if l.Failures() != 4 {
				t.Errorf("expected 4 failures, got %d", l.Failures())
			}
		})
	}
}

func TestLearned_InferenceErrorFallsBackToRamp(t *testing.T) {
	cfg := DefaultConfig()
	want := newTestVehicle()
	want.SetAngularVelocity(1, 0)
	NewRamp(cfg).Update(want, 0.01)

	got := newTestVehicle()
	got.SetAngularVelocity(1, 0)
	l := NewLearnedWithBackend(cfg, &fakeBackend{err: errors.New("cuda exploded")}, quietLogger())
	l.Update(got, 0.01)

	for i := range got.Wheels() {
		g, _ := got.Wheel(i)
		w, _ := want.Wheel(i)
		if g != w {
			t.Errorf("wheel %d: expected ramp result %+v, got %+v", i, w, g)
		}
	}
}

func TestLearned_LoadFailureFallsBackToRamp(t *testing.T) {
	loadErr := errors.New("model.json: no such file")
	loads := 0
	l := NewLearned(DefaultConfig(), func() (Backend, error) {
		loads++
		return nil, loadErr
	}, quietLogger())

	got := newTestVehicle()
	got.SetAngularVelocity(0, 0)
	want := newTestVehicle()
	want.SetAngularVelocity(0, 0)

	for step := 0; step < 3; step++ {
		l.Update(got, 0.01)
		NewRamp(DefaultConfig()).Update(want, 0.01)
	}

	if l.Available() {
		t.Error("expected backend unavailable")
	}
	if !errors.Is(l.LoadErr(), loadErr) {
		t.Errorf("expected load error %v, got %v", loadErr, l.LoadErr())
	}
	if loads != 1 {
		t.Errorf("expected loader called once, got %d", loads)
	}
	for i := range got.Wheels() {
		g, _ := got.Wheel(i)
		w, _ := want.Wheel(i)
		if g != w {
			t.Errorf("wheel %d: expected %+v, got %+v", i, w, g)
		}
	}
}

func TestLearned_NilLoader(t *testing.T) {
	l := NewLearned(DefaultConfig(), nil, quietLogger())
	if l.Available() {
		t.Error("expected unavailable without a loader")
	}
	if !errors.Is(l.LoadErr(), ErrNoLoader) {
		t.Errorf("expected ErrNoLoader, got %v", l.LoadErr())
	}
}

func TestLearned_FeatureLayout(t *testing.T) {
	v := vehicle.New(5.0, 1, vehicle.DefaultParams())
	v.SetAngularVelocity(0, 10)
	v.SetBrakeTorque(0, 3)
	v.SetDriveTorque(0, 4)

	b := &fakeBackend{out: Pair{}}
	l := NewLearnedWithBackend(DefaultConfig(), b, quietLogger())
	l.Update(v, 0.01)

	if len(b.seen) != 1 {
		t.Fatalf("expected 1 feature vector, got %d", len(b.seen))
	}
	want := Features{v.SlipRatio(0), 10, 5.0, 3, 4, 0, 0, 0}
	if b.seen[0] != want {
		t.Errorf("expected features %v, got %v", want, b.seen[0])
	}
}
