package vehicle

import (
	"math"
	"testing"
)

func TestNew_ConsistentWheelSpeed(t *testing.T) {
	v := New(5.0, 4, DefaultParams())

	if v.WheelCount() != 4 {
		t.Fatalf("expected 4 wheels, got %d", v.WheelCount())
	}
	if v.LinearSpeed() != 5.0 {
		t.Errorf("expected speed 5.0, got %f", v.LinearSpeed())
	}

	want := 5.0 / DefaultWheelRadius
	for i, w := range v.Wheels() {
		if w.AngularVelocity != want {
			t.Errorf("wheel %d: expected omega %f, got %f", i, want, w.AngularVelocity)
		}
		if w.BrakeTorque != 0 || w.DriveTorque != 0 || w.RotationAngle != 0 {
			t.Errorf("wheel %d: expected zeroed torques and angle, got %+v", i, w)
		}
	}
}

func TestNew_TinyRadius(t *testing.T) {
	p := DefaultParams()
	p.WheelRadius = 1e-6
	v := New(5.0, 2, p)

	for i, w := range v.Wheels() {
		if w.AngularVelocity != 0 {
			t.Errorf("wheel %d: expected omega 0 for negligible radius, got %f", i, w.AngularVelocity)
		}
	}
}

func TestNew_ClampsNegativeInputs(t *testing.T) {
	v := New(-3.0, -1, DefaultParams())
	if v.LinearSpeed() != 0 {
		t.Errorf("expected speed clamped to 0, got %f", v.LinearSpeed())
	}
	if v.WheelCount() != 0 {
		t.Errorf("expected 0 wheels, got %d", v.WheelCount())
	}
	v.Update(0.01)
}

func TestSlipRatio_OutOfRange(t *testing.T) {
	v := New(5.0, 4, DefaultParams())
	v.SetAngularVelocity(0, 0)

	for _, idx := range []int{-1, 4, 5, 100} {
		if got := v.SlipRatio(idx); got != 0.0 {
			t.Errorf("SlipRatio(%d) = %f, want 0", idx, got)
		}
	}
}

func TestSetters_OutOfRangeAreNoOps(t *testing.T) {
	v := New(5.0, 4, DefaultParams())
	before := v.Wheels()

	for _, idx := range []int{-1, 4, 42} {
		v.SetBrakeTorque(idx, 100)
		v.SetDriveTorque(idx, 100)
		v.SetAngularVelocity(idx, 1)
	}

	after := v.Wheels()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("wheel %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if _, ok := v.Wheel(4); ok {
		t.Error("expected Wheel(4) to report missing")
	}
}

func TestSetters_ClampNegative(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"negative", -50, 0},
		{"zero", 0, 0},
		{"positive", 120.5, 120.5},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(5.0, 4, DefaultParams())
			v.SetBrakeTorque(1, tt.input)
			v.SetDriveTorque(2, tt.input)

			w1, _ := v.Wheel(1)
			w2, _ := v.Wheel(2)
			if w1.BrakeTorque != tt.want {
				t.Errorf("brake: expected %f, got %f", tt.want, w1.BrakeTorque)
			}
			if w2.DriveTorque != tt.want {
				t.Errorf("drive: expected %f, got %f", tt.want, w2.DriveTorque)
			}
		})
	}
}

func TestUpdate_NonPositiveDtIsNoOp(t *testing.T) {
	v := New(5.0, 4, DefaultParams())
	v.SetAngularVelocity(0, 3)
	v.SetDriveTorque(1, 80)
	v.SetBrakeTorque(2, 40)

	speed := v.LinearSpeed()
	wheels := v.Wheels()

	for _, dt := range []float64{0, -0.01, -1} {
		v.Update(dt)
	}

	if math.Float64bits(v.LinearSpeed()) != math.Float64bits(speed) {
		t.Errorf("speed changed: %v -> %v", speed, v.LinearSpeed())
	}
	for i, w := range v.Wheels() {
		if w != wheels[i] {
			t.Errorf("wheel %d changed: %+v -> %+v", i, wheels[i], w)
		}
	}
}

func TestSlipRatio_InitiallyZero(t *testing.T) {
	v := New(5.0, 4, DefaultParams())
	for i := 0; i < v.WheelCount(); i++ {
		if slip := v.SlipRatio(i); math.Abs(slip) > 1e-9 {
			t.Errorf("wheel %d: expected slip ~0, got %g", i, slip)
		}
	}
}

func TestSlipRatio_Sign(t *testing.T) {
	v := New(10.0, 2, DefaultParams())
	v.SetAngularVelocity(0, 0)
	v.SetAngularVelocity(1, 2*10.0/DefaultWheelRadius)

	if got := v.SlipRatio(0); math.Abs(got+1) > 1e-12 {
		t.Errorf("locked wheel: expected slip -1, got %f", got)
	}
	if got := v.SlipRatio(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("spinning wheel: expected slip 1, got %f", got)
	}
}

func TestSlipRatio_EpsilonGuard(t *testing.T) {
	v := New(0, 1, DefaultParams())
	v.SetAngularVelocity(0, 1.0)

	want := 1.0 * DefaultWheelRadius / SlipEpsilon
	if got := v.SlipRatio(0); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected slip %f at standstill, got %f", want, got)
	}
}

func TestUpdate_RotationAngleWraps(t *testing.T) {
	tests := []struct {
		name  string
		steps int
	}{
		{"one second", 100},
		{"ten seconds", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(5.0, 4, DefaultParams())
			w0, _ := v.Wheel(0)
			omega := w0.AngularVelocity

			dt := 0.01
			for i := 0; i < tt.steps; i++ {
				v.Update(dt)
			}

			w, _ := v.Wheel(0)
			want := math.Mod(omega*float64(tt.steps)*dt, 2*math.Pi)
			if math.Abs(w.RotationAngle-want) > 1e-9 {
				t.Errorf("expected angle %f, got %f", want, w.RotationAngle)
			}
			if w.RotationAngle < 0 || w.RotationAngle > 2*math.Pi+omega*dt {
				t.Errorf("angle %f out of wrap band", w.RotationAngle)
			}
		})
	}
}

func TestUpdate_SlipMatchedCoastHoldsSpeed(t *testing.T) {
	v := New(5.0, 4, DefaultParams())
	for i := 0; i < 100; i++ {
		v.Update(0.01)
	}
	if math.Abs(v.LinearSpeed()-5.0) > 1e-9 {
		t.Errorf("expected rolling vehicle to hold 5.0 m/s, got %f", v.LinearSpeed())
	}
}

func TestUpdate_LockedCoastDecelerates(t *testing.T) {
	v := New(5.0, 4, DefaultParams())
	for i := 0; i < v.WheelCount(); i++ {
		v.SetAngularVelocity(i, 0)
	}

	for i := 0; i < 100; i++ {
		v.Update(0.01)
	}

	if v.LinearSpeed() >= 5.0 {
		t.Errorf("expected speed below 5.0, got %f", v.LinearSpeed())
	}
	for i, w := range v.Wheels() {
		if w.AngularVelocity <= 0 {
			t.Errorf("wheel %d: expected friction to spin the wheel up, got %f", i, w.AngularVelocity)
		}
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	v := New(5.0, 4, DefaultParams())
	snap := v.Snapshot()

	v.SetDriveTorque(0, 100)
	v.Update(0.01)

	if snap.Wheels[0].DriveTorque != 0 {
		t.Error("snapshot shares wheel storage with the vehicle")
	}
	if len(snap.Slips) != 4 {
		t.Errorf("expected 4 slips, got %d", len(snap.Slips))
	}
}

func TestSnapshot_Aggregates(t *testing.T) {
	s := Snapshot{
		Wheels: []Wheel{{BrakeTorque: 10, DriveTorque: 1}, {BrakeTorque: 5, DriveTorque: 2}},
		Slips:  []float64{0.1, 0.3},
	}
	if got := s.MeanSlip(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected mean slip 0.2, got %f", got)
	}
	brake, drive := s.TotalTorque()
	if brake != 15 || drive != 3 {
		t.Errorf("expected totals (15, 3), got (%f, %f)", brake, drive)
	}
	if (Snapshot{}).MeanSlip() != 0 {
		t.Error("expected empty snapshot mean slip 0")
	}
}
