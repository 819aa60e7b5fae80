package vehicle

import "math"

// Update advances the vehicle by dt seconds. Non-positive dt is ignored.
func (v *Vehicle) Update(dt float64) {
	if dt <= 0 || len(v.wheels) == 0 {
		return
	}

	normalForce := v.params.Mass * Gravity / float64(len(v.wheels))

	// Body pass: slip against the speed at the start of the step.
	totalForce := 0.0
	for i := range v.wheels {
		slip := v.SlipRatio(i)
		mu := v.params.MuPeak * (1.0 - math.Exp(-FrictionShape*math.Abs(slip)))
		frictionForce := mu * normalForce

		wheelLinSpeed := v.wheels[i].AngularVelocity * v.params.WheelRadius
		sign := 1.0
		if wheelLinSpeed-v.linearSpeed < 0 {
			sign = -1.0
		}
		totalForce += frictionForce * sign
	}

	if v.params.Mass > 0 {
		v.linearSpeed += totalForce / v.params.Mass * dt
	}
	if v.linearSpeed < 0 {
		v.linearSpeed = 0
	}

	// Wheel pass: reaction torque from slip against the updated body speed.
	for i := range v.wheels {
		w := &v.wheels[i]

		wheelLinSpeed := w.AngularVelocity * v.params.WheelRadius
		diff := wheelLinSpeed - v.linearSpeed
		absSlip := math.Abs(diff / math.Max(v.linearSpeed, SlipEpsilon))
		mu := v.params.MuPeak * (1.0 - math.Exp(-FrictionShape*absSlip))
		frictionForce := mu * normalForce

		sign := 1.0
		if wheelLinSpeed < v.linearSpeed {
			sign = -1.0
		}
		frictionTorque := frictionForce * v.params.WheelRadius * sign

		netTorque := w.DriveTorque - w.BrakeTorque - frictionTorque
		if v.params.WheelInertia > 0 {
			w.AngularVelocity += netTorque / v.params.WheelInertia * dt
		}
		if w.AngularVelocity < 0 {
			w.AngularVelocity = 0
		}

		// Wrapped only once past a full turn; the angle is for rendering.
		w.RotationAngle += w.AngularVelocity * dt
		if w.RotationAngle > 2*math.Pi {
			w.RotationAngle = math.Mod(w.RotationAngle, 2*math.Pi)
		}
	}
}
