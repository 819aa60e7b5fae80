package vehicle_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

const dt = 0.01

var _ = Describe("Vehicle physics", func() {
	var v *vehicle.Vehicle

	BeforeEach(func() {
		v = vehicle.New(10.0, 4, vehicle.DefaultParams())
	})

	Context("when a wheel spins faster than the body", func() {
		BeforeEach(func() {
			for i := 0; i < v.WheelCount(); i++ {
				v.SetAngularVelocity(i, 1.2*10.0/vehicle.DefaultWheelRadius)
			}
		})

		It("accelerates the body", func() {
			v.Update(dt)
			Expect(v.LinearSpeed()).To(BeNumerically(">", 10.0))
		})

		It("slows the wheel down", func() {
			before, _ := v.Wheel(0)
			v.Update(dt)
			after, _ := v.Wheel(0)
			Expect(after.AngularVelocity).To(BeNumerically("<", before.AngularVelocity))
		})
	})

	Context("when the wheels are locked", func() {
		BeforeEach(func() {
			for i := 0; i < v.WheelCount(); i++ {
				v.SetAngularVelocity(i, 0)
			}
		})

		It("decelerates the body", func() {
			v.Update(dt)
			Expect(v.LinearSpeed()).To(BeNumerically("<", 10.0))
		})

		It("uses saturated friction for the body force", func() {
			mu := vehicle.DefaultMuPeak * (1 - math.Exp(-vehicle.FrictionShape))
			want := 10.0 - mu*vehicle.Gravity*dt
			v.Update(dt)
			Expect(v.LinearSpeed()).To(BeNumerically("~", want, 1e-9))
		})
	})

	Context("under a large brake torque", func() {
		It("never reverses wheel rotation or body travel", func() {
			for i := 0; i < v.WheelCount(); i++ {
				v.SetBrakeTorque(i, 1e6)
			}
			for step := 0; step < 3000; step++ {
				v.Update(dt)
				Expect(v.LinearSpeed()).To(BeNumerically(">=", 0))
				for _, w := range v.Wheels() {
					Expect(w.AngularVelocity).To(BeNumerically(">=", 0))
				}
			}
			Expect(v.LinearSpeed()).To(BeNumerically("<", 10.0))
		})
	})

	Context("with a drive torque on every wheel", func() {
		It("keeps every rotation angle inside one turn plus one increment", func() {
			for i := 0; i < v.WheelCount(); i++ {
				v.SetDriveTorque(i, 150)
			}
			for step := 0; step < 1000; step++ {
				v.Update(dt)
				for _, w := range v.Wheels() {
					Expect(w.RotationAngle).To(BeNumerically(">=", 0))
					Expect(w.RotationAngle).To(BeNumerically("<=", 2*math.Pi+w.AngularVelocity*dt))
				}
			}
		})
	})

	Context("with a different road", func() {
		It("produces no friction on a zero-grip surface", func() {
			v.SetMuPeak(0)
			v.SetAngularVelocity(0, 0)
			v.Update(dt)
			Expect(v.LinearSpeed()).To(Equal(10.0))
		})
	})
})
