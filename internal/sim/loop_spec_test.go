package sim_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/sim"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

// scriptedClock returns the start time on the first Now and then advances by
// the next delta, cycling, on each later call.
type scriptedClock struct {
	now    time.Time
	deltas []time.Duration
	calls  int
	slept  []time.Duration
}

func (c *scriptedClock) Now() time.Time {
	if c.calls > 0 {
		c.now = c.now.Add(c.deltas[(c.calls-1)%len(c.deltas)])
	}
	c.calls++
	return c.now
}

func (c *scriptedClock) Sleep(d time.Duration) { c.slept = append(c.slept, d) }

type countingRenderer struct {
	limit  int
	frames []vehicle.Snapshot
}

func (r *countingRenderer) Render(s vehicle.Snapshot) { r.frames = append(r.frames, s) }
func (r *countingRenderer) IsRunning() bool           { return len(r.frames) < r.limit }

type spyController struct {
	seen []float64
}

func (c *spyController) Update(p control.Plant, dt float64) {
	c.seen = append(c.seen, p.LinearSpeed())
}

func lockedVehicle() *vehicle.Vehicle {
	return vehicle.New(10, 4, vehicle.DefaultParams())
}

var _ = Describe("Loop", func() {
	var (
		veh   *vehicle.Vehicle
		clock *scriptedClock
		rend  *countingRenderer
	)

	BeforeEach(func() {
		veh = lockedVehicle()
		clock = &scriptedClock{
			now:    time.Unix(0, 0),
			deltas: []time.Duration{3 * time.Millisecond, 21 * time.Millisecond, 50 * time.Millisecond},
		}
		rend = &countingRenderer{limit: 40}
	})

	It("takes floor(elapsed/step) physics steps for irregular frames", func() {
		loop, err := sim.NewLoop(veh, control.NewNone(), sim.DefaultLoopConfig(),
			sim.WithClock(clock), sim.WithRenderer(rend))
		Expect(err).NotTo(HaveOccurred())

		stats, err := loop.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		var elapsed time.Duration
		for i := 0; i < rend.limit; i++ {
			elapsed += clock.deltas[i%len(clock.deltas)]
		}
		Expect(stats.Frames).To(Equal(40))
		Expect(stats.Steps).To(Equal(int(elapsed / sim.DefaultPhysicsStep)))
		Expect(stats.Remainder).To(Equal(elapsed % sim.DefaultPhysicsStep))
		Expect(stats.SimTime).To(Equal(time.Duration(stats.Steps) * sim.DefaultPhysicsStep))
	})

	It("sleeps the configured frame time once per frame", func() {
		cfg := sim.LoopConfig{PhysicsStep: 10 * time.Millisecond, FrameSleep: 7 * time.Millisecond}
		loop, err := sim.NewLoop(veh, nil, cfg, sim.WithClock(clock), sim.WithRenderer(rend))
		Expect(err).NotTo(HaveOccurred())

		_, err = loop.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(clock.slept).To(HaveLen(40))
		Expect(clock.slept).To(HaveEach(7 * time.Millisecond))
	})

	It("renders the state after the frame's steps", func() {
		loop, err := sim.NewLoop(veh, nil, sim.DefaultLoopConfig(),
			sim.WithClock(clock), sim.WithRenderer(rend))
		Expect(err).NotTo(HaveOccurred())

		_, err = loop.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		last := rend.frames[len(rend.frames)-1]
		Expect(last.LinearSpeed).To(Equal(veh.LinearSpeed()))
		Expect(rend.frames[0].LinearSpeed).To(Equal(10.0))
	})

	It("runs the controller before the physics on each step", func() {
		spy := &spyController{}
		var after []float64
		loop, err := sim.NewLoop(veh, spy, sim.DefaultLoopConfig(),
			sim.WithObserver(sim.ObserverFunc(func(s vehicle.Snapshot, _ float64) {
				after = append(after, s.LinearSpeed)
			})))
		Expect(err).NotTo(HaveOccurred())

		_, err = loop.RunSteps(context.Background(), 20)
		Expect(err).NotTo(HaveOccurred())

		Expect(spy.seen).To(HaveLen(20))
		Expect(spy.seen[0]).To(Equal(10.0))
		for i := 1; i < 20; i++ {
			Expect(spy.seen[i]).To(Equal(after[i-1]))
		}
	})

	It("gives the same state for any frame split with the same step count", func() {
		a := lockedVehicle()
		b := lockedVehicle()
		la, err := sim.NewLoop(a, control.NewRamp(control.DefaultConfig()), sim.DefaultLoopConfig())
		Expect(err).NotTo(HaveOccurred())
		lb, err := sim.NewLoop(b, control.NewRamp(control.DefaultConfig()), sim.DefaultLoopConfig())
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 100; i++ {
			la.Advance(10 * time.Millisecond)
		}
		for _, f := range []time.Duration{3, 21, 50, 7, 333, 586} {
			lb.Advance(f * time.Millisecond)
		}

		Expect(la.Stats().Steps).To(Equal(100))
		Expect(lb.Stats().Steps).To(Equal(100))
		Expect(b.Snapshot()).To(Equal(a.Snapshot()))
	})

	It("stops when the context is cancelled", func() {
		rend.limit = 1 << 30
		ctx, cancel := context.WithCancel(context.Background())
		loop, err := sim.NewLoop(veh, nil, sim.DefaultLoopConfig(),
			sim.WithClock(clock), sim.WithRenderer(rend),
			sim.WithObserver(sim.ObserverFunc(func(_ vehicle.Snapshot, t float64) {
				if t >= 1 {
					cancel()
				}
			})))
		Expect(err).NotTo(HaveOccurred())

		stats, err := loop.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(stats.SimTime).To(BeNumerically(">=", time.Second))
	})
})
