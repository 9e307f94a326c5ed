package spring

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/frame"
)

var _ = Describe("System", func() {
	var (
		looper *SteppingLooper
		sys    *System
	)

	BeforeEach(func() {
		looper = NewSteppingLooper()
		sys = NewSystem(looper)
	})

	Describe("registry", func() {
		It("assigns ids per system in creation order", func() {
			a := sys.CreateDefaultSpring()
			b := sys.CreateSpring(50, 9)
			c := sys.CreateSpringWithBouncinessAndSpeed(3, 12)

			Expect([]string{a.ID(), b.ID(), c.ID()}).To(Equal([]string{"s0", "s1", "s2"}))
			Expect(sys.AllSprings()).To(Equal([]*Spring{a, b, c}))

			other := NewSystem(NewSteppingLooper())
			Expect(other.CreateDefaultSpring().ID()).To(Equal("s0"))
		})

		It("looks springs up by id", func() {
			s := sys.CreateDefaultSpring()

			got, ok := sys.SpringByID(s.ID())
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(s))

			_, ok = sys.SpringByID("s99")
			Expect(ok).To(BeFalse())
		})

		It("does not activate new springs", func() {
			sys.CreateDefaultSpring()
			Expect(sys.IsIdle()).To(BeTrue())
			Expect(sys.ActiveSprings()).To(BeEmpty())
		})

		It("ignores activation of unknown ids", func() {
			sys.ActivateSpring("nope")
			Expect(sys.IsIdle()).To(BeTrue())
			Expect(sys.ActiveSprings()).To(BeEmpty())
		})

		It("deregisters springs that were never active", func() {
			s := sys.CreateDefaultSpring()
			Expect(func() { sys.DeregisterSpring(s) }).NotTo(Panic())
			Expect(sys.AllSprings()).To(BeEmpty())
		})
	})

	Describe("active set", func() {
		It("holds each spring once", func() {
			s := sys.CreateDefaultSpring()
			s.SetEndValue(1)
			s.SetVelocity(4)
			sys.ActivateSpring(s.ID())

			Expect(sys.ActiveSprings()).To(HaveLen(1))
		})

		It("empties once every spring rests", func() {
			for i := 0; i < 8; i++ {
				sys.CreateSpring(30+float64(i)*5, 6+float64(i)).SetEndValue(float64(i + 1))
			}
			Expect(sys.ActiveSprings()).To(HaveLen(8))

			for i := 0; i < 10000 && !sys.IsIdle(); i++ {
				looper.Step(16)
			}

			Expect(sys.IsIdle()).To(BeTrue())
			Expect(sys.ActiveSprings()).To(BeEmpty())
			for _, s := range sys.AllSprings() {
				Expect(s.IsAtRest()).To(BeTrue())
			}
		})

		It("forgets destroyed springs mid-animation", func() {
			a := sys.CreateDefaultSpring()
			b := sys.CreateDefaultSpring()
			a.SetEndValue(1)
			b.SetEndValue(1)
			looper.Step(16)
			looper.Step(16)

			b.Destroy()
			frozen := b.CurrentValue()

			Expect(sys.ActiveSprings()).To(Equal([]*Spring{a}))
			_, ok := sys.SpringByID(b.ID())
			Expect(ok).To(BeFalse())

			Expect(func() { looper.Step(16) }).NotTo(Panic())
			Expect(b.CurrentValue()).To(Equal(frozen))
		})

		It("skips springs destroyed by a listener during the pass", func() {
			a := sys.CreateDefaultSpring()
			b := sys.CreateDefaultSpring()
			a.SetEndValue(1)
			b.SetEndValue(1)
			looper.Step(16)

			frozen := b.CurrentValue()
			a.AddListener(&ListenerFuncs{Update: func(*Spring) {
				if _, ok := sys.SpringByID(b.ID()); ok {
					b.Destroy()
				}
			}})
			looper.Step(16)

			Expect(b.CurrentValue()).To(Equal(frozen))
			Expect(sys.ActiveSprings()).To(Equal([]*Spring{a}))
		})

		It("steps springs activated during a pass on the next loop", func() {
			a := sys.CreateDefaultSpring()
			b := sys.CreateDefaultSpring()
			a.AddListener(&ListenerFuncs{Activate: func(*Spring) { b.SetEndValue(5) }})

			a.SetEndValue(1)
			looper.Step(16)
			Expect(b.CurrentValue()).To(Equal(0.0))
			Expect(sys.ActiveSprings()).To(Equal([]*Spring{a, b}))

			looper.Step(16)
			Expect(b.CurrentValue()).To(BeNumerically(">", 0))
		})

		It("tolerates loops with nothing active", func() {
			Expect(func() { sys.Loop(10) }).NotTo(Panic())
			Expect(sys.IsIdle()).To(BeTrue())
		})
	})

	Describe("system listeners", func() {
		It("fires before and after every loop", func() {
			var calls []string
			l := &SystemListenerFuncs{
				BeforeIntegrate: func(*System) { calls = append(calls, "before") },
				AfterIntegrate:  func(*System) { calls = append(calls, "after") },
			}
			sys.AddListener(l)

			sys.CreateDefaultSpring().SetEndValue(1)
			sys.CreateDefaultSpring().SetEndValue(2)
			looper.Step(16)
			sys.Loop(100)

			Expect(calls).To(Equal([]string{"before", "after", "before", "after"}))

			sys.RemoveListener(l)
			looper.Step(16)
			Expect(calls).To(HaveLen(4))
		})

		It("sees the loop timestamp", func() {
			var seen []float64
			sys.AddListener(&SystemListenerFuncs{BeforeIntegrate: func(s *System) { seen = append(seen, s.Time()) }})
			sys.CreateDefaultSpring().SetEndValue(1)

			looper.Step(10)
			looper.Step(10)

			Expect(seen).To(Equal([]float64{10, 20}))
		})
	})

	Describe("loopers", func() {
		It("panic when no system is attached", func() {
			Expect(func() { (&AnimationLooper{}).Run() }).To(PanicWith(MatchError(ErrNoSystem)))
			Expect(func() { (&SimulationLooper{}).Run() }).To(PanicWith(MatchError(ErrNoSystem)))
			Expect(func() { NewSteppingLooper().Step(16) }).To(PanicWith(MatchError(ErrNoSystem)))
		})

		It("leaves a stepping looper's Run as a no-op", func() {
			s := sys.CreateDefaultSpring()
			s.SetEndValue(1)
			looper.Run()
			Expect(s.CurrentValue()).To(Equal(0.0))
			Expect(looper.Time()).To(Equal(0.0))
		})

		It("runs a simulation looper to rest on its virtual clock", func() {
			sim := NewSimulationLooper(10)
			sys.SetLooper(sim)

			s := sys.CreateDefaultSpring()
			s.SetEndValue(1)

			Expect(sys.IsIdle()).To(BeTrue())
			Expect(s.CurrentValue()).To(Equal(1.0))
			Expect(sim.Time()).To(BeNumerically(">", 0))
			Expect(NewSimulationLooper(0).Timestep()).To(Equal(DefaultSimulationTimestep))
		})

		It("stops a simulation looper at its iteration bound", func() {
			sim := NewSimulationLooper(16)
			sim.MaxIterations = 5
			sys.SetLooper(sim)

			// No friction: this spring never rests.
			sys.CreateSpringWithConfig(NewConfig(100, 0)).SetEndValue(1)

			Expect(sys.IsIdle()).To(BeFalse())
			Expect(sim.Time()).To(Equal(80.0))
		})

		It("keeps one animation frame outstanding", func() {
			queue := frame.NewQueue()
			clock := time.UnixMilli(1_000_000)
			anim := NewAnimationLooper(queue).WithClock(func() time.Time { return clock })
			sys.SetLooper(anim)

			s := sys.CreateDefaultSpring()
			s.SetEndValue(1)
			anim.Run()
			Expect(queue.Len()).To(Equal(1))

			frames := 0
			for queue.Len() > 0 && frames < 10000 {
				clock = clock.Add(16 * time.Millisecond)
				Expect(queue.Flush()).To(Equal(1))
				frames++
				Expect(queue.Len()).To(BeNumerically("<=", 1))
			}

			Expect(sys.IsIdle()).To(BeTrue())
			Expect(s.CurrentValue()).To(Equal(1.0))
			Expect(frames).To(BeNumerically(">", 1))
		})

		It("ignores a frame requested by a replaced animation looper", func() {
			queue := frame.NewQueue()
			anim := NewAnimationLooper(queue)
			sys.SetLooper(anim)

			s := sys.CreateDefaultSpring()
			s.SetEndValue(1)
			Expect(queue.Len()).To(Equal(1))

			sys.SetLooper(looper)
			Expect(queue.Flush()).To(Equal(1))
			Expect(s.CurrentValue()).To(Equal(0.0))
			Expect(sys.Time()).To(Equal(0.0))
			Expect(queue.Len()).To(Equal(0))

			looper.Step(16)
			looper.Step(16)
			Expect(sys.Time()).To(Equal(32.0))
			Expect(s.CurrentValue()).To(BeNumerically(">", 0))
		})

		It("defaults to an animation looper on a frame loop", func() {
			def := NewSystem(nil)
			anim, ok := def.Looper().(*AnimationLooper)
			Expect(ok).To(BeTrue())
			_, ok = anim.Scheduler().(*frame.Loop)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("idle bookkeeping", func() {
		It("restarts the clock after going idle", func() {
			s := sys.CreateDefaultSpring()
			s.SetEndValue(1)
			for i := 0; i < 10000 && !sys.IsIdle(); i++ {
				looper.Step(16)
			}
			Expect(sys.IsIdle()).To(BeTrue())

			// A fresh activation integrates 1ms on its first frame, no matter
			// how long the system slept.
			s.SetEndValue(0)
			looper.Step(5000)

			ref := NewSystem(NewSteppingLooper())
			r := ref.CreateDefaultSpring()
			r.SetCurrentValue(1)
			r.SetEndValue(0)
			ref.Looper().(*SteppingLooper).Step(16)

			Expect(s.CurrentValue()).To(BeNumerically("~", r.CurrentValue(), 1e-3))
			Expect(s.CurrentValue()).To(BeNumerically(">", 0.99))
		})
	})
})
