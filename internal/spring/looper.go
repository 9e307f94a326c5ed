package spring

import "time"

// DefaultSimulationTimestep is the frame length, in milliseconds, a
// SimulationLooper uses when none is given.
const DefaultSimulationTimestep = 16.667

// Looper schedules System.Loop calls. Run is called whenever the system has
// active springs and needs another pass.
type Looper interface {
	Run()
	SetSpringSystem(sys *System)
}

// FrameScheduler runs a callback on the next display frame. Callbacks must
// be invoked on the goroutine that owns the System.
type FrameScheduler interface {
	RequestFrame(fn func())
}

func mustSystem(sys *System) *System {
	if sys == nil {
		panic(ErrNoSystem)
	}
	return sys
}

// AnimationLooper loops the system once per frame of a FrameScheduler,
// stamping each loop with the wall clock.
type AnimationLooper struct {
	system    *System
	scheduler FrameScheduler
	now       func() time.Time
	pending   bool
}

// NewAnimationLooper creates a looper that requests frames from scheduler.
func NewAnimationLooper(scheduler FrameScheduler) *AnimationLooper {
	return &AnimationLooper{scheduler: scheduler, now: time.Now}
}

// WithClock replaces the wall clock, mostly for tests.
func (l *AnimationLooper) WithClock(now func() time.Time) *AnimationLooper {
	l.now = now
	return l
}

// SetSpringSystem binds the looper to sys. System.SetLooper calls it.
func (l *AnimationLooper) SetSpringSystem(sys *System) { l.system = sys }

// Scheduler returns the frame source.
func (l *AnimationLooper) Scheduler() FrameScheduler { return l.scheduler }

// Run requests one frame. At most one request is outstanding at a time.
func (l *AnimationLooper) Run() {
	sys := mustSystem(l.system)
	if l.pending {
		return
	}
	l.pending = true
	l.scheduler.RequestFrame(func() {
		l.pending = false
		if sys.looper != l {
			return
		}
		sys.Loop(float64(l.now().UnixNano()) / float64(time.Millisecond))
	})
}

// SimulationLooper runs the system to rest synchronously, advancing a
// virtual clock by a fixed timestep per loop.
type SimulationLooper struct {
	system   *System
	timestep float64
	time     float64
	running  bool

	// MaxIterations bounds a single Run. Zero means no bound.
	MaxIterations int
}

// NewSimulationLooper creates a batch looper stepping timestep milliseconds
// per loop, or DefaultSimulationTimestep when timestep is zero.
func NewSimulationLooper(timestep float64) *SimulationLooper {
	if timestep == 0 {
		timestep = DefaultSimulationTimestep
	}
	return &SimulationLooper{timestep: timestep}
}

func (l *SimulationLooper) SetSpringSystem(sys *System) { l.system = sys }

// Timestep is the virtual frame length in milliseconds.
func (l *SimulationLooper) Timestep() float64 { return l.timestep }

// Time is the virtual clock in milliseconds.
func (l *SimulationLooper) Time() float64 { return l.time }

// Run loops the system until it is idle or MaxIterations is reached.
func (l *SimulationLooper) Run() {
	sys := mustSystem(l.system)
	if l.running {
		return
	}
	l.running = true
	for n := 0; !sys.IsIdle(); n++ {
		if l.MaxIterations > 0 && n >= l.MaxIterations {
			break
		}
		l.time += l.timestep
		sys.Loop(l.time)
	}
	l.running = false
}

// SteppingLooper leaves scheduling to the caller, who advances the system
// one Step at a time.
type SteppingLooper struct {
	system *System
	time   float64
}

// NewSteppingLooper creates a looper whose clock starts at zero.
func NewSteppingLooper() *SteppingLooper {
	return &SteppingLooper{}
}

func (l *SteppingLooper) SetSpringSystem(sys *System) { l.system = sys }

// Run does nothing; Step drives the system.
func (l *SteppingLooper) Run() {}

// Step loops the system once, timestep milliseconds after the previous step.
func (l *SteppingLooper) Step(timestep float64) {
	sys := mustSystem(l.system)
	l.time += timestep
	sys.Loop(l.time)
}

// Time is the sum of all Step timesteps.
func (l *SteppingLooper) Time() float64 { return l.time }
