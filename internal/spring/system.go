package spring

import (
	"slices"
	"strconv"

	"github.com/san-kum/springsim/internal/frame"
)

// System owns a set of springs and integrates the active ones every time
// Loop is called. Its Looper decides when Loop runs.
type System struct {
	looper    Looper
	listeners []SystemListener

	registry      map[string]*Spring
	activeSprings []*Spring
	idleSprings   []*Spring
	nextID        uint64

	isIdle         bool
	lastTimeMillis float64
	timeMillis     float64
}

// NewSystem creates a system driven by looper. A nil looper selects an
// AnimationLooper fed by a 60 Hz frame loop, which the caller has to run.
func NewSystem(looper Looper) *System {
	sys := &System{
		registry:       make(map[string]*Spring),
		isIdle:         true,
		lastTimeMillis: -1,
	}
	if looper == nil {
		looper = NewAnimationLooper(frame.NewLoop(frame.DefaultInterval))
	}
	sys.SetLooper(looper)
	return sys
}

// SetLooper installs looper and binds it to the system. A frame an
// AnimationLooper requested before it was replaced no longer loops the system.
func (sys *System) SetLooper(looper Looper) {
	sys.looper = looper
	looper.SetSpringSystem(sys)
}

// Looper returns the installed looper.
func (sys *System) Looper() Looper { return sys.looper }

// CreateSpring creates a spring from origami tension and friction.
func (sys *System) CreateSpring(tension, friction float64) *Spring {
	return sys.CreateSpringWithConfig(ConfigFromOrigamiTensionAndFriction(tension, friction))
}

// CreateDefaultSpring creates a spring with DefaultOrigamiConfig.
func (sys *System) CreateDefaultSpring() *Spring {
	return sys.CreateSpringWithConfig(DefaultOrigamiConfig)
}

// CreateSpringWithBouncinessAndSpeed creates a spring from the bounciness
// and speed parameters of ConfigFromBouncinessAndSpeed.
func (sys *System) CreateSpringWithBouncinessAndSpeed(bounciness, speed float64) *Spring {
	return sys.CreateSpringWithConfig(ConfigFromBouncinessAndSpeed(bounciness, speed))
}

// CreateSpringWithConfig registers a new resting spring. It is not
// activated until its end value or velocity changes.
func (sys *System) CreateSpringWithConfig(cfg Config) *Spring {
	s := sys.newSpring()
	sys.RegisterSpring(s)
	s.SetConfig(cfg)
	return s
}

// CreateUnconfiguredSpring registers a spring with no config. It behaves as
// if tension and friction were zero.
func (sys *System) CreateUnconfiguredSpring() *Spring {
	s := sys.newSpring()
	sys.RegisterSpring(s)
	return s
}

func (sys *System) newSpring() *Spring {
	seq := sys.nextID
	sys.nextID++
	return newSpring(sys, "s"+strconv.FormatUint(seq, 10), seq)
}

// IsIdle reports whether no spring is animating.
func (sys *System) IsIdle() bool { return sys.isIdle }

// Time returns the timestamp, in milliseconds, passed to the running or most
// recent Loop call.
func (sys *System) Time() float64 { return sys.timeMillis }

// SpringByID looks up a registered spring.
func (sys *System) SpringByID(id string) (*Spring, bool) {
	s, ok := sys.registry[id]
	return s, ok
}

// AllSprings returns the registered springs in creation order.
func (sys *System) AllSprings() []*Spring {
	springs := make([]*Spring, 0, len(sys.registry))
	for _, s := range sys.registry {
		springs = append(springs, s)
	}
	slices.SortFunc(springs, func(a, b *Spring) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return springs
}

// ActiveSprings returns a copy of the active list in activation order.
func (sys *System) ActiveSprings() []*Spring {
	return slices.Clone(sys.activeSprings)
}

// RegisterSpring adds s to the registry without activating it.
func (sys *System) RegisterSpring(s *Spring) {
	sys.registry[s.ID()] = s
}

// DeregisterSpring drops s from the active list and the registry. It is safe
// to call for inactive or unknown springs.
func (sys *System) DeregisterSpring(s *Spring) {
	sys.activeSprings = removeFirst(sys.activeSprings, s)
	delete(sys.registry, s.ID())
}

func (sys *System) registered(s *Spring) bool {
	r, ok := sys.registry[s.ID()]
	return ok && r == s
}

// Advance steps every active spring. time and deltaTime are milliseconds.
// Springs that no longer need stepping are removed from the active list
// after the pass.
func (sys *System) Advance(time, deltaTime float64) {
	sys.idleSprings = sys.idleSprings[:0]

	// Springs activated by listeners during the pass are stepped next loop.
	active := slices.Clone(sys.activeSprings)
	for _, s := range active {
		if !sys.registered(s) {
			continue
		}
		if s.SystemShouldAdvance() {
			s.Advance(time/1000.0, deltaTime/1000.0)
		} else {
			sys.idleSprings = append(sys.idleSprings, s)
		}
	}

	for _, s := range sys.idleSprings {
		sys.activeSprings = removeFirst(sys.activeSprings, s)
	}
	clear(sys.idleSprings)
	sys.idleSprings = sys.idleSprings[:0]
}

// Loop runs one integration pass at currentTimeMillis and, while springs are
// still active, asks the looper for the next one.
func (sys *System) Loop(currentTimeMillis float64) {
	if sys.lastTimeMillis == -1 {
		sys.lastTimeMillis = currentTimeMillis - 1
	}
	elapsedMillis := currentTimeMillis - sys.lastTimeMillis
	sys.lastTimeMillis = currentTimeMillis
	sys.timeMillis = currentTimeMillis

	listeners := sys.listeners
	for _, l := range listeners {
		l.OnBeforeIntegrate(sys)
	}

	sys.Advance(currentTimeMillis, elapsedMillis)
	if len(sys.activeSprings) == 0 {
		sys.isIdle = true
		sys.lastTimeMillis = -1
	}

	for _, l := range listeners {
		l.OnAfterIntegrate(sys)
	}

	if !sys.isIdle {
		sys.looper.Run()
	}
}

// ActivateSpring adds the spring to the active list and, if the system was
// idle, starts the looper. Unknown ids are ignored.
func (sys *System) ActivateSpring(id string) {
	s, ok := sys.registry[id]
	if !ok {
		return
	}
	if !slices.Contains(sys.activeSprings, s) {
		sys.activeSprings = append(sys.activeSprings, s)
	}
	if sys.IsIdle() {
		sys.isIdle = false
		sys.looper.Run()
	}
}

// AddListener registers l for the integrate callbacks of every loop.
func (sys *System) AddListener(l SystemListener) {
	sys.listeners = append(sys.listeners, l)
}

// RemoveListener removes the first registration of l.
func (sys *System) RemoveListener(l SystemListener) {
	sys.listeners = removeFirst(sys.listeners, l)
}

// RemoveAllListeners drops every system listener.
func (sys *System) RemoveAllListeners() {
	sys.listeners = nil
}
