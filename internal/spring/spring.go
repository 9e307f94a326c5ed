package spring

import "math"

const (
	// MaxDeltaTimeSec caps the real time consumed by one Advance call.
	MaxDeltaTimeSec = 0.064
	// SolverTimestepSec is the fixed RK4 sub-step.
	SolverTimestepSec = 0.001

	DefaultRestSpeedThreshold        = 0.001
	DefaultRestDisplacementThreshold = 0.001
)

// Spring is a single value pulled towards its end value by a damped
// harmonic oscillator. Springs are created by a System and integrated when
// the System loops.
type Spring struct {
	id     string
	seq    uint64
	system *System
	config *Config

	listeners []Listener

	startValue float64
	endValue   float64

	currentState  PhysicsState
	previousState PhysicsState
	tempState     PhysicsState

	restSpeedThreshold            float64
	displacementFromRestThreshold float64
	overshootClampingEnabled      bool

	timeAccumulator float64
	wasAtRest       bool
}

func newSpring(sys *System, id string, seq uint64) *Spring {
	return &Spring{
		id:                            id,
		seq:                           seq,
		system:                        sys,
		restSpeedThreshold:            DefaultRestSpeedThreshold,
		displacementFromRestThreshold: DefaultRestDisplacementThreshold,
		wasAtRest:                     true,
	}
}

// Destroy clears the listeners and removes the spring from its system.
func (s *Spring) Destroy() {
	s.listeners = nil
	s.system.DeregisterSpring(s)
}

// ID identifies the spring within its System.
func (s *Spring) ID() string { return s.id }

// SetConfig replaces the tension and friction used from the next frame on.
func (s *Spring) SetConfig(cfg Config) *Spring {
	s.config = &cfg
	return s
}

// Config returns the spring's config and whether one was assigned. A spring
// without a config integrates with zero tension and zero friction.
func (s *Spring) Config() (Config, bool) {
	if s.config == nil {
		return Config{}, false
	}
	return *s.config, true
}

func (s *Spring) tension() float64 {
	if s.config == nil {
		return 0
	}
	return s.config.Tension
}

func (s *Spring) friction() float64 {
	if s.config == nil {
		return 0
	}
	return s.config.Friction
}

// SetCurrentValue moves the spring to v without animating and puts it at
// rest there. Listeners receive a single update.
func (s *Spring) SetCurrentValue(v float64) *Spring {
	return s.setCurrentValue(v, false)
}

// SetCurrentValueInMotion moves the spring to v but keeps its end value and
// velocity, so it continues from the new position on the next frame.
func (s *Spring) SetCurrentValueInMotion(v float64) *Spring {
	return s.setCurrentValue(v, true)
}

func (s *Spring) setCurrentValue(v float64, skipSetAtRest bool) *Spring {
	s.startValue = v
	s.currentState.Position = v
	if !skipSetAtRest {
		s.SetAtRest()
	}
	s.notifyPositionUpdated(false, false)
	return s
}

// StartValue is where the current motion began.
func (s *Spring) StartValue() float64 { return s.startValue }

// CurrentValue is the interpolated position.
func (s *Spring) CurrentValue() float64 { return s.currentState.Position }

// CurrentDisplacementDistance is how far the spring is from its end value.
func (s *Spring) CurrentDisplacementDistance() float64 {
	return s.DisplacementDistanceForState(s.currentState)
}

// DisplacementDistanceForState is the distance from state to the end value.
func (s *Spring) DisplacementDistanceForState(state PhysicsState) float64 {
	return math.Abs(s.endValue - state.Position)
}

// SetEndValue retargets the spring and activates it. Setting the current end
// value on a resting spring does nothing.
func (s *Spring) SetEndValue(endValue float64) *Spring {
	if s.endValue == endValue && s.IsAtRest() {
		return s
	}
	s.startValue = s.CurrentValue()
	s.endValue = endValue
	s.system.ActivateSpring(s.id)
	for _, l := range s.listeners {
		l.OnSpringEndStateChange(s)
	}
	return s
}

// EndValue is the position the spring is heading for.
func (s *Spring) EndValue() float64 { return s.endValue }

// SetVelocity kicks the spring. Any change activates it.
func (s *Spring) SetVelocity(velocity float64) *Spring {
	if velocity == s.currentState.Velocity {
		return s
	}
	s.currentState.Velocity = velocity
	s.system.ActivateSpring(s.id)
	return s
}

// Velocity is in units per second.
func (s *Spring) Velocity() float64 { return s.currentState.Velocity }

// SetRestSpeedThreshold sets the speed below which the spring may rest.
func (s *Spring) SetRestSpeedThreshold(threshold float64) *Spring {
	s.restSpeedThreshold = threshold
	return s
}

// RestSpeedThreshold defaults to DefaultRestSpeedThreshold.
func (s *Spring) RestSpeedThreshold() float64 { return s.restSpeedThreshold }

// SetRestDisplacementThreshold sets how close to the end value the spring
// has to be to rest.
func (s *Spring) SetRestDisplacementThreshold(threshold float64) *Spring {
	s.displacementFromRestThreshold = threshold
	return s
}

// RestDisplacementThreshold defaults to DefaultRestDisplacementThreshold.
func (s *Spring) RestDisplacementThreshold() float64 { return s.displacementFromRestThreshold }

// SetOvershootClampingEnabled makes the spring snap to its end value as soon
// as it passes it.
func (s *Spring) SetOvershootClampingEnabled(enabled bool) *Spring {
	s.overshootClampingEnabled = enabled
	return s
}

// OvershootClampingEnabled is false for new springs.
func (s *Spring) OvershootClampingEnabled() bool { return s.overshootClampingEnabled }

// IsOvershooting reports whether the spring has moved past its end value,
// relative to where the current motion started.
func (s *Spring) IsOvershooting() bool {
	start, end := s.startValue, s.endValue
	cur := s.CurrentValue()
	return s.tension() > 0 &&
		((start < end && cur > end) || (start > end && cur < end))
}

// Advance integrates the spring by realDeltaTime seconds and notifies
// listeners. time is the loop timestamp in seconds.
func (s *Spring) Advance(time, realDeltaTime float64) {
	isAtRest := s.IsAtRest()
	if isAtRest && s.wasAtRest {
		return
	}

	adjustedDeltaTime := realDeltaTime
	if realDeltaTime > MaxDeltaTimeSec {
		adjustedDeltaTime = MaxDeltaTimeSec
	}
	s.timeAccumulator += adjustedDeltaTime

	tension := s.tension()
	friction := s.friction()
	position := s.currentState.Position
	velocity := s.currentState.Velocity
	tempPosition := s.tempState.Position
	tempVelocity := s.tempState.Velocity

	const dt = SolverTimestepSec
	for s.timeAccumulator >= dt {
		s.timeAccumulator -= dt

		if s.timeAccumulator < dt {
			s.previousState.Position = position
			s.previousState.Velocity = velocity
		}

		// The first stage reads the temp position carried over from the
		// previous sub-step, not the current position.
		aVelocity := velocity
		aAcceleration := tension*(s.endValue-tempPosition) - friction*velocity

		tempPosition = position + aVelocity*dt*0.5
		tempVelocity = velocity + aAcceleration*dt*0.5
		bVelocity := tempVelocity
		bAcceleration := tension*(s.endValue-tempPosition) - friction*tempVelocity

		tempPosition = position + bVelocity*dt*0.5
		tempVelocity = velocity + bAcceleration*dt*0.5
		cVelocity := tempVelocity
		cAcceleration := tension*(s.endValue-tempPosition) - friction*tempVelocity

		tempPosition = position + cVelocity*dt
		tempVelocity = velocity + cAcceleration*dt
		dVelocity := tempVelocity
		dAcceleration := tension*(s.endValue-tempPosition) - friction*tempVelocity

		dxdt := 1.0 / 6.0 * (aVelocity + 2.0*(bVelocity+cVelocity) + dVelocity)
		dvdt := 1.0 / 6.0 * (aAcceleration + 2.0*(bAcceleration+cAcceleration) + dAcceleration)

		position += dxdt * dt
		velocity += dvdt * dt
	}

	s.tempState.Position = tempPosition
	s.tempState.Velocity = tempVelocity

	s.currentState.Position = position
	s.currentState.Velocity = velocity

	if s.timeAccumulator > 0 {
		s.interpolate(s.timeAccumulator / dt)
	}

	if s.IsAtRest() || (s.overshootClampingEnabled && s.IsOvershooting()) {
		if tension > 0 {
			s.startValue = s.endValue
			s.currentState.Position = s.endValue
		} else {
			s.endValue = s.currentState.Position
			s.startValue = s.endValue
		}
		s.SetVelocity(0)
		isAtRest = true
	}

	notifyActivate := false
	if s.wasAtRest {
		s.wasAtRest = false
		notifyActivate = true
	}

	notifyAtRest := false
	if isAtRest {
		s.wasAtRest = true
		notifyAtRest = true
	}

	s.notifyPositionUpdated(notifyActivate, notifyAtRest)
}

func (s *Spring) notifyPositionUpdated(notifyActivate, notifyAtRest bool) {
	for _, l := range s.listeners {
		if notifyActivate {
			l.OnSpringActivate(s)
		}
		l.OnSpringUpdate(s)
		if notifyAtRest {
			l.OnSpringAtRest(s)
		}
	}
}

// SystemShouldAdvance reports whether the system still has to integrate the
// spring: it is moving, or it has come to rest but not yet told listeners.
func (s *Spring) SystemShouldAdvance() bool {
	return !s.IsAtRest() || !s.WasAtRest()
}

// WasAtRest reports whether listeners were last told the spring is at rest.
func (s *Spring) WasAtRest() bool { return s.wasAtRest }

// IsAtRest reports whether the spring is slow enough and close enough to its
// end value to stop. A spring with zero tension (or no config) has no end
// value to reach, so only its speed counts.
func (s *Spring) IsAtRest() bool {
	return math.Abs(s.currentState.Velocity) < s.restSpeedThreshold &&
		(s.DisplacementDistanceForState(s.currentState) <= s.displacementFromRestThreshold ||
			s.tension() == 0)
}

// SetAtRest makes the current position the end value and stops the spring.
func (s *Spring) SetAtRest() *Spring {
	s.endValue = s.currentState.Position
	s.tempState.Position = s.currentState.Position
	s.currentState.Velocity = 0
	return s
}

func (s *Spring) interpolate(alpha float64) {
	s.currentState.Position = s.currentState.Position*alpha + s.previousState.Position*(1-alpha)
	s.currentState.Velocity = s.currentState.Velocity*alpha + s.previousState.Velocity*(1-alpha)
}

// Listeners returns the registered listeners in registration order.
func (s *Spring) Listeners() []Listener { return s.listeners }

// AddListener appends l. Adding the same listener twice delivers every
// event twice.
func (s *Spring) AddListener(l Listener) *Spring {
	s.listeners = append(s.listeners, l)
	return s
}

// RemoveListener removes the first registration of l.
func (s *Spring) RemoveListener(l Listener) *Spring {
	s.listeners = removeFirst(s.listeners, l)
	return s
}

// RemoveAllListeners drops every listener.
func (s *Spring) RemoveAllListeners() *Spring {
	s.listeners = nil
	return s
}

// CurrentValueIsApproximately compares against v within the rest
// displacement threshold.
func (s *Spring) CurrentValueIsApproximately(v float64) bool {
	return math.Abs(s.CurrentValue()-v) <= s.RestDisplacementThreshold()
}
