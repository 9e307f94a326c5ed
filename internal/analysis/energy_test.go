package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/spring"
)

func TestSpringEnergy(t *testing.T) {
	cfg := spring.NewConfig(100, 10)
	got := SpringEnergy(cfg, 1, spring.PhysicsState{Position: 0.5, Velocity: 2})
	want := 0.5*4 + 0.5*100*0.25
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected energy %f, got %f", want, got)
	}
}

func TestEnergyMonitorDampedSpring(t *testing.T) {
	looper := spring.NewSteppingLooper()
	sys := spring.NewSystem(looper)
	s := sys.CreateDefaultSpring()
	m := NewEnergyMonitor()
	s.AddListener(m)

	s.SetEndValue(1)
	for i := 0; i < 3000 && !sys.IsIdle(); i++ {
		looper.Step(1)
	}

	if got := m.Value(); got > 1e-3 {
		t.Errorf("expected no energy gain for a damped spring, got %f", got)
	}
}

func TestEnergyMonitorSeesPush(t *testing.T) {
	looper := spring.NewSteppingLooper()
	sys := spring.NewSystem(looper)
	s := sys.CreateDefaultSpring()
	m := NewEnergyMonitor()
	s.AddListener(m)

	s.SetEndValue(1)
	for i := 0; i < 50; i++ {
		looper.Step(1)
	}
	s.SetVelocity(s.Velocity() + 20)
	looper.Step(1)

	if m.Value() <= 0.1 {
		t.Errorf("expected a large rise after a push, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected reset to clear the rise")
	}
}
