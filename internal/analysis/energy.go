package analysis

import (
	"math"

	"github.com/san-kum/springsim/internal/spring"
)

// SpringEnergy is the energy per unit mass of state about end:
// kinetic v²/2 plus elastic k(x-end)²/2.
func SpringEnergy(cfg spring.Config, end float64, st spring.PhysicsState) float64 {
	d := st.Position - end
	return 0.5*st.Velocity*st.Velocity + 0.5*cfg.Tension*d*d
}

// EnergyMonitor watches a spring and records how far its energy ever rose
// above the lowest level seen since the motion started. A damped spring
// left alone never gains energy, so any rise is integration error or an
// outside push. Activation and end value changes start a new baseline.
type EnergyMonitor struct {
	initial float64
	lowest  float64
	maxRise float64
	samples int
}

func NewEnergyMonitor() *EnergyMonitor {
	return &EnergyMonitor{}
}

func (e *EnergyMonitor) OnSpringEndStateChange(s *spring.Spring) { e.samples = 0 }

func (e *EnergyMonitor) OnSpringActivate(s *spring.Spring) { e.samples = 0 }

func (e *EnergyMonitor) OnSpringAtRest(s *spring.Spring) {}

func (e *EnergyMonitor) OnSpringUpdate(s *spring.Spring) {
	cfg, _ := s.Config()
	energy := SpringEnergy(cfg, s.EndValue(), spring.PhysicsState{
		Position: s.CurrentValue(),
		Velocity: s.Velocity(),
	})

	if e.samples == 0 {
		e.initial = energy
		e.lowest = energy
	}
	e.samples++

	e.lowest = math.Min(e.lowest, energy)
	if e.initial != 0 {
		e.maxRise = math.Max(e.maxRise, (energy-e.lowest)/e.initial)
	}
}

// Value is the largest rise as a fraction of the baseline energy.
func (e *EnergyMonitor) Value() float64 { return e.maxRise }

func (e *EnergyMonitor) Reset() {
	e.initial = 0
	e.lowest = 0
	e.maxRise = 0
	e.samples = 0
}
