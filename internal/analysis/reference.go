package analysis

import (
	"errors"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/springsim/internal/spring"
)

// ErrNoTension is returned for configs the closed form cannot describe.
var ErrNoTension = errors.New("analysis: reference needs positive tension")

// Reference returns the closed-form position of a damped spring after each
// of deltas (seconds), starting at from with velocity v0 and pulled toward to.
func Reference(cfg spring.Config, from, to, v0 float64, deltas []float64) ([]float64, error) {
	if cfg.Tension <= 0 {
		return nil, ErrNoTension
	}
	omega := math.Sqrt(cfg.Tension)
	zeta := cfg.Friction / (2 * omega)

	out := make([]float64, len(deltas))
	pos, vel := from, v0
	var (
		s    harmonica.Spring
		last = math.NaN()
	)
	for i, dt := range deltas {
		if dt != last {
			s = harmonica.NewSpring(dt, omega, zeta)
			last = dt
		}
		pos, vel = s.Update(pos, vel, to)
		out[i] = pos
	}
	return out, nil
}

// FixedDeltas returns n copies of dt.
func FixedDeltas(n int, dt float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = dt
	}
	return out
}
