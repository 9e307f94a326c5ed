package sim

import (
	"errors"

	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/trace"
)

// ErrFrameLimit is returned with a partial result when a scenario is still
// animating after its frame budget.
var ErrFrameLimit = errors.New("sim: springs still moving after max frames")

type Result struct {
	Name       string
	Looper     string
	TimestepMs float64
	Frames     int
	DurationMs float64
	Springs    []SpringResult
}

type SpringResult struct {
	ID     string
	Name   string
	Config spring.Config
	From   float64
	To     float64
	Final  spring.PhysicsState
	AtRest bool
	Counts trace.Counts
	// EnergyRise is the largest energy gain seen during the run, as a
	// fraction of the starting energy.
	EnergyRise float64
	Samples    []trace.Sample
}

// Spring returns the result for the named spring.
func (r *Result) Spring(name string) (SpringResult, bool) {
	for _, s := range r.Springs {
		if s.Name == name {
			return s, true
		}
	}
	return SpringResult{}, false
}
