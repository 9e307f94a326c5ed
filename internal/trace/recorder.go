// Package trace records what a spring system does frame by frame.
package trace

import "github.com/san-kum/springsim/internal/spring"

// Sample is one update of a spring. TimeMs is measured from the first
// observed loop; updates before any loop are stamped 0.
type Sample struct {
	Frame    int     `json:"frame"`
	TimeMs   float64 `json:"time_ms"`
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
}

// Counts tallies the listener callbacks a spring received.
type Counts struct {
	EndStateChanges int
	Activations     int
	Updates         int
	Rests           int
}

// Recorder is both a spring listener and a system listener. Attach it to a
// System with Attach, then to each spring with Watch.
type Recorder struct {
	frame   int
	start   float64
	now     float64
	order   []string
	names   map[string]string
	samples map[string][]Sample
	counts  map[string]*Counts
}

func NewRecorder() *Recorder {
	return &Recorder{
		names:   make(map[string]string),
		samples: make(map[string][]Sample),
		counts:  make(map[string]*Counts),
	}
}

func (r *Recorder) Attach(sys *spring.System) {
	sys.AddListener(r)
}

// Watch starts recording s under name.
func (r *Recorder) Watch(name string, s *spring.Spring) {
	if _, ok := r.names[s.ID()]; !ok {
		r.order = append(r.order, s.ID())
		r.counts[s.ID()] = &Counts{}
	}
	r.names[s.ID()] = name
	s.AddListener(r)
}

// Frames is the number of system loops observed.
func (r *Recorder) Frames() int { return r.frame }

// IDs returns the watched spring ids in watch order.
func (r *Recorder) IDs() []string { return r.order }

func (r *Recorder) Name(id string) string { return r.names[id] }

func (r *Recorder) Samples(id string) []Sample { return r.samples[id] }

func (r *Recorder) Counts(id string) Counts {
	if c, ok := r.counts[id]; ok {
		return *c
	}
	return Counts{}
}

// Positions returns the recorded positions of a spring.
func (r *Recorder) Positions(id string) []float64 {
	samples := r.samples[id]
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Position
	}
	return out
}

func (r *Recorder) OnBeforeIntegrate(sys *spring.System) {
	if r.frame == 0 {
		r.start = sys.Time()
	}
	r.now = sys.Time() - r.start
	r.frame++
}

func (r *Recorder) OnAfterIntegrate(sys *spring.System) {}

func (r *Recorder) OnSpringEndStateChange(s *spring.Spring) {
	r.count(s).EndStateChanges++
}

func (r *Recorder) OnSpringActivate(s *spring.Spring) {
	r.count(s).Activations++
}

func (r *Recorder) OnSpringUpdate(s *spring.Spring) {
	r.count(s).Updates++
	r.samples[s.ID()] = append(r.samples[s.ID()], Sample{
		Frame:    r.frame,
		TimeMs:   r.now,
		Position: s.CurrentValue(),
		Velocity: s.Velocity(),
	})
}

func (r *Recorder) OnSpringAtRest(s *spring.Spring) {
	r.count(s).Rests++
}

func (r *Recorder) count(s *spring.Spring) *Counts {
	c, ok := r.counts[s.ID()]
	if !ok {
		c = &Counts{}
		r.counts[s.ID()] = c
	}
	return c
}
