package analysis

import (
	"math"

	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/trace"
)

// DampingRatio is friction / (2 sqrt(tension)). Values below one oscillate.
// Zero tension gives +Inf.
func DampingRatio(cfg spring.Config) float64 {
	if cfg.Tension <= 0 {
		return math.Inf(1)
	}
	return cfg.Friction / (2 * math.Sqrt(cfg.Tension))
}

// TheoreticalFrequency returns the damped natural frequency in Hz, or zero
// for a spring that does not oscillate.
func TheoreticalFrequency(cfg spring.Config) float64 {
	d := cfg.Tension - (cfg.Friction/2)*(cfg.Friction/2)
	if d <= 0 {
		return 0
	}
	return math.Sqrt(d) / (2 * math.Pi)
}

// SettleTime returns the time, in milliseconds from the first sample, after
// which every sample stays within tol of target. ok is false when the last
// sample is still outside the band.
func SettleTime(samples []trace.Sample, target, tol float64) (ms float64, ok bool) {
	if len(samples) == 0 {
		return 0, false
	}
	start := samples[0].TimeMs
	last := -1
	for i, s := range samples {
		if math.Abs(s.Position-target) > tol {
			last = i
		}
	}
	switch {
	case last == len(samples)-1:
		return 0, false
	case last < 0:
		return 0, true
	}
	return samples[last+1].TimeMs - start, true
}

// PeakOvershoot is the furthest any sample went past target, moving away
// from start, as a fraction of |target - start|.
func PeakOvershoot(samples []trace.Sample, start, target float64) float64 {
	span := target - start
	if span == 0 {
		return 0
	}
	peak := 0.0
	for _, s := range samples {
		over := (s.Position - target) / span
		if over > peak {
			peak = over
		}
	}
	return peak
}

// ZeroCrossings counts how often the trajectory passes through target.
func ZeroCrossings(samples []trace.Sample, target float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		a := samples[i-1].Position - target
		b := samples[i].Position - target
		if (a < 0 && b >= 0) || (a > 0 && b <= 0) {
			n++
		}
	}
	return n
}

// MaxDeviation returns the largest absolute difference between a and b over
// their common length.
func MaxDeviation(a, b []float64) float64 {
	n := min(len(a), len(b))
	worst := 0.0
	for i := 0; i < n; i++ {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}

// Summary collects the metrics reported for a single spring.
type Summary struct {
	DampingRatio float64
	TheoryHz     float64
	MeasuredHz   float64
	SettleMs     float64
	Settled      bool
	Overshoot    float64
	Crossings    int
}

// Summarize computes a Summary for samples of a spring moving from start to
// target. tol is the settle band.
func Summarize(cfg spring.Config, samples []trace.Sample, start, target, tol float64) Summary {
	positions := make([]float64, len(samples))
	for i, s := range samples {
		positions[i] = s.Position - target
	}
	settle, ok := SettleTime(samples, target, tol)
	return Summary{
		DampingRatio: DampingRatio(cfg),
		TheoryHz:     TheoreticalFrequency(cfg),
		MeasuredHz:   DominantFrequency(positions, sampleRate(samples)),
		SettleMs:     settle,
		Settled:      ok,
		Overshoot:    PeakOvershoot(samples, start, target),
		Crossings:    ZeroCrossings(samples, target),
	}
}

// sampleRate is the mean sampling rate in Hz, from the sample timestamps.
func sampleRate(samples []trace.Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	span := samples[len(samples)-1].TimeMs - samples[0].TimeMs
	if span <= 0 {
		return 0
	}
	return float64(len(samples)-1) * 1000 / span
}

// Metrics flattens s for storage.
func (s Summary) Metrics() map[string]float64 {
	settled := 0.0
	if s.Settled {
		settled = 1
	}
	return map[string]float64{
		"damping_ratio": s.DampingRatio,
		"theory_hz":     s.TheoryHz,
		"measured_hz":   s.MeasuredHz,
		"settle_ms":     s.SettleMs,
		"settled":       settled,
		"overshoot":     s.Overshoot,
		"crossings":     float64(s.Crossings),
	}
}
