// Package analysis characterizes recorded spring trajectories.
//
// The package includes:
//
//   - [DampingRatio] and [TheoreticalFrequency]: closed-form properties of a spring config
//   - [DominantFrequency]: strongest oscillation in a sampled trajectory
//   - [SettleTime] and [PeakOvershoot]: step-response metrics
//   - [Reference]: analytic trajectory for comparing against the RK4 integrator
//   - [NewPhasePortrait]: position/velocity plot of a trajectory
//
// # Comparing against the closed form
//
//	ref, err := analysis.Reference(cfg, from, to, v0, deltas)
//	if err != nil {
//	    return err
//	}
//	diff := analysis.MaxDeviation(positions, ref)
package analysis
