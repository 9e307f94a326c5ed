// Package spring provides a damped harmonic oscillator simulation for
// driving animated values.
//
// The package is built from a few pieces:
//
//   - [Config]: tension and friction for a spring, with constructors from
//     the origami and bounciness/speed scales
//   - [Spring]: one oscillating value, integrated with fixed-step RK4
//   - [System]: registry and active set for many springs, advanced by [System.Loop]
//   - [Looper]: decides when the system loops next ([AnimationLooper],
//     [SimulationLooper], [SteppingLooper])
//
// # Example
//
//	looper := spring.NewSimulationLooper(16.667)
//	sys := spring.NewSystem(looper)
//	s := sys.CreateSpring(40, 7)
//	s.SetCurrentValue(0)
//	s.SetEndValue(1) // runs the batch looper to completion
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. A System and its
// springs must be driven from a single goroutine, normally the one that
// drains frame callbacks. Listeners must not add or remove listeners on the
// spring that is notifying them.
package spring
