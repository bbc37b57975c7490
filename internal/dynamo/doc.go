// Package dynamo provides the core simulation primitives for a single star
// orbiting in a fixed analytic galactic potential.
//
// The package defines the types shared by every other component:
//
//   - [PhaseState]: inertial-frame point (x, y, vx, vy, t) in kpc, km/s, yr
//   - [Trajectory]: time-ordered samples on a fixed step
//   - [System]: anything exposing a potential gradient at (x, y, t)
//   - [Integrator]: fixed-step advance of a phase state
//   - [Simulator]: drives an integrator over a precomputed time grid
//
// # Example
//
//	pot, _ := physics.New(params)
//	s := dynamo.New(pot, integrators.NewLeapfrog())
//	result, _ := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe because metrics and observers
// accumulate state. Trajectories are never mutated after Run returns and can
// be shared read-only. For batches, build one Simulator per orbit.
package dynamo
