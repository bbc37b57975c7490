// Package physics provides the galactic potential a star is integrated in.
//
// [Potential] combines an axisymmetric logarithmic disk with a rigidly
// rotating, tightly wound spiral perturbation and implements
// [dynamo.System] (the potential gradient) and [dynamo.Hamiltonian] (the
// Jacobi integral in the pattern frame):
//
//	pot, err := physics.New(physics.Params{
//	    Arms: 4, PitchDeg: 20, Corotation: 8, Epsilon: 0.3,
//	    Disk: physics.DefaultDisk(),
//	})
//	g := pot.Acceleration(x, y, t) // km/s^2
//
// Parameters are validated once in [New]; a constructed Potential never
// changes and can be shared by any number of goroutines.
//
// # Singularity
//
// The disk and the spiral phase are undefined at R = 0. Acceleration does
// not check for it; [dynamo.Simulator] rejects such states before stepping.
package physics
