// Package analysis derives trapping diagnostics from a computed orbit.
//
// [Compute] evaluates, for every sample of an inertial trajectory, the
// Jacobi integral, the guiding-centre radius, the random energy and the
// trapping parameter Lambda. [Classify] reduces a Lambda series to one of
// six [TrappingClass] labels:
//
//	series, err := analysis.Compute(traj, pot)
//	if err != nil {
//	    return err
//	}
//	class, err := series.Class()
//
// [PoincareSection] collects (x_R, vx_R) at upward crossings of the
// pattern-frame x axis.
//
// A sample is trapped at corotation while |Lambda| < 1. Lambda uses the
// Jacobi integral of the first sample as a fixed reference, so it is only
// meaningful for trajectories that start at the initial condition of the run.
package analysis
