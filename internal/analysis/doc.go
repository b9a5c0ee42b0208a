// Package analysis provides whole-model views that complement a timeline.
//
//   - [GeneratePhasePortrait]: trajectories from a triangular grid of
//     initial conditions, integrated concurrently
//   - [ParameterSweep]: peak and final size as one parameter varies
//   - [BalanceSeries]: asymptomatic balance of a SIRA series
//   - [Resample]: evenly spaced copy of an adaptive series for plotting
//
// # Threshold
//
// Sweeping R0 of a SIR model shows no outbreak below one:
//
//	pts, _ := analysis.ParameterSweep(ctx, ens, analysis.SweepSpec{
//	    Variant: compartment.SIR, Min: 0, Max: 5, Steps: 51, Index: 1, TimeEnd: 100,
//	})
package analysis
