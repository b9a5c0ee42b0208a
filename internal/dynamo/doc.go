// Package dynamo provides the numerical primitives shared by the rest of
// the module.
//
//   - [State]: vector of compartment fractions
//   - [System]: vector field dX/dt = f(X, t)
//   - [Integrator]: turns a System and an initial state into a [Trajectory]
//   - [Series]: per-component columns ready for plotting
//   - [Ensemble]: runs independent integrations concurrently
//
// # Example
//
//	field, _ := compartment.NewField(compartment.SIR, []float64{2.5})
//	integ := integrators.NewDOPRI5(integrators.DefaultOptions())
//	tr, _ := integ.Integrate(field, field.Variant().InitialState(), 0, 50)
//
// # Thread Safety
//
// Trajectories are plain values and are not synchronized. Integrators are
// stateless between calls, so one instance may back an [Ensemble].
package dynamo
