package integrators

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// RK4 is the classic fixed-step scheme. The step is Options.InitialStep and
// the final step is shortened to land on t1.
type RK4 struct {
	opts Options
}

func NewRK4(opts Options) *RK4 {
	return &RK4{opts: opts.withDefaults()}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Integrate(sys dynamo.System, x0 dynamo.State, t0, t1 float64) (*dynamo.Trajectory, error) {
	if len(x0) != sys.StateDim() {
		return nil, fmt.Errorf("x0 has %d components, system has %d: %w", len(x0), sys.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}

	tr := dynamo.NewTrajectory(64)
	tr.Append(t0, x0.Clone())
	if t1 <= t0 {
		return tr, nil
	}

	h := r.opts.InitialStep
	scratch := make(dynamo.State, len(x0))
	x := x0.Clone()
	t := t0

	for step := 0; t < t1; step++ {
		if step >= r.opts.MaxSteps {
			return nil, &dynamo.IntegrationError{Step: step, Time: t, State: x, Wrapped: dynamo.ErrTooManySteps}
		}
		dt := h
		last := t+dt >= t1
		if last {
			dt = t1 - t
		}

		x = r.step(sys, scratch, x, t, dt)
		if !x.IsValid() {
			return nil, &dynamo.IntegrationError{Step: step, Time: t + dt, State: x, Wrapped: dynamo.ErrInvalidState}
		}
		if last {
			t = t1
		} else {
			t += dt
		}
		tr.Append(t, x)
	}

	return tr, nil
}

func (r *RK4) step(sys dynamo.System, scratch, x dynamo.State, t, dt float64) dynamo.State {
	k1 := sys.Derive(x, t)

	floats.AddScaledTo(scratch, x, dt*0.5, k1)
	k2 := sys.Derive(scratch, t+dt*0.5)

	floats.AddScaledTo(scratch, x, dt*0.5, k2)
	k3 := sys.Derive(scratch, t+dt*0.5)

	floats.AddScaledTo(scratch, x, dt, k3)
	k4 := sys.Derive(scratch, t+dt)

	result := x.Clone()
	dt6 := dt / 6.0
	for i := range result {
		result[i] += dt6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}

	return result
}
