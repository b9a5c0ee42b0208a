package integrators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// DOPRI5 is an adaptive Dormand-Prince 5(4) driver. Every accepted step is
// recorded, so sample density follows the local error.
type DOPRI5 struct {
	opts     Options
	safety   float64
	minScale float64
	maxScale float64
}

func NewDOPRI5(opts Options) *DOPRI5 {
	return &DOPRI5{
		opts:     opts.withDefaults(),
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5.0,
	}
}

func (d *DOPRI5) Name() string { return "dopri5" }

func (d *DOPRI5) Options() Options { return d.opts }

// Integrate returns samples from t0 to exactly t1, starting with x0 at t0.
// A span with t1 <= t0 yields the single sample (t0, x0).
func (d *DOPRI5) Integrate(sys dynamo.System, x0 dynamo.State, t0, t1 float64) (*dynamo.Trajectory, error) {
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

	w := newWork(len(x0))
	x := x0.Clone()
	k1 := sys.Derive(x, t0)
	t := t0
	dt := math.Min(d.opts.InitialStep, d.opts.MaxStep)

	for step := 0; t < t1; step++ {
		if step >= d.opts.MaxSteps {
			return nil, &dynamo.IntegrationError{Step: step, Time: t, State: x, Wrapped: dynamo.ErrTooManySteps}
		}

		last := false
		if t+dt >= t1 {
			dt = t1 - t
			last = true
		}

		xNew, k7, errNorm := d.try(sys, w, x, k1, t, dt)
		if !xNew.IsValid() || math.IsNaN(errNorm) {
			errNorm = math.Inf(1)
		}

		if errNorm > 1 {
			dt *= math.Max(d.safety*math.Pow(errNorm, -1.0/3.0), d.minScale)
			if dt < d.opts.MinStep {
				return nil, &dynamo.IntegrationError{Step: step, Time: t, State: x, Wrapped: dynamo.ErrStepTooSmall}
			}
			continue
		}

		if last {
			t = t1
		} else {
			t += dt
		}
		x, k1 = xNew, k7
		tr.Append(t, x)

		if errNorm < 0.5 {
			errNorm = math.Max(errNorm, math.Pow(d.maxScale, -5))
			dt *= d.safety * math.Pow(errNorm, -1.0/5.0)
		}
		dt = math.Min(dt, d.opts.MaxStep)
	}

	return tr, nil
}

// work holds the stage buffers of one Integrate call.
type work struct {
	stage dynamo.State
	errv  dynamo.State
	ks    []dynamo.State
}

func newWork(n int) *work {
	return &work{
		stage: make(dynamo.State, n),
		errv:  make(dynamo.State, n),
		ks:    make([]dynamo.State, 7),
	}
}

var (
	stage2 = []float64{b21}
	stage3 = []float64{b31, b32}
	stage4 = []float64{b41, b42, b43}
	stage5 = []float64{b51, b52, b53, b54}
	stage6 = []float64{b61, b62, b63, b64, b65}
	order5 = []float64{c1, 0, c3, c4, c5, c6}
	embed  = []float64{dc1, 0, dc3, dc4, dc5, dc6, dc7}
)

// accumulate adds dt*sum(coef[j]*k[j]) to dst.
func accumulate(dst dynamo.State, dt float64, coef []float64, k []dynamo.State) {
	for j, c := range coef {
		if c != 0 {
			floats.AddScaled(dst, dt*c, k[j])
		}
	}
}

func combine(dst, x dynamo.State, dt float64, coef []float64, k []dynamo.State) {
	copy(dst, x)
	accumulate(dst, dt, coef, k)
}

// try takes one trial step of size dt. It returns the 5th-order solution,
// its derivative (reused as k1 of the next step) and the scaled error norm.
func (d *DOPRI5) try(sys dynamo.System, w *work, x, k1 dynamo.State, t, dt float64) (dynamo.State, dynamo.State, float64) {
	ks := w.ks
	ks[0] = k1

	combine(w.stage, x, dt, stage2, ks)
	ks[1] = sys.Derive(w.stage, t+a2*dt)

	combine(w.stage, x, dt, stage3, ks)
	ks[2] = sys.Derive(w.stage, t+a3*dt)

	combine(w.stage, x, dt, stage4, ks)
	ks[3] = sys.Derive(w.stage, t+a4*dt)

	combine(w.stage, x, dt, stage5, ks)
	ks[4] = sys.Derive(w.stage, t+a5*dt)

	combine(w.stage, x, dt, stage6, ks)
	ks[5] = sys.Derive(w.stage, t+dt)

	xNew := make(dynamo.State, len(x))
	combine(xNew, x, dt, order5, ks)
	ks[6] = sys.Derive(xNew, t+dt)

	for i := range w.errv {
		w.errv[i] = 0
	}
	accumulate(w.errv, dt, embed, ks)

	errMax := 0.0
	for i := range x {
		scale := d.opts.AbsTol + d.opts.RelTol*(math.Abs(x[i])+dt*math.Abs(k1[i]))
		errMax = math.Max(errMax, math.Abs(w.errv[i])/scale)
	}

	return xNew, ks[6], errMax
}
