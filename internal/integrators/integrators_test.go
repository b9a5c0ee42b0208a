package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

type exponentialDecay struct{}

func (exponentialDecay) StateDim() int { return 1 }

func (exponentialDecay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-x[0]}
}

func drivers() []dynamo.Integrator {
	return []dynamo.Integrator{
		NewDOPRI5(DefaultOptions()),
		NewRK4(DefaultOptions()),
	}
}

func assertMonotonic(t *testing.T, tr *dynamo.Trajectory) {
	t.Helper()
	for i := 1; i < tr.Len(); i++ {
		if tr.Times[i] <= tr.Times[i-1] {
			t.Fatalf("times not strictly increasing at %d: %v <= %v", i, tr.Times[i], tr.Times[i-1])
		}
	}
}

func TestAccuracyExponentialDecay(t *testing.T) {
	for _, integ := range drivers() {
		t.Run(integ.Name(), func(t *testing.T) {
			tr, err := integ.Integrate(exponentialDecay{}, dynamo.State{1}, 0, 5)
			if err != nil {
				t.Fatal(err)
			}
			want := math.Exp(-5)
			got := tr.Final()[0]
			if math.Abs(got-want)/want > 1e-5 {
				t.Errorf("expected %g, got %g", want, got)
			}
		})
	}
}

func TestHarmonicPeriod(t *testing.T) {
	integ := NewDOPRI5(DefaultOptions())
	tr, err := integ.Integrate(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 2*math.Pi)
	if err != nil {
		t.Fatal(err)
	}
	x := tr.Final()
	if math.Abs(x[0]-1) > 1e-4 || math.Abs(x[1]) > 1e-4 {
		t.Errorf("expected return to (1, 0), got %v", x)
	}
}

func TestEndpointsAndMonotonicTime(t *testing.T) {
	for _, integ := range drivers() {
		t.Run(integ.Name(), func(t *testing.T) {
			tr, err := integ.Integrate(&harmonicOscillator{}, dynamo.State{1, 0}, 1.5, 7.25)
			if err != nil {
				t.Fatal(err)
			}
			if tr.Start() != 1.5 {
				t.Errorf("expected first sample at 1.5, got %v", tr.Start())
			}
			if tr.End() != 7.25 {
				t.Errorf("expected last sample at 7.25, got %v", tr.End())
			}
			if tr.States[0][0] != 1 || tr.States[0][1] != 0 {
				t.Errorf("first sample must be the initial state, got %v", tr.States[0])
			}
			assertMonotonic(t, tr)
		})
	}
}

func TestDegenerateSpan(t *testing.T) {
	for _, integ := range drivers() {
		for _, t1 := range []float64{3, 2} {
			tr, err := integ.Integrate(&harmonicOscillator{}, dynamo.State{1, 0}, 3, t1)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", integ.Name(), err)
			}
			if tr.Len() != 1 || tr.Start() != 3 {
				t.Errorf("%s [3, %v]: expected single sample at 3, got %d samples", integ.Name(), t1, tr.Len())
			}
		}
	}
}

func TestDoesNotAliasInitialState(t *testing.T) {
	x0 := dynamo.State{1, 0}
	tr, _ := NewDOPRI5(DefaultOptions()).Integrate(&harmonicOscillator{}, x0, 0, 1)
	tr.States[0][0] = 9
	if x0[0] != 1 {
		t.Error("trajectory aliases the caller's initial state")
	}
}

func TestDimensionMismatch(t *testing.T) {
	for _, integ := range drivers() {
		_, err := integ.Integrate(&harmonicOscillator{}, dynamo.State{1}, 0, 1)
		if !errors.Is(err, dynamo.ErrDimensionMismatch) {
			t.Errorf("%s: expected ErrDimensionMismatch, got %v", integ.Name(), err)
		}
	}
}

func TestStepBudget(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSteps = 3
	_, err := NewRK4(opts).Integrate(exponentialDecay{}, dynamo.State{1}, 0, 1)

	var ie *dynamo.IntegrationError
	if !errors.As(err, &ie) || !errors.Is(err, dynamo.ErrTooManySteps) {
		t.Fatalf("expected IntegrationError wrapping ErrTooManySteps, got %v", err)
	}
	if ie.Step != 3 {
		t.Errorf("expected failure at step 3, got %d", ie.Step)
	}
}

func sirRun(t *testing.T, r0 float64) *dynamo.Trajectory {
	t.Helper()
	field, err := compartment.NewField(compartment.SIR, []float64{r0})
	if err != nil {
		t.Fatal(err)
	}
	tr, err := NewDOPRI5(DefaultOptions()).Integrate(field, dynamo.State{1 - 1e-7, 1e-7, 0}, 0, 50)
	if err != nil {
		t.Fatal(err)
	}
	assertMonotonic(t, tr)
	return tr
}

func TestSIREpidemicThreshold(t *testing.T) {
	tr := sirRun(t, 2.5)
	const slack = 1e-12

	peak := 0
	for i, x := range tr.States {
		if x[1] > tr.States[peak][1] {
			peak = i
		}
	}
	if peak == 0 || peak == tr.Len()-1 {
		t.Fatalf("expected interior infection peak, got index %d of %d", peak, tr.Len())
	}
	if tr.States[peak][1] < 0.1 {
		t.Errorf("expected a sizeable outbreak, peak I = %g", tr.States[peak][1])
	}
	if tr.Final()[1] > 1e-6 {
		t.Errorf("expected infection to die out, final I = %g", tr.Final()[1])
	}

	for i := 1; i < tr.Len(); i++ {
		prev, cur := tr.States[i-1], tr.States[i]
		if i <= peak && cur[1] < prev[1]-slack {
			t.Errorf("I decreased before the peak at t=%g", tr.Times[i])
		}
		if i > peak && cur[1] > prev[1]+slack {
			t.Errorf("I increased after the peak at t=%g", tr.Times[i])
		}
		if cur[0] > prev[0]+slack {
			t.Errorf("S increased at t=%g", tr.Times[i])
		}
		if cur[2] < prev[2]-slack {
			t.Errorf("R decreased at t=%g", tr.Times[i])
		}
		if math.Abs(cur.Sum()-1) > 1e-4 {
			t.Errorf("population drifted to %g at t=%g", cur.Sum(), tr.Times[i])
		}
	}

	if tr.Len() >= 5000 {
		t.Errorf("expected adaptive stepping to beat the fixed step count, got %d samples", tr.Len())
	}
}

func TestSIRSubThreshold(t *testing.T) {
	tr := sirRun(t, 0.5)
	for i := 1; i < tr.Len(); i++ {
		if tr.States[i][1] > tr.States[i-1][1] {
			t.Fatalf("I increased at t=%g without an outbreak", tr.Times[i])
		}
	}
}

func TestMaxSampleSpacing(t *testing.T) {
	maxStep := DefaultOptions().MaxStep
	for _, r0 := range []float64{0.5, 2.5} {
		tr := sirRun(t, r0)
		for i := 1; i < tr.Len(); i++ {
			if gap := tr.Times[i] - tr.Times[i-1]; gap > maxStep+1e-12 {
				t.Errorf("R0=%g: gap %g at t=%g exceeds max step %g", r0, gap, tr.Times[i], maxStep)
			}
		}
		if want := int(50 / maxStep); tr.Len() < want {
			t.Errorf("R0=%g: expected at least %d samples over [0, 50], got %d", r0, want, tr.Len())
		}
	}
}

func TestMaxStepDefaults(t *testing.T) {
	d := NewDOPRI5(Options{AbsTol: 1e-8})
	if d.Options().MaxStep != DefaultOptions().MaxStep {
		t.Errorf("expected default max step %g, got %g", DefaultOptions().MaxStep, d.Options().MaxStep)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if integ.Name() != name {
			t.Errorf("expected %s, got %s", name, integ.Name())
		}
	}
	if _, err := New("euler", DefaultOptions()); !errors.Is(err, ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}
