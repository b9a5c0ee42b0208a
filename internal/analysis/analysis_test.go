package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/integrators"
)

func ensemble() *dynamo.Ensemble {
	return dynamo.NewEnsemble(integrators.NewDOPRI5(integrators.DefaultOptions()), 4)
}

func TestTriangularGrid(t *testing.T) {
	grid := TriangularGrid(10, 0, 1)
	if len(grid) != 55 {
		t.Fatalf("expected 55 grid states, got %d", len(grid))
	}
	for _, x := range grid {
		if x[0] <= 0 || x[1] <= 0 {
			t.Errorf("grid state %v sits on an axis", x)
		}
		if x[0]+x[1] > 1+2*gridOffset || x[2] < 0 {
			t.Errorf("grid state %v leaves the simplex", x)
		}
	}
}

func TestGeneratePhasePortrait(t *testing.T) {
	portrait, err := GeneratePhasePortrait(context.Background(), ensemble(), PortraitSpec{
		Variant: compartment.SIR,
		GridDim: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(portrait.Curves) != 15 {
		t.Fatalf("expected 15 curves, got %d", len(portrait.Curves))
	}

	// Susceptibles only decrease in SIR.
	for i, c := range portrait.Curves {
		if c[len(c)-1].X > c[0].X {
			t.Errorf("curve %d: S grew from %g to %g", i, c[0].X, c[len(c)-1].X)
		}
	}

	art := PhasePortraitToASCII(portrait, 40, 20)
	if strings.Count(art, "\n") != 20 {
		t.Errorf("expected 20 rows, got %d", strings.Count(art, "\n"))
	}
	if !strings.ContainsRune(art, 'o') {
		t.Error("expected curve starts to be marked")
	}
}

func TestPhasePortraitNeedsThreeCompartments(t *testing.T) {
	_, err := GeneratePhasePortrait(context.Background(), ensemble(), PortraitSpec{Variant: compartment.SEIR})
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestParameterSweepThreshold(t *testing.T) {
	pts, err := ParameterSweep(context.Background(), ensemble(), SweepSpec{
		Variant: compartment.SIR,
		Min:     0.5,
		Max:     3,
		Steps:   6,
		Index:   2,
		TimeEnd: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 6 {
		t.Fatalf("expected 6 points, got %d", len(pts))
	}
	if pts[0].Final > 1e-5 {
		t.Errorf("R0=%g: expected no outbreak, final R = %g", pts[0].Param, pts[0].Final)
	}
	if last := pts[len(pts)-1]; last.Final < 0.9 {
		t.Errorf("R0=%g: expected most of the population infected, final R = %g", last.Param, last.Final)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Final < pts[i-1].Final {
			t.Errorf("final size decreased between R0=%g and R0=%g", pts[i-1].Param, pts[i].Param)
		}
	}
}

func TestBalanceSeries(t *testing.T) {
	s := dynamo.Series{
		Times:  []float64{0, 1},
		Values: [][]float64{{0.9, 0.9}, {0.05, 0.01}, {0, 0.05}, {0.05, 0.04}},
	}
	b, err := BalanceSeries(s)
	if err != nil {
		t.Fatal(err)
	}
	if b[0] != 0 || math.Abs(b[1]-0.6) > 1e-12 {
		t.Errorf("expected [0 0.6], got %v", b)
	}

	s.Values[1][1], s.Values[3][1] = 0, 0
	if _, err := BalanceSeries(s); !errors.Is(err, compartment.ErrZeroDenominator) {
		t.Errorf("expected ErrZeroDenominator, got %v", err)
	}
}

func TestResample(t *testing.T) {
	s := dynamo.Series{
		Times:  []float64{0, 1, 1, 4},
		Values: [][]float64{{0, 2, 2, 8}},
	}
	out := Resample(s, 5)
	want := []float64{0, 2, 4, 6, 8}
	for i, w := range want {
		if math.Abs(out.Values[0][i]-w) > 1e-12 {
			t.Errorf("sample %d: expected %g, got %g", i, w, out.Values[0][i])
		}
	}
	if out.Times[4] != 4 {
		t.Errorf("expected span to end at 4, got %g", out.Times[4])
	}
}
