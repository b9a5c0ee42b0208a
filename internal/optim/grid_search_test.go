package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/jmcastelo/SIRview/internal/config"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %g, got %g", i, want[i], got[i])
		}
	}
	if len(Linspace(3, 4, 1)) != 1 {
		t.Error("expected a single value")
	}
}

func TestEnumerate(t *testing.T) {
	g := NewGridSearch(0, [][]float64{{1, 2}, {10, 20, 30}}, nil)
	var out [][]float64
	g.enumerate(0, nil, &out)

	if len(out) != 6 {
		t.Fatalf("expected 6 candidates, got %d", len(out))
	}
	if out[0][0] != 1 || out[0][1] != 10 || out[5][0] != 2 || out[5][1] != 30 {
		t.Errorf("unexpected order %v", out)
	}
}

func TestSearchLowestPeak(t *testing.T) {
	base := config.GetPreset("sir", "lockdown")
	g := NewGridSearch(1, [][]float64{{0.5, 1.5, 2.5}}, nil)

	best, peak, err := g.Search(context.Background(), base, "peak_infected")
	if err != nil {
		t.Fatal(err)
	}
	if best[0] != 0.5 {
		t.Errorf("expected the strictest lockdown to win, got R0=%g", best[0])
	}
	if peak <= 0 {
		t.Errorf("expected positive peak, got %g", peak)
	}
}

func TestSearchErrors(t *testing.T) {
	base := config.GetPreset("sir", "lockdown")

	if _, _, err := NewGridSearch(5, nil, nil).Search(context.Background(), base, "peak_infected"); err == nil {
		t.Error("expected missing section to fail")
	}
	if _, _, err := NewGridSearch(1, [][]float64{{1}}, nil).Search(context.Background(), base, "nope"); err == nil {
		t.Error("expected unknown metric to fail")
	}
	// R0 above its range cannot be applied
	_, _, err := NewGridSearch(1, [][]float64{{50}}, nil).Search(context.Background(), base, "peak_infected")
	if !errors.Is(err, ErrNoFeasible) {
		t.Errorf("expected ErrNoFeasible, got %v", err)
	}
}
