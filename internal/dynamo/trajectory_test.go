package dynamo

import (
	"math"
	"testing"
)

func TestStateArithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{0.5, 0.5, 0.5}

	if got := a.Add(b); got[2] != 3.5 {
		t.Errorf("expected 3.5, got %v", got[2])
	}
	if got := a.Sub(b); got[0] != 0.5 {
		t.Errorf("expected 0.5, got %v", got[0])
	}
	if got := a.Scale(2); got[1] != 4 {
		t.Errorf("expected 4, got %v", got[1])
	}
	if a[0] != 1 {
		t.Error("arithmetic must not modify the receiver")
	}
	if math.Abs(a.Sum()-6) > 1e-15 {
		t.Errorf("expected sum 6, got %v", a.Sum())
	}
	if math.Abs(State{3, 4}.Norm()-5) > 1e-15 {
		t.Error("expected norm 5")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state reported valid")
	}
}

func TestTrajectorySeries(t *testing.T) {
	tr := NewTrajectory(3)
	tr.Append(0, State{1, 0})
	tr.Append(1, State{0.5, 0.5})
	tr.Append(2, State{0, 1})

	s := tr.Series()
	if s.Len() != 3 || s.Dim() != 2 {
		t.Fatalf("expected 3x2 series, got %dx%d", s.Len(), s.Dim())
	}
	if s.Values[1][2] != 1 {
		t.Errorf("expected component 1 at t=2 to be 1, got %v", s.Values[1][2])
	}

	c := tr.Clone()
	c.States[0][0] = 42
	if tr.States[0][0] != 1 {
		t.Error("clone shares state storage")
	}
}

func TestSeriesConcatDropsSharedPoint(t *testing.T) {
	left := Series{Times: []float64{0, 1}, Values: [][]float64{{1, 2}}}
	right := Series{Times: []float64{1, 2}, Values: [][]float64{{2, 3}}}

	got := left.Concat(right)
	if got.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", got.Len())
	}
	if got.Values[0][2] != 3 {
		t.Errorf("expected last value 3, got %v", got.Values[0][2])
	}
	if left.Len() != 2 {
		t.Error("concat modified its receiver")
	}
}

func TestEmptyTrajectory(t *testing.T) {
	var tr *Trajectory
	if !tr.Empty() || tr.Len() != 0 {
		t.Error("nil trajectory must be empty")
	}
}
