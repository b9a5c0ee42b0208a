package timeline

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// Interpolate linearly interpolates tr at time t. A single-sample trajectory
// yields that sample; times outside the span clamp to the nearest end.
func Interpolate(tr *dynamo.Trajectory, t float64) (dynamo.State, error) {
	if tr.Empty() {
		return nil, ErrNotComputed
	}
	return interpolateAt(tr, t, sort.SearchFloat64s(tr.Times, t)), nil
}

// interpolateAt interpolates given idx, the first sample with time >= t.
func interpolateAt(tr *dynamo.Trajectory, t float64, idx int) dynamo.State {
	n := tr.Len()
	switch {
	case idx == 0:
		return tr.States[0].Clone()
	case idx >= n:
		return tr.States[n-1].Clone()
	case tr.Times[idx] == t:
		return tr.States[idx].Clone()
	}

	t0, t1 := tr.Times[idx-1], tr.Times[idx]
	s0, s1 := tr.States[idx-1], tr.States[idx]

	x := make(dynamo.State, len(s0))
	floats.SubTo(x, s1, s0)
	floats.AddScaledTo(x, s0, (t-t0)/(t1-t0), x)
	return x
}
