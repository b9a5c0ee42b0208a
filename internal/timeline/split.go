package timeline

import (
	"sort"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// Split divides tr at pivot into two series that share one interpolated
// sample at the pivot time. The left series holds every sample strictly
// before the pivot, the right one every sample from the pivot on, so
// dropping the shared point from each and concatenating gives back tr.
func Split(tr *dynamo.Trajectory, pivot float64) (left, right dynamo.Series, err error) {
	if tr.Empty() {
		return left, right, ErrNotComputed
	}

	idx := sort.SearchFloat64s(tr.Times, pivot)
	at := interpolateAt(tr, pivot, idx)
	dim := tr.Dim()

	left = dynamo.Series{
		Times:  make([]float64, 0, idx+1),
		Values: make([][]float64, dim),
	}
	left.Times = append(left.Times, tr.Times[:idx]...)
	left.Times = append(left.Times, pivot)

	right = dynamo.Series{
		Times:  make([]float64, 0, tr.Len()-idx+1),
		Values: make([][]float64, dim),
	}
	right.Times = append(right.Times, pivot)
	right.Times = append(right.Times, tr.Times[idx:]...)

	for k := 0; k < dim; k++ {
		lv := make([]float64, 0, idx+1)
		for _, x := range tr.States[:idx] {
			lv = append(lv, x[k])
		}
		left.Values[k] = append(lv, at[k])

		rv := make([]float64, 0, tr.Len()-idx+1)
		rv = append(rv, at[k])
		for _, x := range tr.States[idx:] {
			rv = append(rv, x[k])
		}
		right.Values[k] = rv
	}

	return left, right, nil
}
