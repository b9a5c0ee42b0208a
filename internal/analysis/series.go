package analysis

import (
	"sort"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// BalanceSeries maps a SIRA series onto (A-I)/(A+I) over time.
func BalanceSeries(s dynamo.Series) ([]float64, error) {
	out := make([]float64, s.Len())
	x := make(dynamo.State, s.Dim())
	for i := range s.Times {
		for k := range x {
			x[k] = s.Values[k][i]
		}
		b, err := compartment.AsymptomaticBalance(x)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Resample interpolates s linearly onto n evenly spaced times spanning it.
// Terminal plots index samples by position, so irregular adaptive samples
// must be evened out before drawing.
func Resample(s dynamo.Series, n int) dynamo.Series {
	if s.Empty() || n < 2 {
		return s.Clone()
	}
	t0, t1 := s.Times[0], s.Times[s.Len()-1]
	out := dynamo.Series{Times: make([]float64, n), Values: make([][]float64, s.Dim())}
	for k := range out.Values {
		out.Values[k] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(n-1)
		out.Times[i] = t

		j := sort.SearchFloat64s(s.Times, t)
		for k := range out.Values {
			v := s.Values[k]
			switch {
			case j == 0:
				out.Values[k][i] = v[0]
			case j >= s.Len():
				out.Values[k][i] = v[s.Len()-1]
			default:
				ta, tb := s.Times[j-1], s.Times[j]
				if tb == ta {
					out.Values[k][i] = v[j]
					continue
				}
				out.Values[k][i] = v[j-1] + (t-ta)*(v[j]-v[j-1])/(tb-ta)
			}
		}
	}
	return out
}
