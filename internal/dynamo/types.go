package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

// Sum returns the total population held by the state.
func (s State) Sum() float64 {
	return floats.Sum(s)
}

func (s State) Add(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Add(result[:n], other[:n])
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

// System is an autonomous-or-not vector field dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator produces a trajectory of sys from x0 over [t0, t1].
// Implementations must be safe for concurrent use.
type Integrator interface {
	Name() string
	Integrate(sys System, x0 State, t0, t1 float64) (*Trajectory, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}
