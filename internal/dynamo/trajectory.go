package dynamo

// Trajectory is an ordered list of (time, state) samples.
type Trajectory struct {
	Times  []float64
	States []State
}

func NewTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
}

// Append records a sample. The state is stored as given, callers hand over ownership.
func (tr *Trajectory) Append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x)
}

func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.Times)
}

func (tr *Trajectory) Empty() bool { return tr.Len() == 0 }

func (tr *Trajectory) Dim() int {
	if tr.Empty() {
		return 0
	}
	return len(tr.States[0])
}

func (tr *Trajectory) Start() float64 { return tr.Times[0] }

func (tr *Trajectory) End() float64 { return tr.Times[len(tr.Times)-1] }

func (tr *Trajectory) Final() State { return tr.States[len(tr.States)-1] }

func (tr *Trajectory) Clone() *Trajectory {
	if tr == nil {
		return nil
	}
	c := NewTrajectory(tr.Len())
	c.Times = append(c.Times, tr.Times...)
	for _, x := range tr.States {
		c.States = append(c.States, x.Clone())
	}
	return c
}

// Component extracts the k-th state variable over time.
func (tr *Trajectory) Component(k int) []float64 {
	out := make([]float64, tr.Len())
	for i, x := range tr.States {
		out[i] = x[k]
	}
	return out
}

// Series converts the trajectory into per-component plot columns.
func (tr *Trajectory) Series() Series {
	s := Series{Times: append([]float64(nil), tr.Times...)}
	for k := 0; k < tr.Dim(); k++ {
		s.Values = append(s.Values, tr.Component(k))
	}
	return s
}

// Series is a plot-ready layout: Values[k][i] is component k at Times[i].
type Series struct {
	Times  []float64
	Values [][]float64
}

func (s Series) Len() int { return len(s.Times) }

func (s Series) Dim() int { return len(s.Values) }

func (s Series) Empty() bool { return len(s.Times) == 0 }

// Concat appends other after s, skipping the first sample of other when it
// repeats the last time of s.
func (s Series) Concat(other Series) Series {
	if s.Empty() {
		return other.Clone()
	}
	out := s.Clone()
	start := 0
	if !other.Empty() && other.Times[0] == s.Times[len(s.Times)-1] {
		start = 1
	}
	out.Times = append(out.Times, other.Times[start:]...)
	for k := range out.Values {
		if k < len(other.Values) {
			out.Values[k] = append(out.Values[k], other.Values[k][start:]...)
		}
	}
	return out
}

// Clone is a deep copy.
func (s Series) Clone() Series {
	out := Series{Times: append([]float64(nil), s.Times...)}
	for _, v := range s.Values {
		out.Values = append(out.Values, append([]float64(nil), v...))
	}
	return out
}
