package timeline

import "github.com/jmcastelo/SIRview/internal/dynamo"

// Section is one regime: a parameter vector applied over a time range.
type Section struct {
	Range

	InitialState dynamo.State
	Params       []float64
	ParamMin     []float64
	ParamMax     []float64

	trajectory *dynamo.Trajectory
	left       dynamo.Series
	right      dynamo.Series
	full       dynamo.Series
}

// Trajectory is nil until the section has been integrated.
func (s Section) Trajectory() *dynamo.Trajectory { return s.trajectory }

func (s Section) Computed() bool { return !s.trajectory.Empty() }

// Left is the trajectory up to the next section's start.
func (s Section) Left() (dynamo.Series, error) { return series(s.left) }

// Right is the trajectory from the next section's start on.
func (s Section) Right() (dynamo.Series, error) { return series(s.right) }

// Full is the unsplit trajectory of the last section.
func (s Section) Full() (dynamo.Series, error) { return series(s.full) }

func series(s dynamo.Series) (dynamo.Series, error) {
	if s.Empty() {
		return s, ErrNotComputed
	}
	return s, nil
}

// edit copies the editable vectors. Trajectories and series are replaced
// wholesale on recompute, so sharing them is safe.
func (s Section) edit() Section {
	s.InitialState = s.InitialState.Clone()
	s.Params = append([]float64(nil), s.Params...)
	return s
}

// Clone is a deep copy, safe to hand to callers.
func (s Section) Clone() Section {
	c := s.edit()
	c.ParamMin = append([]float64(nil), s.ParamMin...)
	c.ParamMax = append([]float64(nil), s.ParamMax...)
	c.trajectory = s.trajectory.Clone()
	c.left = s.left.Clone()
	c.right = s.right.Clone()
	c.full = s.full.Clone()
	return c
}
