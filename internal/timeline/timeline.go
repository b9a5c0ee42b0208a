package timeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// Timeline is the ordered list of sections of one model instance.
//
// Every mutation either succeeds completely, leaving each section integrated
// from its predecessor's trajectory, or fails and leaves the timeline as it
// was. A Timeline is not safe for concurrent use.
type Timeline struct {
	variant    compartment.Variant
	integ      dynamo.Integrator
	log        *zap.Logger
	limits     Limits
	defaultEnd float64
	initial    dynamo.State

	sections []Section
	current  int
	shift    bool
}

// New creates a timeline holding a single integrated section built from
// the catalog defaults of v.
func New(v compartment.Variant, opts ...Option) (*Timeline, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", compartment.ErrUnknownVariant, int(v))
	}
	t := &Timeline{variant: v}
	defaults(t)
	for _, opt := range opts {
		opt(t)
	}

	if t.initial == nil {
		t.initial = v.InitialState()
	}
	if err := v.ValidateState(t.initial); err != nil {
		return nil, err
	}
	if t.defaultEnd < t.limits.Floor || t.defaultEnd > t.limits.Ceiling {
		return nil, fmt.Errorf("default end %g outside [%g, %g]: %w", t.defaultEnd, t.limits.Floor, t.limits.Ceiling, ErrOutOfBounds)
	}

	if err := t.AddSection(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Timeline) Variant() compartment.Variant { return t.variant }

func (t *Timeline) Limits() Limits { return t.limits }

func (t *Timeline) Len() int { return len(t.sections) }

func (t *Timeline) Current() int { return t.current }

func (t *Timeline) SetCurrent(i int) error {
	if err := t.check(i); err != nil {
		return err
	}
	t.current = i
	return nil
}

func (t *Timeline) ShiftMode() bool { return t.shift }

// SetShiftMode makes time edits drag every later section along instead of
// moving a single boundary.
func (t *Timeline) SetShiftMode(on bool) { t.shift = on }

// Section returns a deep copy of section i.
func (t *Timeline) Section(i int) (Section, error) {
	if err := t.check(i); err != nil {
		return Section{}, err
	}
	return t.sections[i].Clone(), nil
}

// Ranges returns the time range and bounds of every section.
func (t *Timeline) Ranges() []Range {
	out := make([]Range, len(t.sections))
	for i, s := range t.sections {
		out[i] = s.Range
	}
	return out
}

func (t *Timeline) check(i int) error {
	if len(t.sections) == 0 {
		return ErrEmptyTimeline
	}
	if i < 0 || i >= len(t.sections) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSectionIndex, i, len(t.sections))
	}
	return nil
}

// AddSection appends a section. The first one comes from the catalog
// defaults; later ones continue the last section from its end time with the
// same parameters and become current.
func (t *Timeline) AddSection() error {
	if len(t.sections) == 0 {
		return t.addFirst()
	}

	next := t.draft()
	last := next[len(next)-1]
	end := last.End
	sec := Section{
		Range: Range{
			Start:  end,
			End:    end,
			EndMax: end + t.limits.Increment,
		},
		Params:   append([]float64(nil), last.Params...),
		ParamMin: last.ParamMin,
		ParamMax: last.ParamMax,
	}
	next = append(next, sec)

	if err := t.commit(next, len(next)-1); err != nil {
		return err
	}
	t.current = len(t.sections) - 1
	t.log.Debug("section added", zap.Int("section", t.current), zap.Float64("start", end))
	return nil
}

func (t *Timeline) addFirst() error {
	params := t.variant.Parameters()
	sec := Section{
		Range: Range{
			Start:  t.limits.Floor,
			End:    t.defaultEnd,
			EndMax: t.defaultEnd + t.limits.Increment,
		},
		InitialState: t.initial.Clone(),
		Params:       make([]float64, len(params)),
		ParamMin:     make([]float64, len(params)),
		ParamMax:     make([]float64, len(params)),
	}
	for i, p := range params {
		sec.Params[i] = p.Default
		sec.ParamMin[i] = p.Min
		sec.ParamMax[i] = p.Max
	}

	if err := t.commit([]Section{sec}, 0); err != nil {
		return err
	}
	t.current = 0
	return nil
}

// RemoveSection drops sections k and later. Surviving sections keep their
// trajectories; removing at 0 keeps the first section alone and integrates
// it again.
func (t *Timeline) RemoveSection(k int) error {
	if err := t.check(k); err != nil {
		return err
	}

	if k == 0 {
		next := []Section{t.sections[0].edit()}
		if err := t.commit(next, 0); err != nil {
			return err
		}
	} else {
		next := t.draft()[:k]
		t.bound(next)
		t.resplit(next, k-1)
		t.sections = next
	}

	t.current = len(t.sections) - 1
	t.log.Debug("sections removed", zap.Int("from", k), zap.Int("remaining", len(t.sections)))
	return nil
}

// SetInitialState replaces the initial condition of the first section.
// Later sections always inherit theirs from the preceding trajectory.
func (t *Timeline) SetInitialState(x dynamo.State) error {
	if err := t.variant.ValidateState(x); err != nil {
		return err
	}
	next := t.draft()
	next[0].InitialState = x.Clone()
	return t.commit(next, 0)
}

// SetTimeStart moves section i's start to slider position index.
func (t *Timeline) SetTimeStart(i, index, indexMax int) error {
	if err := t.check(i); err != nil {
		return err
	}
	if err := checkSlider(index, indexMax); err != nil {
		return err
	}
	r := t.sections[i].Range
	return t.SetTimeStartValue(i, SliderValue(r.StartMin, r.StartMax, index, indexMax))
}

// SetTimeEnd moves section i's end to slider position index.
func (t *Timeline) SetTimeEnd(i, index, indexMax int) error {
	if err := t.check(i); err != nil {
		return err
	}
	if err := checkSlider(index, indexMax); err != nil {
		return err
	}
	r := t.sections[i].Range
	return t.SetTimeEndValue(i, SliderValue(r.EndMin, r.EndMax, index, indexMax))
}

// SetParameter moves parameter p of section i to slider position index.
func (t *Timeline) SetParameter(i, p, index, indexMax int) error {
	if err := t.checkParam(i, p); err != nil {
		return err
	}
	if err := checkSlider(index, indexMax); err != nil {
		return err
	}
	s := t.sections[i]
	return t.SetParameterValue(i, p, SliderValue(s.ParamMin[p], s.ParamMax[p], index, indexMax))
}

// SetTimeStartValue sets section i's start to v. In shift mode every later
// section and the predecessor's end move along with it.
func (t *Timeline) SetTimeStartValue(i int, v float64) error {
	if err := t.check(i); err != nil {
		return err
	}
	r := t.sections[i].Range
	if t.shift {
		return t.ShiftTimeRanges(i, v-r.Start)
	}
	if v < r.StartMin || v > r.StartMax {
		return t.refuse("time start", i, v, r.StartMin, r.StartMax)
	}

	next := t.draft()
	next[i].Start = v
	return t.commit(next, i)
}

// SetTimeEndValue sets section i's end to v. Typed values may go past the
// slider ceiling up to the global ceiling, which then grows to fit.
func (t *Timeline) SetTimeEndValue(i int, v float64) error {
	if err := t.check(i); err != nil {
		return err
	}
	r := t.sections[i].Range
	if t.shift {
		return t.ShiftTimeRanges(i+1, v-r.End)
	}
	if v < r.EndMin || v > t.limits.Ceiling {
		return t.refuse("time end", i, v, r.EndMin, t.limits.Ceiling)
	}

	next := t.draft()
	next[i].End = v
	return t.commit(next, i)
}

func (t *Timeline) SetParameterValue(i, p int, v float64) error {
	if err := t.checkParam(i, p); err != nil {
		return err
	}
	s := t.sections[i]
	if v < s.ParamMin[p] || v > s.ParamMax[p] {
		return t.refuse("parameter", i, v, s.ParamMin[p], s.ParamMax[p])
	}

	next := t.draft()
	next[i].Params[p] = v
	return t.commit(next, i)
}

func (t *Timeline) checkParam(i, p int) error {
	if err := t.check(i); err != nil {
		return err
	}
	if p < 0 || p >= len(t.sections[i].Params) {
		return fmt.Errorf("parameter %d of %d: %w", p, len(t.sections[i].Params), ErrOutOfBounds)
	}
	return nil
}

func (t *Timeline) refuse(what string, i int, v, lo, hi float64) error {
	t.log.Warn("edit refused",
		zap.String("field", what),
		zap.Int("section", i),
		zap.Float64("value", v),
		zap.Float64("min", lo),
		zap.Float64("max", hi))
	return fmt.Errorf("section %d %s %g not in [%g, %g]: %w", i, what, v, lo, hi, ErrOutOfBounds)
}

// IndexTimeStart is the slider position of section i's start.
func (t *Timeline) IndexTimeStart(i, indexMax int) (int, error) {
	if err := t.check(i); err != nil {
		return 0, err
	}
	if indexMax <= 0 {
		return 0, ErrSliderResolution
	}
	r := t.sections[i].Range
	return SliderIndex(r.StartMin, r.StartMax, r.Start, indexMax), nil
}

func (t *Timeline) IndexTimeEnd(i, indexMax int) (int, error) {
	if err := t.check(i); err != nil {
		return 0, err
	}
	if indexMax <= 0 {
		return 0, ErrSliderResolution
	}
	r := t.sections[i].Range
	return SliderIndex(r.EndMin, r.EndMax, r.End, indexMax), nil
}

func (t *Timeline) IndexParameter(i, p, indexMax int) (int, error) {
	if err := t.checkParam(i, p); err != nil {
		return 0, err
	}
	if indexMax <= 0 {
		return 0, ErrSliderResolution
	}
	s := t.sections[i]
	return SliderIndex(s.ParamMin[p], s.ParamMax[p], s.Params[p], indexMax), nil
}

// PlotLeft is section i's trajectory up to the next section's start.
// The last section has no successor and only a full series.
func (t *Timeline) PlotLeft(i int) (dynamo.Series, error) {
	if err := t.check(i); err != nil {
		return dynamo.Series{}, err
	}
	return t.sections[i].Left()
}

func (t *Timeline) PlotRight(i int) (dynamo.Series, error) {
	if err := t.check(i); err != nil {
		return dynamo.Series{}, err
	}
	return t.sections[i].Right()
}

// PlotFull is the unsplit trajectory of the last section.
func (t *Timeline) PlotFull(i int) (dynamo.Series, error) {
	if err := t.check(i); err != nil {
		return dynamo.Series{}, err
	}
	return t.sections[i].Full()
}

// Path is the trajectory actually followed: every section up to where the
// next one takes over, then the last section in full.
func (t *Timeline) Path() (dynamo.Series, error) {
	var path dynamo.Series
	for i := range t.sections {
		var (
			s   dynamo.Series
			err error
		)
		if i == len(t.sections)-1 {
			s, err = t.sections[i].Full()
		} else {
			s, err = t.sections[i].Left()
		}
		if err != nil {
			return dynamo.Series{}, err
		}
		path = path.Concat(s)
	}
	return path, nil
}

// draft copies the section list for a mutation.
func (t *Timeline) draft() []Section {
	next := make([]Section, len(t.sections))
	for i, s := range t.sections {
		next[i] = s.edit()
	}
	return next
}

// commit recomputes bounds, integrates sections from..end in order and
// installs next only if every integration succeeded.
func (t *Timeline) commit(next []Section, from int) error {
	t.bound(next)
	if err := t.integrate(next, from); err != nil {
		return err
	}
	t.resplit(next, max(from-1, 0))
	t.sections = next
	return nil
}

func (t *Timeline) bound(next []Section) {
	ranges := make([]Range, len(next))
	for i := range next {
		ranges[i] = next[i].Range
	}
	for i, r := range RecomputeBounds(ranges, t.limits) {
		next[i].Range = r
	}
}

func (t *Timeline) integrate(next []Section, from int) error {
	for i := from; i < len(next); i++ {
		s := &next[i]
		if i > 0 {
			x0, err := Interpolate(next[i-1].trajectory, s.Start)
			if err != nil {
				return &SectionError{Section: i, Wrapped: err}
			}
			s.InitialState = x0
		}

		field, err := compartment.NewField(t.variant, s.Params)
		if err != nil {
			return &SectionError{Section: i, Wrapped: err}
		}
		tr, err := t.integ.Integrate(field, s.InitialState, s.Start, s.End)
		if err != nil {
			t.log.Warn("integration failed", zap.Int("section", i), zap.Error(err))
			return &SectionError{Section: i, Wrapped: err}
		}
		s.trajectory = tr

		t.log.Debug("section integrated",
			zap.Int("section", i),
			zap.Int("from", from),
			zap.Int("samples", tr.Len()),
			zap.Float64("t0", s.Start),
			zap.Float64("t1", s.End))
	}
	return nil
}

// resplit rebuilds the plot series of sections from..end. Every section but
// the last is split at its successor's start.
func (t *Timeline) resplit(next []Section, from int) {
	for i := from; i < len(next); i++ {
		s := &next[i]
		s.left, s.right, s.full = dynamo.Series{}, dynamo.Series{}, dynamo.Series{}
		if i == len(next)-1 {
			s.full = s.trajectory.Series()
			continue
		}
		// Split only fails on an empty trajectory, which integrate never leaves.
		s.left, s.right, _ = Split(s.trajectory, next[i+1].Start)
	}
}
