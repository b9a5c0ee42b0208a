package timeline

import (
	"fmt"

	"go.uber.org/zap"
)

// ShiftTimeRanges translates sections k and later by delta, together with
// the end of section k-1, so the boundary between k-1 and k keeps its
// overlap. k may be Len(), which moves only the last section's end.
//
// The first section's start is pinned to the floor, so k must be at least
// one. A shift that would start section k before section k-1 starts is
// refused with ErrShiftCrossing; one that pushes the last end past the
// ceiling is refused with ErrOutOfBounds. Sections k-1 and later are
// integrated again.
func (t *Timeline) ShiftTimeRanges(k int, delta float64) error {
	if len(t.sections) == 0 {
		return ErrEmptyTimeline
	}
	if k < 0 || k > len(t.sections) {
		return fmt.Errorf("%w: shift from %d", ErrSectionIndex, k)
	}
	if delta == 0 {
		return nil
	}
	if k == 0 {
		return fmt.Errorf("first section starts at %g: %w", t.limits.Floor, ErrShiftCrossing)
	}

	next := t.draft()
	next[k-1].End += delta
	next[k-1].EndMax += delta
	for j := k; j < len(next); j++ {
		next[j].Start += delta
		next[j].End += delta
		next[j].EndMax += delta
	}

	if end := next[len(next)-1].End; end > t.limits.Ceiling {
		return t.refuse("shifted end", len(next)-1, end, t.limits.Floor, t.limits.Ceiling)
	}
	ranges := make([]Range, len(next))
	for i := range next {
		ranges[i] = next[i].Range
	}
	if !Validate(ranges, t.limits) {
		t.log.Warn("shift refused", zap.Int("section", k), zap.Float64("delta", delta))
		return fmt.Errorf("shift section %d by %g: %w", k, delta, ErrShiftCrossing)
	}

	if err := t.commit(next, k-1); err != nil {
		return err
	}
	t.log.Debug("time ranges shifted", zap.Int("section", k), zap.Float64("delta", delta))
	return nil
}
