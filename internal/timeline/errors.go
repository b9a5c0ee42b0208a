package timeline

import (
	"errors"
	"fmt"
)

var (
	ErrSectionIndex     = errors.New("timeline: section index out of range")
	ErrOutOfBounds      = errors.New("timeline: value outside its bounds")
	ErrNotComputed      = errors.New("timeline: series not computed")
	ErrSliderResolution = errors.New("timeline: slider resolution must be positive")
	ErrEmptyTimeline    = errors.New("timeline: no sections")
	ErrShiftCrossing    = errors.New("timeline: shift would cross a section boundary")
)

// SectionError reports which section failed to integrate.
type SectionError struct {
	Section int
	Wrapped error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %d: %v", e.Section, e.Wrapped)
}

func (e *SectionError) Unwrap() error {
	return e.Wrapped
}
