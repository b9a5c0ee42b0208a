package timeline

import "math"

// Range is the time span of a section with the bounds its neighbours allow.
type Range struct {
	Start    float64
	StartMin float64
	StartMax float64
	End      float64
	EndMin   float64
	EndMax   float64
}

// Limits are the global time constraints of a timeline.
type Limits struct {
	Floor     float64
	Ceiling   float64
	Increment float64
}

// RecomputeBounds derives every bound from the ordered start/end values.
// Only EndMax carries over from the input: it is the growing ceiling of the
// end slider and is extended by Increment whenever End reaches it.
//
// Section i may start anywhere inside its predecessor's span and no later
// than its successor's start; it must end no earlier than its successor
// starts. The first section starts at Floor.
func RecomputeBounds(ranges []Range, lim Limits) []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)

	for i := range out {
		r := &out[i]
		hasNext := i+1 < len(out)

		if i == 0 {
			r.StartMin = lim.Floor
			r.StartMax = lim.Floor
		} else {
			prev := ranges[i-1]
			r.StartMin = prev.Start
			r.StartMax = math.Min(r.End, prev.End)
			if hasNext {
				r.StartMax = math.Min(r.StartMax, ranges[i+1].Start)
			}
		}

		r.EndMin = r.Start
		if hasNext {
			r.EndMin = math.Max(r.EndMin, ranges[i+1].Start)
		}

		if r.End >= r.EndMax {
			r.EndMax = math.Min(r.End+lim.Increment, lim.Ceiling)
		}
		r.EndMax = math.Max(math.Min(r.EndMax, lim.Ceiling), r.End)
	}

	return out
}

// Validate reports whether the start/end values of ranges satisfy the
// ordering constraints that RecomputeBounds encodes.
func Validate(ranges []Range, lim Limits) bool {
	for i, r := range ranges {
		if r.Start > r.End || r.End > lim.Ceiling {
			return false
		}
		if i == 0 {
			if r.Start != lim.Floor {
				return false
			}
			continue
		}
		prev := ranges[i-1]
		if r.Start < prev.Start || r.Start > prev.End {
			return false
		}
	}
	return true
}
