package timeline

import "math"

// SliderValue maps a discrete position in [0, indexMax] onto [lo, hi].
func SliderValue(lo, hi float64, index, indexMax int) float64 {
	v := lo + (hi-lo)*float64(index)/float64(indexMax)
	return math.Min(math.Max(v, lo), hi)
}

// SliderIndex is the inverse of SliderValue. A degenerate range maps to 0.
func SliderIndex(lo, hi, value float64, indexMax int) int {
	if hi == lo {
		return 0
	}
	return int(math.Round(float64(indexMax) * (value - lo) / (hi - lo)))
}

func checkSlider(index, indexMax int) error {
	if indexMax <= 0 {
		return ErrSliderResolution
	}
	if index < 0 || index > indexMax {
		return ErrOutOfBounds
	}
	return nil
}
