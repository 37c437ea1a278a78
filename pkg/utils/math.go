package utils

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundInt rounds v half away from zero and converts to int.
func RoundInt(v float64) int {
	return int(math.Round(v))
}
