package vesn

// LinearTransform maps a unit uniform u onto [lo, hi).
func LinearTransform(lo, hi, u float64) float64 {
	return lo + (hi-lo)*u
}
