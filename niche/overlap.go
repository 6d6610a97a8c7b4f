package niche

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Overlap returns Schoener's D between two niche surfaces evaluated over the
// same coordinates: 1 for identical shapes, 0 for disjoint ones.
func Overlap(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("niche.Overlap: length mismatch")
	}
	sa, sb := floats.Sum(a), floats.Sum(b)
	if sa <= 0. || sb <= 0. {
		return 0.
	}
	d := 0.
	for i := range a {
		d += math.Abs(a[i]/sa - b[i]/sb)
	}
	return 1. - .5*d
}

// Correlation is the Pearson correlation between two niche surfaces.
func Correlation(a, b []float64) float64 {
	return stat.Correlation(a, b, nil)
}
