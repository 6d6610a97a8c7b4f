package niche

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Fundamental evaluates the bivariate Gaussian response of s at every coordinate:
//
//	peak * exp(-½ (x-μ)ᵀ Σ⁻¹ (x-μ))
//
// The covariance is assumed valid (see Spec.Validate).
func Fundamental(coords []mgl64.Vec2, s Spec) []float64 {
	inv := s.Cov.Inv()
	o := make([]float64, len(coords))
	for i, x := range coords {
		d := x.Sub(s.Optimum)
		o[i] = s.Peak * math.Exp(-.5*d.Dot(inv.Mul2x1(d)))
	}
	return o
}
