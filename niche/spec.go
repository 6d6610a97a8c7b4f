package niche

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidSpec     = errors.New("invalid niche specification")
	ErrInteractionDims = errors.New("interaction matrix does not match service count")
	ErrNoCoordinates   = errors.New("no coordinates to evaluate")
)

// Spec describes one service's response surface over two environmental variables.
type Spec struct {
	Peak    float64    // service value at the optimum
	Optimum mgl64.Vec2 // (e1, e2) of the peak
	Cov     mgl64.Mat2 // covariance, column-major
}

// NewSpec builds a Spec from per-axis variances and a covariance term.
func NewSpec(peak float64, optimum mgl64.Vec2, v1, v2, c12 float64) Spec {
	return Spec{
		Peak:    peak,
		Optimum: optimum,
		Cov:     mgl64.Mat2{v1, c12, c12, v2},
	}
}

// Isotropic returns a Spec with equal variance on both axes and no correlation.
func Isotropic(peak float64, optimum mgl64.Vec2, v float64) Spec {
	return NewSpec(peak, optimum, v, v, 0.)
}

func (s Spec) Validate() error {
	if !(s.Peak > 0.) || math.IsInf(s.Peak, 0) {
		return fmt.Errorf("%w: peak %v must be positive and finite", ErrInvalidSpec, s.Peak)
	}
	for _, v := range s.Optimum {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: optimum %v", ErrInvalidSpec, s.Optimum)
		}
	}
	if s.Cov.At(0, 1) != s.Cov.At(1, 0) {
		return fmt.Errorf("%w: covariance not symmetric", ErrInvalidSpec)
	}
	if !(s.Cov.At(0, 0) > 0.) || !(s.Cov.At(1, 1) > 0.) || !(s.Cov.Det() > 0.) {
		return fmt.Errorf("%w: covariance %v not positive-definite", ErrInvalidSpec, s.Cov)
	}
	return nil
}
