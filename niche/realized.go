package niche

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Realized evaluates every service's niche adjusted for pairwise interactions:
//
//	r_i = max(0, f_i + Σ_{j≠i} A[i,j] f_j)
//
// where f are the fundamental niches. A nil interaction matrix means no
// interactions; its diagonal is ignored. Output is indexed [service][coordinate].
func Realized(coords []mgl64.Vec2, specs []Spec, inter mat.Matrix) ([][]float64, error) {
	ns, nc := len(specs), len(coords)
	if ns == 0 {
		return nil, fmt.Errorf("%w: no services", ErrInvalidSpec)
	}
	if nc == 0 {
		return nil, ErrNoCoordinates
	}
	if inter != nil {
		if r, c := inter.Dims(); r != ns || c != ns {
			return nil, fmt.Errorf("%w: %dx%d for %d services", ErrInteractionDims, r, c, ns)
		}
	}

	f := mat.NewDense(nc, ns, nil)
	for j, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("service %d: %w", j+1, err)
		}
		f.SetCol(j, Fundamental(coords, s))
	}

	b := mat.NewDense(ns, ns, nil)
	for i := 0; i < ns; i++ {
		for j := 0; j < ns; j++ {
			if i == j {
				b.Set(i, j, 1.)
			} else if inter != nil {
				b.Set(i, j, inter.At(i, j))
			}
		}
	}

	var r mat.Dense
	r.Mul(f, b.T())

	o := make([][]float64, ns)
	for j := range o {
		o[j] = mat.Col(nil, j, &r)
		for i, v := range o[j] {
			if v < 0. {
				o[j][i] = 0.
			}
		}
	}
	return o, nil
}
