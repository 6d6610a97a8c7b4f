package niche

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Evaluator evaluates niches in closed form.
type Evaluator struct{}

func (Evaluator) Fundamental(coords []mgl64.Vec2, s Spec) []float64 {
	return Fundamental(coords, s)
}

func (Evaluator) Realized(coords []mgl64.Vec2, specs []Spec, inter mat.Matrix) ([][]float64, error) {
	return Realized(coords, specs, inter)
}
