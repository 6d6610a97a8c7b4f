package experiment

import (
	"github.com/drexrichards/virtual-es-niche/niche"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Scenario is one pair of service niches with their interactions.
type Scenario struct {
	Name         string
	Services     [2]niche.Spec
	Interactions mat.Matrix
}

// DefaultScenarios returns three scenarios of decreasing niche overlap: the
// optima of two equally shaped services are moved apart along e1 while both
// suppress each other mildly.
func DefaultScenarios() []Scenario {
	inter := mat.NewDense(2, 2, []float64{0., -.2, -.2, 0.})
	pair := func(name string, sep float64) Scenario {
		return Scenario{
			Name: name,
			Services: [2]niche.Spec{
				niche.Isotropic(1., mgl64.Vec2{.5 - sep/2., .5}, .02),
				niche.Isotropic(1., mgl64.Vec2{.5 + sep/2., .5}, .02),
			},
			Interactions: inter,
		}
	}
	return []Scenario{
		pair("high", .1),
		pair("medium", .3),
		pair("low", .6),
	}
}
