package vesn

import (
	"fmt"
	"math/rand/v2"

	"github.com/drexrichards/virtual-es-niche/grid"
	"github.com/drexrichards/virtual-es-niche/niche"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// NicheEvaluator evaluates service response surfaces over grid coordinates.
type NicheEvaluator interface {
	Fundamental(coords []mgl64.Vec2, s niche.Spec) []float64
	Realized(coords []mgl64.Vec2, specs []niche.Spec, inter mat.Matrix) ([][]float64, error)
}

// Domain holds the state shared, read-only, by every replicate: the
// environmental grid and the realized niche of both services over it.
type Domain struct {
	Env      *grid.Env
	Services [2]niche.Spec
	S1, S2   []float64 // realized service values, grid order
	ev       NicheEvaluator
}

// NewDomain evaluates the realized niches of services over env.
func NewDomain(env *grid.Env, ev NicheEvaluator, services [2]niche.Spec, inter mat.Matrix) (*Domain, error) {
	if ev == nil {
		ev = niche.Evaluator{}
	}
	r, err := ev.Realized(env.Coords, services[:], inter)
	if err != nil {
		return nil, fmt.Errorf("realized niche: %w", err)
	}
	if len(r) != 2 || len(r[0]) != env.Len() || len(r[1]) != env.Len() {
		return nil, fmt.Errorf("realized niche: evaluator returned %d services for %d cells", len(r), env.Len())
	}
	return &Domain{
		Env:      env,
		Services: services,
		S1:       r[0],
		S2:       r[1],
		ev:       ev,
	}, nil
}

// Surface draws a fresh probability surface over the domain grid.
func (d *Domain) Surface(src rand.Source, opts SurfaceOptions) (*Surface, error) {
	return RandomSurface(d.Env, d.ev, src, opts)
}

// Replicate builds one landscape of lsize patches from its own surface.
func (d *Domain) Replicate(src rand.Source, lsize int, opts SurfaceOptions) (Landscape, *Surface, error) {
	s, err := d.Surface(src, opts)
	if err != nil {
		return nil, nil, err
	}
	return d.SamplePatches(s, lsize, src), s, nil
}
