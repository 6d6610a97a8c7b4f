package vesn

import (
	"fmt"
	"log/slog"

	"github.com/drexrichards/virtual-es-niche/grid"
	"github.com/drexrichards/virtual-es-niche/niche"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

const DefaultNCoords = 121

// Generator simulates virtual landscapes by sampling patches from random
// probability surfaces laid over an environmental grid.
type Generator struct {
	Min, Max mgl64.Vec2 // grid bounds
	NCoords  int        // total grid points, a perfect square
	Seed     uint64
	Workers  int // replicates built concurrently; <= 1 runs serially
	Surface  SurfaceOptions

	// Niche evaluates service and kernel surfaces; nil uses niche.Evaluator.
	// It must be safe for concurrent use when Workers > 1.
	Niche  NicheEvaluator
	Logger *slog.Logger
}

// NewGenerator returns a serial generator over the unit square with the
// default 11x11 grid.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		Min:     mgl64.Vec2{0., 0.},
		Max:     mgl64.Vec2{1., 1.},
		NCoords: DefaultNCoords,
		Seed:    seed,
	}
}

// Domain builds the environmental grid and evaluates the realized niches of
// both services over it.
func (g *Generator) Domain(services [2]niche.Spec, inter mat.Matrix) (*Domain, error) {
	env, err := grid.NewEnv(g.Min, g.Max, g.NCoords)
	if err != nil {
		return nil, err
	}
	return NewDomain(env, g.Niche, services, inter)
}

// GenerateLandscapes returns gensize independent landscapes of lsize patches
// each. The grid and realized niches are evaluated once and shared by every
// replicate; each replicate draws its own surface.
func (g *Generator) GenerateLandscapes(lsize, gensize int, services [2]niche.Spec, inter mat.Matrix) (LandscapeSet, error) {
	if err := checkSizes(lsize, gensize); err != nil {
		return nil, err
	}
	d, err := g.Domain(services, inter)
	if err != nil {
		return nil, err
	}
	return g.Generate(d, lsize, gensize)
}

// Generate samples gensize landscapes from an existing domain.
func (g *Generator) Generate(d *Domain, lsize, gensize int) (LandscapeSet, error) {
	if err := checkSizes(lsize, gensize); err != nil {
		return nil, err
	}
	if g.Workers > 1 {
		return g.generateConcurrent(d, lsize, gensize)
	}
	set := make(LandscapeSet, gensize)
	for h := range set {
		l, err := g.replicate(d, lsize, h)
		if err != nil {
			return nil, err
		}
		set[h] = l
	}
	return set, nil
}

func (g *Generator) replicate(d *Domain, lsize, h int) (Landscape, error) {
	l, s, err := d.Replicate(ReplicateSource(g.Seed, h), lsize, g.Surface)
	if err != nil {
		return nil, fmt.Errorf("replicate %d: %w", h+1, err)
	}
	if g.Logger != nil {
		g.Logger.Debug("landscape generated", "replicate", h+1, "modes", len(s.Kernels), "last_sigma", s.LastSigma, "distinct_cells", l.Distinct())
	}
	return l, nil
}

func checkSizes(lsize, gensize int) error {
	if lsize <= 0 {
		return fmt.Errorf("%w: lsize %d must be positive", ErrInvalidSampleSize, lsize)
	}
	if gensize <= 0 {
		return fmt.Errorf("%w: gensize %d must be positive", ErrInvalidSampleSize, gensize)
	}
	return nil
}
