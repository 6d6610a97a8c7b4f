package vesn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/drexrichards/virtual-es-niche/grid"
	"github.com/drexrichards/virtual-es-niche/niche"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	maxModes                 = 4
	minCentre, maxCentre     = .1, .9
	minLogSigma, maxLogSigma = -6.9, -1.87 // sigma ~ [0.001, 0.155], log-uniform
)

// Kernel is one mode of a probability surface: a peak of height 1. Centre and
// Sigma are relative to the grid extent, the unit square spanning Min to Max.
type Kernel struct {
	Centre mgl64.Vec2
	Sigma  float64
}

// Spec returns the kernel as a niche over a grid bounded by min and max: the
// centre is mapped onto the bounds and sigma scaled by the squared extent of
// each axis, giving covariance diag(sigma, sigma) on the unit square.
func (k Kernel) Spec(min, max mgl64.Vec2) niche.Spec {
	ext := max.Sub(min)
	c := mgl64.Vec2{min[0] + k.Centre[0]*ext[0], min[1] + k.Centre[1]*ext[1]}
	return niche.NewSpec(1., c, k.Sigma*ext[0]*ext[0], k.Sigma*ext[1]*ext[1], 0.)
}

// Surface is a normalized sampling weight per grid cell.
type Surface struct {
	P         []float64 // grid order, min 0, max 1
	Kernels   []Kernel
	LastSigma float64 // sigma of the final kernel drawn; informational only
}

// SurfaceOptions controls random surface construction.
type SurfaceOptions struct {
	Modes int // fixed number of kernels; 0 draws uniformly from {1,2,3,4}
}

// DrawKernels draws the kernels of one surface from src.
func DrawKernels(src rand.Source, opts SurfaceOptions) []Kernel {
	k := opts.Modes
	if k <= 0 {
		k = rand.New(src).IntN(maxModes) + 1
	}
	u := distuv.Uniform{Min: 0., Max: 1., Src: src}
	ks := make([]Kernel, k)
	for i := range ks {
		cx := LinearTransform(minCentre, maxCentre, u.Rand())
		cy := LinearTransform(minCentre, maxCentre, u.Rand())
		ks[i] = Kernel{
			Centre: mgl64.Vec2{cx, cy},
			Sigma:  math.Exp(LinearTransform(minLogSigma, maxLogSigma, u.Rand())),
		}
	}
	return ks
}

// BuildSurface evaluates every kernel over env, folds them by elementwise
// maximum and min-max normalizes the result.
func BuildSurface(env *grid.Env, ev NicheEvaluator, ks []Kernel) (*Surface, error) {
	if len(ks) == 0 {
		return nil, fmt.Errorf("%w: no kernels", ErrDegenerateSurface)
	}
	evals := make([][]float64, len(ks))
	for i, k := range ks {
		evals[i] = ev.Fundamental(env.Coords, k.Spec(env.Min, env.Max))
	}
	p := foldMax(evals)
	if err := normalize(p); err != nil {
		return nil, err
	}
	return &Surface{
		P:         p,
		Kernels:   ks,
		LastSigma: ks[len(ks)-1].Sigma,
	}, nil
}

// RandomSurface draws kernels from src and builds their surface.
func RandomSurface(env *grid.Env, ev NicheEvaluator, src rand.Source, opts SurfaceOptions) (*Surface, error) {
	return BuildSurface(env, ev, DrawKernels(src, opts))
}

func foldMax(evals [][]float64) []float64 {
	acc := make([]float64, len(evals[0]))
	copy(acc, evals[0])
	for _, e := range evals[1:] {
		for i, v := range e {
			acc[i] = math.Max(acc[i], v)
		}
	}
	return acc
}

// normalize rescales v in place so that its minimum is 0 and its maximum 1.
func normalize(v []float64) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty surface", ErrDegenerateSurface)
	}
	mn, mx := floats.Min(v), floats.Max(v)
	if math.IsNaN(mn) || math.IsNaN(mx) {
		return fmt.Errorf("%w: NaN weights", ErrDegenerateSurface)
	}
	if mx == mn {
		return fmt.Errorf("%w: constant value %v", ErrDegenerateSurface, mx)
	}
	rng := mx - mn
	for i := range v {
		v[i] = (v[i] - mn) / rng
	}
	return nil
}
