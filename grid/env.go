package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalid = errors.New("invalid grid configuration")

// Env is a regular square grid over two environmental variables. Cells are
// ordered with e1 varying fastest: k = i + j*N.
type Env struct {
	N        int // points per axis
	Min, Max mgl64.Vec2
	Coords   []mgl64.Vec2

	// rank position of each cell along e1 and e2, (i+1)/N and (j+1)/N
	RankX, RankY []float64
}

// NewEnv builds the Cartesian product of evenly spaced values between min
// and max; ncoords is the total point count and must be a perfect square.
func NewEnv(min, max mgl64.Vec2, ncoords int) (*Env, error) {
	if ncoords <= 0 {
		return nil, fmt.Errorf("%w: ncoords %d must be positive", ErrInvalid, ncoords)
	}
	n := int(math.Round(math.Sqrt(float64(ncoords))))
	if n*n != ncoords {
		return nil, fmt.Errorf("%w: ncoords %d is not a perfect square", ErrInvalid, ncoords)
	}
	for d := 0; d < 2; d++ {
		if math.IsNaN(min[d]) || math.IsNaN(max[d]) || !(min[d] < max[d]) {
			return nil, fmt.Errorf("%w: axis %d bounds [%v, %v]", ErrInvalid, d+1, min[d], max[d])
		}
	}

	e := &Env{
		N:      n,
		Min:    min,
		Max:    max,
		Coords: make([]mgl64.Vec2, ncoords),
		RankX:  make([]float64, ncoords),
		RankY:  make([]float64, ncoords),
	}
	x, y := e.Axis(0), e.Axis(1)
	fn := float64(n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			k := e.Index(i, j)
			e.Coords[k] = mgl64.Vec2{x[i], y[j]}
			e.RankX[k] = float64(i+1) / fn
			e.RankY[k] = float64(j+1) / fn
		}
	}
	return e, nil
}

// Len returns the number of grid cells.
func (e *Env) Len() int { return len(e.Coords) }

func (e *Env) Index(i, j int) int { return i + j*e.N }

// Cell returns the axis positions of cell k.
func (e *Env) Cell(k int) (i, j int) { return k % e.N, k / e.N }

// Axis returns the evenly spaced values along axis d (0: e1, 1: e2).
func (e *Env) Axis(d int) []float64 {
	a := make([]float64, e.N)
	if e.N == 1 {
		a[0] = e.Min[d]
		return a
	}
	step := (e.Max[d] - e.Min[d]) / float64(e.N-1)
	for i := range a {
		a[i] = e.Min[d] + float64(i)*step
	}
	a[e.N-1] = e.Max[d]
	return a
}

// Spacing returns the distance between neighbouring points on each axis.
func (e *Env) Spacing() mgl64.Vec2 {
	if e.N == 1 {
		return e.Max.Sub(e.Min)
	}
	return e.Max.Sub(e.Min).Mul(1. / float64(e.N-1))
}

// Raster lays v (grid order) out as a north-up raster with e1 along the
// columns and e2 increasing to the north.
func (e *Env) Raster(v []float64) (*Raster, error) {
	if len(v) != e.Len() {
		return nil, fmt.Errorf("%w: %d values for %d cells", ErrInvalid, len(v), e.Len())
	}
	cs := e.Spacing()
	r := &Raster{
		Def: Definition{
			OE:     e.Min[0] - cs[0]/2.,
			ON:     e.Max[1] + cs[1]/2.,
			NR:     e.N,
			NC:     e.N,
			CW:     cs[0],
			CH:     cs[1],
			NoData: DefaultNoData,
		},
		V: make([]float64, len(v)),
	}
	for j := 0; j < e.N; j++ {
		row := e.N - 1 - j
		for i := 0; i < e.N; i++ {
			r.V[row*e.N+i] = v[e.Index(i, j)]
		}
	}
	return r, nil
}
