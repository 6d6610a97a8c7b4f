// Package realmap projects service niches onto real environmental rasters.
package realmap

import (
	"errors"
	"fmt"

	"github.com/drexrichards/virtual-es-niche/grid"
	"github.com/drexrichards/virtual-es-niche/niche"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMismatch   = errors.New("environmental rasters do not share a grid definition")
	ErrNoValid    = errors.New("no valid cells in environmental rasters")
	ErrFlatRaster = errors.New("environmental raster has no range to rescale")
)

// Apply evaluates the realized niche of every service at each cell where
// both e1 and e2 hold data. With rescale, each layer is first mapped onto
// [0,1] over its valid cells. Cells missing either layer are nodata in the
// output. One raster per service is returned, in service order.
func Apply(e1, e2 *grid.Raster, services []niche.Spec, inter mat.Matrix, rescale bool) ([]*grid.Raster, error) {
	if !e1.Def.Equal(e2.Def) {
		return nil, ErrMismatch
	}
	nc := e1.Def.Ncells()
	if len(e1.V) != nc || len(e2.V) != nc {
		return nil, fmt.Errorf("%w: %d and %d values for %d cells", ErrMismatch, len(e1.V), len(e2.V), nc)
	}

	// collect cells holding both layers
	cxr := make([]int, 0, nc)
	x1, x2 := make([]float64, 0, nc), make([]float64, 0, nc)
	for c := 0; c < nc; c++ {
		if e1.IsNoData(e1.V[c]) || e2.IsNoData(e2.V[c]) {
			continue
		}
		cxr = append(cxr, c)
		x1 = append(x1, e1.V[c])
		x2 = append(x2, e2.V[c])
	}
	if len(cxr) == 0 {
		return nil, ErrNoValid
	}
	if rescale {
		if err := unitScale(x1); err != nil {
			return nil, fmt.Errorf("e1: %w", err)
		}
		if err := unitScale(x2); err != nil {
			return nil, fmt.Errorf("e2: %w", err)
		}
	}

	coords := make([]mgl64.Vec2, len(cxr))
	for i := range cxr {
		coords[i] = mgl64.Vec2{x1[i], x2[i]}
	}
	r, err := niche.Realized(coords, services, inter)
	if err != nil {
		return nil, err
	}

	out := make([]*grid.Raster, len(services))
	for s := range services {
		o := &grid.Raster{Def: e1.Def, V: make([]float64, nc)}
		o.Def.NoData = grid.DefaultNoData
		for c := range o.V {
			o.V[c] = grid.DefaultNoData
		}
		for i, c := range cxr {
			o.V[c] = r[s][i]
		}
		out[s] = o
	}
	return out, nil
}

// CheckDefinition verifies that every raster lies on the grid def, such as
// one read from a .gdef file.
func CheckDefinition(def grid.Definition, rs ...*grid.Raster) error {
	for i, r := range rs {
		if !r.Def.Equal(def) {
			return fmt.Errorf("%w: raster %d is %dx%d at (%v, %v), grid is %dx%d at (%v, %v)",
				ErrMismatch, i+1, r.Def.NR, r.Def.NC, r.Def.OE, r.Def.ON, def.NR, def.NC, def.OE, def.ON)
		}
	}
	return nil
}

func unitScale(v []float64) error {
	mn, mx := floats.Min(v), floats.Max(v)
	if mx == mn {
		return ErrFlatRaster
	}
	floats.AddConst(-mn, v)
	floats.Scale(1./(mx-mn), v)
	return nil
}
