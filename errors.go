package vesn

import (
	"errors"

	"github.com/drexrichards/virtual-es-niche/grid"
)

var (
	ErrInvalidGrid       = grid.ErrInvalid
	ErrInvalidSampleSize = errors.New("invalid sample size")
	ErrDegenerateSurface = errors.New("degenerate probability surface")
)
