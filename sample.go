package vesn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SamplePatches draws lsize cells with replacement, each with probability
// proportional to its surface weight, and returns them in draw order.
func (d *Domain) SamplePatches(s *Surface, lsize int, src rand.Source) Landscape {
	c := distuv.NewCategorical(s.P, src)
	l := make(Landscape, lsize)
	for k := range l {
		i := int(c.Rand())
		l[k] = Patch{
			Probability: s.P[i],
			S1:          d.S1[i],
			S2:          d.S2[i],
			E1:          d.Env.RankX[i],
			E2:          d.Env.RankY[i],
			Cell:        i,
		}
	}
	return l
}
