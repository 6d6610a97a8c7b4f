package vesn

import "github.com/brentp/intintmap"

// Patch is one sampled landscape unit.
type Patch struct {
	Probability float64 // normalized surface weight of the sampled cell
	S1, S2      float64 // realized service values
	E1, E2      float64 // rank position of the cell along e1, e2, in (0,1]
	Cell        int     // grid cell index
}

// Landscape is an ordered sample of patches, drawn with replacement.
type Landscape []Patch

// LandscapeSet holds independent landscape replicates.
type LandscapeSet []Landscape

// Sums returns the total of each service over the landscape.
func (l Landscape) Sums() (s1, s2 float64) {
	for _, p := range l {
		s1 += p.S1
		s2 += p.S2
	}
	return
}

// CellCounts returns the number of times each grid cell was drawn.
func (l Landscape) CellCounts() *intintmap.Map {
	m := intintmap.New(len(l), .6)
	for _, p := range l {
		c, _ := m.Get(int64(p.Cell))
		m.Put(int64(p.Cell), c+1)
	}
	return m
}

// Distinct returns the number of unique grid cells in the landscape.
func (l Landscape) Distinct() int {
	return l.CellCounts().Size()
}
