package vesn

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/drexrichards/virtual-es-niche/grid"
)

var csvHeader = []string{"replicate", "probability", "s1", "s2", "e1", "e2"}

func patchRecord(h int, p Patch) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{strconv.Itoa(h), f(p.Probability), f(p.S1), f(p.S2), f(p.E1), f(p.E2)}
}

// WriteCSV writes every patch of the set, one row per patch, replicates
// numbered from 1.
func (set LandscapeSet) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf(" LandscapeSet.WriteCSV %v", err)
	}
	for h, l := range set {
		for _, p := range l {
			if err := cw.Write(patchRecord(h+1, p)); err != nil {
				return fmt.Errorf(" LandscapeSet.WriteCSV %v", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the patches of l as replicate 1.
func (l Landscape) WriteCSV(w io.Writer) error {
	return LandscapeSet{l}.WriteCSV(w)
}

// SaveCSV writes the set to fp.
func (set LandscapeSet) SaveCSV(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" LandscapeSet.SaveCSV %v", err)
	}
	if err := set.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveGob saves the set to gob.
func (set LandscapeSet) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" LandscapeSet.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(set); err != nil {
		f.Close()
		return fmt.Errorf(" LandscapeSet.SaveGob %v", err)
	}
	return f.Close()
}

// LoadGob loads a set saved with SaveGob.
func LoadGob(fp string) (LandscapeSet, error) {
	var set LandscapeSet
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&set); err != nil {
		return nil, fmt.Errorf(" LoadGob %v", err)
	}
	return set, nil
}

// WriteBil saves the surface as a north-up float32 raster over env.
func (s *Surface) WriteBil(fp string, env *grid.Env) error {
	r, err := env.Raster(s.P)
	if err != nil {
		return err
	}
	return grid.WriteBil(fp, r)
}
