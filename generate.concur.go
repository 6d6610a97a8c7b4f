package vesn

import "golang.org/x/sync/errgroup"

// generateConcurrent builds replicates on up to g.Workers goroutines. Each
// replicate owns its random source, so the set matches the serial one.
func (g *Generator) generateConcurrent(d *Domain, lsize, gensize int) (LandscapeSet, error) {
	set := make(LandscapeSet, gensize)
	var eg errgroup.Group
	eg.SetLimit(g.Workers)
	for h := 0; h < gensize; h++ {
		eg.Go(func() error {
			l, err := g.replicate(d, lsize, h)
			if err != nil {
				return err
			}
			set[h] = l
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
