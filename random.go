package vesn

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// ReplicateSource returns the random source of replicate h. Sources are
// derived by hashing (seed, h), so replicates never share a stream and the
// outcome of a replicate does not depend on the order replicates are run in.
func ReplicateSource(seed uint64, h int) rand.Source {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], seed)
	binary.LittleEndian.PutUint64(b[8:], uint64(h))
	d := xxhash.New()
	d.Write(b[:])
	s1 := d.Sum64()
	d.Write([]byte("stream"))
	return rand.NewPCG(s1, d.Sum64())
}
