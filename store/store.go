// Package store archives simulated landscapes in a LevelDB database, keyed
// by batch, scenario and replicate.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/util"
	vesn "github.com/drexrichards/virtual-es-niche"
)

var ErrNotFound = errors.New("landscape not found")

type Archive struct {
	db *leveldb.DB
}

// Open opens (creating if needed) the archive in dir.
func Open(dir string) (*Archive, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dir, err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error { return a.db.Close() }

func prefix(batch, scenario string) string {
	return batch + "/" + scenario + "/"
}

// key appends the replicate number big-endian so keys sort in replicate
// order.
func key(batch, scenario string, h int) []byte {
	return binary.BigEndian.AppendUint64([]byte(prefix(batch, scenario)), uint64(h))
}

// PutSet stores every landscape of set under batch/scenario, replicates
// numbered from 1, in a single write.
func (a *Archive) PutSet(batch, scenario string, set vesn.LandscapeSet) error {
	if strings.Contains(batch, "/") || strings.Contains(scenario, "/") {
		return fmt.Errorf("archive keys may not contain '/': %q, %q", batch, scenario)
	}
	b := new(leveldb.Batch)
	for h, l := range set {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(l); err != nil {
			return fmt.Errorf("encode landscape %d: %w", h, err)
		}
		b.Put(key(batch, scenario, h+1), buf.Bytes())
	}
	if err := a.db.Write(b, nil); err != nil {
		return fmt.Errorf("write %s: %w", prefix(batch, scenario), err)
	}
	return nil
}

// GetLandscape returns replicate h (from 1) of batch/scenario.
func (a *Archive) GetLandscape(batch, scenario string, h int) (vesn.Landscape, error) {
	if h < 1 {
		return nil, fmt.Errorf("%w: %s%d", ErrNotFound, prefix(batch, scenario), h)
	}
	v, err := a.db.Get(key(batch, scenario, h), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s%d", ErrNotFound, prefix(batch, scenario), h)
		}
		return nil, err
	}
	return decode(v)
}

// Landscapes returns every replicate of batch/scenario in replicate order.
func (a *Archive) Landscapes(batch, scenario string) (vesn.LandscapeSet, error) {
	it := a.db.NewIterator(util.BytesPrefix([]byte(prefix(batch, scenario))), nil)
	defer it.Release()
	var set vesn.LandscapeSet
	for it.Next() {
		l, err := decode(it.Value())
		if err != nil {
			return nil, err
		}
		set = append(set, l)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return set, nil
}

// Scenarios lists the scenarios stored under batch.
func (a *Archive) Scenarios(batch string) ([]string, error) {
	it := a.db.NewIterator(util.BytesPrefix([]byte(batch+"/")), nil)
	defer it.Release()
	seen := make(map[string]bool)
	for it.Next() {
		parts := strings.SplitN(string(it.Key()), "/", 3)
		if len(parts) == 3 {
			seen[parts[1]] = true
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	o := make([]string, 0, len(seen))
	for s := range seen {
		o = append(o, s)
	}
	sort.Strings(o)
	return o, nil
}

func decode(v []byte) (vesn.Landscape, error) {
	var l vesn.Landscape
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode landscape: %w", err)
	}
	return l, nil
}
