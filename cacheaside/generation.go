package cacheaside

import (
	"sync/atomic"

	"github.com/IvanBrykalov/kvcache/internal/util"
)

const defaultGenerationStripes = 1024

// generations is a fixed table of per-stripe mutation counters.
// Keys sharing a stripe share a counter, so a collision can only make a
// populate look stale and skip it; it can never let a stale one through.
type generations[K comparable] struct {
	hash    func(K) uint64
	stripes []atomic.Uint64
}

func newGenerations[K comparable](n int, hash func(K) uint64) *generations[K] {
	if hash == nil {
		hash = util.Fnv64a[K]
	}
	if n <= 0 {
		n = defaultGenerationStripes
	}
	n = int(util.NextPow2(uint64(n)))
	return &generations[K]{
		hash:    hash,
		stripes: make([]atomic.Uint64, n),
	}
}

func (g *generations[K]) slot(k K) *atomic.Uint64 {
	return &g.stripes[util.ShardIndex(g.hash(k), len(g.stripes))]
}

// snapshot returns k's current generation.
func (g *generations[K]) snapshot(k K) uint64 { return g.slot(k).Load() }

// bump invalidates every snapshot taken for k so far.
func (g *generations[K]) bump(k K) { g.slot(k).Add(1) }

// unchanged reports whether no bump happened since snap was taken.
func (g *generations[K]) unchanged(k K, snap uint64) bool {
	return g.slot(k).Load() == snap
}
