package cache

import (
	"github.com/IvanBrykalov/kvcache/internal/util"
	"github.com/IvanBrykalov/kvcache/policy/lru"
)

// cache is a fixed set of independently locked shards.
// It never talks to a backing store; callers own coherence.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
}

// New constructs a cache with the provided Options.
// Capacity must be positive; New panics otherwise.
//
// Per-shard capacity is ceil(Capacity/Shards), so the realized total may
// exceed Capacity by up to Shards-1 entries.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 {
		panic("cache: Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New[K, V]()
	}
	if opt.Hash == nil {
		opt.Hash = util.Fnv64a[K]
	}

	n := opt.Shards
	if n <= 0 {
		n = util.ReasonableShardCount()
	}

	perShardCap := (opt.Capacity + n - 1) / n
	cs := make([]*shard[K, V], n)
	for i := range cs {
		cs[i] = newShard[K, V](perShardCap, opt.Policy, opt.Metrics)
	}

	return &cache[K, V]{
		shards: cs,
		hash:   opt.Hash,
	}
}

func (c *cache[K, V]) Get(k K) (V, bool) {
	return c.shardFor(k).Get(k)
}

func (c *cache[K, V]) Set(k K, v V) {
	c.shardFor(k).Set(k, v, nil)
}

func (c *cache[K, V]) SetIf(k K, v V, cond func() bool) bool {
	return c.shardFor(k).Set(k, v, cond)
}

func (c *cache[K, V]) Remove(k K) bool {
	return c.shardFor(k).Remove(k)
}

// Len sums shard lengths, holding at most one shard lock at a time.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

func (c *cache[K, V]) Evictions() uint64 {
	var total uint64
	for _, s := range c.shards {
		total += s.evicts.Load()
	}
	return total
}

// shardIndex is stable for the lifetime of c: the shard slice never changes.
func (c *cache[K, V]) shardIndex(k K) int {
	return util.ShardIndex(c.hash(k), len(c.shards))
}

func (c *cache[K, V]) shardFor(k K) *shard[K, V] {
	return c.shards[c.shardIndex(k)]
}
