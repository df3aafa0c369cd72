package cache

import "github.com/IvanBrykalov/kvcache/policy"

// Metrics receives cache-level signals.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Evict is called once per entry dropped to make room for a new one.
	Evict()
}

// Options configures the cache. Zero values are safe;
// defaults are applied in New():
//   - nil Policy   => LRU
//   - Shards <= 0  => util.ReasonableShardCount()
//   - nil Metrics  => NoopMetrics
//   - nil Hash     => FNV-1a
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit, split evenly (ceil) across shards.
	Capacity int

	// Shards is the fixed number of partitions. It cannot change after New.
	Shards int

	// Policy orders entries for eviction; nil => LRU.
	Policy policy.Policy[K, V]

	// Hash routes keys to shards. It must be a pure function of the key.
	Hash func(K) uint64

	Metrics Metrics
}
