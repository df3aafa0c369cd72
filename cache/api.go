package cache

// Cache is a sharded, capacity-bounded LRU map.
// All methods are safe for concurrent use by multiple goroutines.
//
// Every operation locks exactly one shard for O(1) work: a map lookup plus
// constant-time list adjustments. Len is the only method that visits all
// shards, and it locks them one at a time.
type Cache[K comparable, V any] interface {
	// Get returns the value for k and a presence flag.
	// On hit the entry becomes the most recently used one in its shard.
	Get(k K) (V, bool)

	// Set inserts or replaces k→v and marks it most recently used.
	// Inserting into a full shard first evicts that shard's LRU entry.
	Set(k K, v V)

	// SetIf behaves like Set, but only when cond reports true.
	// cond runs while the shard lock is held; keep it short and never
	// call back into the cache from it.
	SetIf(k K, v V, cond func() bool) bool

	// Remove deletes k if present and reports whether it was resident.
	Remove(k K) bool

	// Len returns the total number of resident entries across all shards.
	// The result is approximate while writers are active.
	Len() int

	// Evictions returns the number of entries dropped for capacity.
	Evictions() uint64
}
