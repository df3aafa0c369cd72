// Package cache provides a generic, sharded, capacity-bounded LRU map.
//
// Design
//
//   - Concurrency: the key space is split into a fixed number of shards,
//     each protected by its own mutex. A key always lands on the same shard
//     (FNV-1a hash modulo the shard count), so one shard lock is enough to
//     make every single-key operation atomic.
//
//   - Storage: each shard keeps a map[K]*node for lookups and an intrusive
//     MRU↔LRU doubly linked list for ordering. All operations are O(1).
//
//   - Capacity: Options.Capacity is split as ceil(Capacity/Shards) per shard.
//     A full shard evicts its least recently used entry before admitting a
//     new key; inserts are never rejected. Eviction is silent apart from the
//     Metrics.Evict signal.
//
//   - Size: Len visits shards one by one and is only approximately
//     consistent while writers are active.
//
// The cache knows nothing about backing stores. See package cacheaside for
// the protocol that keeps it coherent with one.
//
// Basic usage
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 10_000,
//	    Shards:   16,
//	})
//	c.Set("a", "1")
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//	c.Remove("a")
package cache
