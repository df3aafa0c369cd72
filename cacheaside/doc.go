// Package cacheaside keeps a cache.Cache coherent with a durable Store.
//
// Protocol
//
//   - Read: cache first. On a miss, query the store; populate the cache
//     only with values the store actually has. Absence is never cached.
//   - Write: upsert into the store, then Set in the cache.
//   - Delete: erase from the store, then Remove from the cache.
//
// Mutations always go store-first, so a failure between the two steps can
// leave the cache behind the store (fixed by the next miss) but never ahead
// of it. A *StoreError means the cache was not touched.
//
// Consistency
//
// Operations on different keys are independent, and no lock is held across
// a store call. A Read that misses can therefore race with a Delete of the
// same key: if the Delete finishes between the Read's store query and its
// populate, the deleted value stays cached until evicted. Enable
// Options.GuardPopulate to close that window with per-key generations.
//
// Usage
//
//	co := cacheaside.New[string, string](memstore.New[string, string](),
//	    cacheaside.Options[string, string]{Capacity: 10_000, Shards: 16})
//	_ = co.Write(ctx, "a", "1")
//	v, err := co.Read(ctx, "a") // served from cache
//	if errors.Is(err, cacheaside.ErrNotFound) {
//	    // ...
//	}
package cacheaside
