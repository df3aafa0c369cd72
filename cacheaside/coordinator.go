package cacheaside

import (
	"context"
	"log/slog"

	"github.com/IvanBrykalov/kvcache/cache"
	"github.com/IvanBrykalov/kvcache/internal/singleflight"
	"github.com/IvanBrykalov/kvcache/internal/util"
)

// Coordinator runs the cache-aside protocol for one cache and one store.
// It keeps no per-call state; everything lives in the cache and the store.
// All methods are safe for concurrent use.
type Coordinator[K comparable, V any] struct {
	cache   cache.Cache[K, V]
	store   Store[K, V]
	metrics Metrics
	log     *slog.Logger

	// Both nil unless enabled in Options.
	gens *generations[K]
	sf   *singleflight.Group[K, load[V]]

	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
}

// load is the outcome of one store Get.
type load[V any] struct {
	val   V
	found bool
}

// New builds a Coordinator over store. See Options for defaults.
// New panics if store is nil, or if no Cache is given and Capacity <= 0.
func New[K comparable, V any](store Store[K, V], opt Options[K, V]) *Coordinator[K, V] {
	if store == nil {
		panic("cacheaside: nil Store")
	}
	if opt.Cache == nil {
		opt.Cache = cache.New[K, V](cache.Options[K, V]{
			Capacity: opt.Capacity,
			Shards:   opt.Shards,
			Hash:     opt.Hash,
			Metrics:  opt.CacheMetrics,
		})
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}

	c := &Coordinator[K, V]{
		cache:   opt.Cache,
		store:   store,
		metrics: opt.Metrics,
		log:     opt.Logger,
	}
	if opt.GuardPopulate {
		c.gens = newGenerations[K](opt.GenerationStripes, opt.Hash)
	}
	if opt.CoalesceReads {
		c.sf = &singleflight.Group[K, load[V]]{}
	}
	return c
}

// Read returns the value for k: from the cache on a hit, otherwise from the
// store, populating the cache with what it found. A key absent from the
// store yields ErrNotFound and is not cached. A failed store query yields a
// *StoreError and leaves the cache untouched.
//
// Cancelling ctx does not abort the store query or the populate; both run
// to completion, and coalesced callers share that outcome.
func (c *Coordinator[K, V]) Read(ctx context.Context, k K) (V, error) {
	if v, ok := c.cache.Get(k); ok {
		c.hits.Add(1)
		c.metrics.Hit()
		return v, nil
	}
	c.misses.Add(1)
	c.metrics.Miss()

	var (
		res load[V]
		err error
	)
	if c.sf != nil {
		res, err, _ = c.sf.Do(k, func() (load[V], error) { return c.fill(ctx, k) })
	} else {
		res, err = c.fill(ctx, k)
	}
	if err != nil {
		var zero V
		return zero, err
	}
	if !res.found {
		var zero V
		return zero, ErrNotFound
	}
	return res.val, nil
}

// fill queries the store and populates the cache on a store hit.
//
// Without GuardPopulate, a Delete that commits between the store query and
// the populate leaves the deleted value cached until it is evicted.
func (c *Coordinator[K, V]) fill(ctx context.Context, k K) (load[V], error) {
	ctx = context.WithoutCancel(ctx)

	var snap uint64
	if c.gens != nil {
		snap = c.gens.snapshot(k)
	}

	v, found, err := c.store.Get(ctx, k)
	if err != nil {
		return load[V]{}, c.storeFailed(ctx, OpGet, err)
	}
	if !found {
		return load[V]{}, nil
	}

	if c.gens != nil {
		if !c.cache.SetIf(k, v, func() bool { return c.gens.unchanged(k, snap) }) {
			c.log.DebugContext(ctx, "skipped stale populate", "op", OpGet)
		}
	} else {
		c.cache.Set(k, v)
	}
	return load[V]{val: v, found: true}, nil
}

// Write upserts k→v into the store and then into the cache. On store
// failure the cache is not touched and a *StoreError is returned.
// Like Read, it is not interrupted by cancelling ctx.
func (c *Coordinator[K, V]) Write(ctx context.Context, k K, v V) error {
	ctx = context.WithoutCancel(ctx)
	if err := c.store.Upsert(ctx, k, v); err != nil {
		return c.storeFailed(ctx, OpUpsert, err)
	}
	if c.gens != nil {
		c.gens.bump(k)
	}
	c.cache.Set(k, v)
	return nil
}

// Delete erases k from the store and then from the cache. On store failure
// the cache is not touched and a *StoreError is returned.
func (c *Coordinator[K, V]) Delete(ctx context.Context, k K) error {
	ctx = context.WithoutCancel(ctx)
	if err := c.store.Erase(ctx, k); err != nil {
		return c.storeFailed(ctx, OpErase, err)
	}
	if c.gens != nil {
		c.gens.bump(k)
	}
	c.cache.Remove(k)
	return nil
}

// Stats returns the current cache size and hit/miss totals.
func (c *Coordinator[K, V]) Stats() Stats {
	return Stats{
		CacheSize: c.cache.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.cache.Evictions(),
	}
}

// Cache exposes the underlying cache, mainly for inspection in tests and
// tooling. Mutating it directly bypasses the protocol.
func (c *Coordinator[K, V]) Cache() cache.Cache[K, V] { return c.cache }

func (c *Coordinator[K, V]) storeFailed(ctx context.Context, op string, err error) error {
	c.metrics.StoreError(op)
	c.log.WarnContext(ctx, "store call failed", "op", op, "error", err)
	return &StoreError{Op: op, Err: err}
}
