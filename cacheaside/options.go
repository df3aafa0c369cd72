package cacheaside

import (
	"log/slog"

	"github.com/IvanBrykalov/kvcache/cache"
)

// Options configures a Coordinator. Zero values are safe;
// defaults are applied in New():
//   - nil Cache    => LRU cache built from Capacity and Shards
//   - nil Hash     => FNV-1a
//   - nil Metrics  => NoopMetrics
//   - nil Logger   => discard
type Options[K comparable, V any] struct {
	// Cache to use. When nil, New builds one from Capacity and Shards.
	Cache cache.Cache[K, V]

	// Capacity and Shards size the default cache; see cache.Options.
	Capacity int
	Shards   int

	// Hash routes keys to cache shards and guard stripes (nil => FNV-1a,
	// which supports strings, []byte and integer kinds only). Set it for
	// other key types, including when Cache was built with its own Hash.
	Hash func(K) uint64

	// CacheMetrics is passed to the default cache.
	CacheMetrics cache.Metrics

	// CoalesceReads makes concurrent Read misses for one key share a single
	// store Get.
	CoalesceReads bool

	// GuardPopulate refuses to populate the cache from a store read that
	// raced with a Write or Delete of the same key.
	GuardPopulate bool

	// GenerationStripes sizes the guard's counter table (default 1024,
	// rounded up to a power of two). Only used with GuardPopulate.
	GenerationStripes int

	Metrics Metrics
	Logger  *slog.Logger
}
