package cacheaside

import "context"

// Store is the durable key-value store the cache sits in front of.
// Implementations must be safe for concurrent use.
type Store[K comparable, V any] interface {
	// Upsert creates or replaces k→v.
	Upsert(ctx context.Context, k K, v V) error
	// Get returns the stored value and whether it exists. A missing key is
	// (zero, false, nil), never an error.
	Get(ctx context.Context, k K) (V, bool, error)
	// Erase deletes k. Erasing a missing key succeeds.
	Erase(ctx context.Context, k K) error
}
