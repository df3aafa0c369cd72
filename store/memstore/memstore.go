// Package memstore is an in-process cacheaside.Store backed by a map.
// It is not durable; use it for local runs, demos and tests.
package memstore

import (
	"context"
	"sync"

	"github.com/IvanBrykalov/kvcache/cacheaside"
)

// Store is a map guarded by an RWMutex.
type Store[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// New returns an empty Store.
func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{m: make(map[K]V)}
}

func (s *Store[K, V]) Upsert(_ context.Context, k K, v V) error {
	s.mu.Lock()
	s.m[k] = v
	s.mu.Unlock()
	return nil
}

func (s *Store[K, V]) Get(_ context.Context, k K) (V, bool, error) {
	s.mu.RLock()
	v, ok := s.m[k]
	s.mu.RUnlock()
	return v, ok, nil
}

func (s *Store[K, V]) Erase(_ context.Context, k K) error {
	s.mu.Lock()
	delete(s.m, k)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

var _ cacheaside.Store[string, string] = (*Store[string, string])(nil)
