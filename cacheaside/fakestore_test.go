package cacheaside

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errStoreDown = errors.New("store down")

// fakeStore is an in-memory Store with call counters, error injection,
// and an optional hook that runs after Get has read its value.
type fakeStore struct {
	mu sync.Mutex
	m  map[string]string

	gets, upserts, erases atomic.Int64

	failGet, failUpsert, failErase atomic.Bool

	// afterGet runs outside the lock, once the value has been read.
	afterGet func(k string)
}

func newFakeStore() *fakeStore { return &fakeStore{m: make(map[string]string)} }

func (s *fakeStore) Upsert(_ context.Context, k, v string) error {
	s.upserts.Add(1)
	if s.failUpsert.Load() {
		return errStoreDown
	}
	s.mu.Lock()
	s.m[k] = v
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) Get(_ context.Context, k string) (string, bool, error) {
	s.gets.Add(1)
	if s.failGet.Load() {
		return "", false, errStoreDown
	}
	s.mu.Lock()
	v, ok := s.m[k]
	s.mu.Unlock()
	if s.afterGet != nil {
		s.afterGet(k)
	}
	return v, ok, nil
}

func (s *fakeStore) Erase(_ context.Context, k string) error {
	s.erases.Add(1)
	if s.failErase.Load() {
		return errStoreDown
	}
	s.mu.Lock()
	delete(s.m, k)
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) has(k string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[k]
	return ok
}
