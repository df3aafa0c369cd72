// Package singleflight coalesces concurrent calls for the same key.
package singleflight

import (
	"errors"
	"sync"
)

// ErrLeaderPanicked is returned to waiting callers when fn panicked in the
// caller that ran it. The panic itself propagates in that caller.
var ErrLeaderPanicked = errors.New("singleflight: fn panicked")

// Group runs fn at most once per key at a time. Callers that arrive while
// a call is in flight wait for it and share its result.
//
// There is no cancellation: a follower always waits for the leader, and the
// leader always runs fn to completion.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
}

// Do runs fn for key unless a call for key is already in flight, in which
// case it waits and returns that call's result. shared reports whether the
// result came from another caller's fn.
func (g *Group[K, V]) Do(key K, fn func() (V, error)) (v V, err error, shared bool) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	returned := false
	defer func() {
		if !returned {
			c.err = ErrLeaderPanicked
		}
		// Unregister before waking followers so late arrivals start a fresh call.
		g.mu.Lock()
		delete(g.m, key)
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn()
	returned = true
	return c.val, c.err, false
}
