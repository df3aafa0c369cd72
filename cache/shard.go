package cache

import (
	"sync"

	"github.com/IvanBrykalov/kvcache/internal/util"
	"github.com/IvanBrykalov/kvcache/policy"
)

// shard is an independent partition of the cache with its own lock, map,
// and an intrusive doubly linked list (head=MRU, tail=LRU).
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu   sync.Mutex
	m    map[K]*node[K, V]
	head *node[K, V] // MRU
	tail *node[K, V] // LRU
	len  int
	cap  int

	pol     policy.ShardPolicy[K, V]
	metrics Metrics

	_      util.CacheLinePad
	evicts util.PaddedAtomicUint64
}

func newShard[K comparable, V any](capacity int, pol policy.Policy[K, V], m Metrics) *shard[K, V] {
	s := &shard[K, V]{
		m:       make(map[K]*node[K, V], capacity),
		cap:     capacity,
		metrics: m,
	}
	s.pol = pol.New(shardHooks[K, V]{s: s})
	return s
}

// Set inserts or updates k→v. A non-nil cond is checked under the lock and
// aborts the write when it returns false.
func (s *shard[K, V]) Set(k K, v V, cond func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cond != nil && !cond() {
		return false
	}

	if n, ok := s.m[k]; ok {
		n.val = v
		s.pol.OnUpdate(n)
		return true
	}

	// Make room before admitting, so len never exceeds cap.
	for s.len >= s.cap {
		tail := s.back()
		if tail == nil {
			break
		}
		s.evictNode(tail)
	}

	n := &node[K, V]{key: k, val: v}
	s.m[k] = n
	if ev := s.pol.OnAdd(n); ev != nil {
		s.evictNode(ev.(*node[K, V]))
	}
	return true
}

// Get returns the value and promotes the entry according to the policy.
func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	s.pol.OnGet(n)
	return n.val, true
}

// Remove deletes an entry by key. Returns true if the entry existed.
// Explicit removal is not an eviction and is not reported to Metrics.
func (s *shard[K, V]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.m[k]
	if !ok {
		return false
	}
	s.pol.OnRemove(n)
	s.removeNode(n)
	delete(s.m, k)
	return true
}

func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.len
}

// -------------------- internals (mu held) --------------------

// insertFront inserts n at MRU in O(1).
func (s *shard[K, V]) insertFront(n *node[K, V]) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.len++
}

// moveToFront promotes n to MRU in O(1).
func (s *shard[K, V]) moveToFront(n *node[K, V]) {
	if n == s.head {
		return
	}
	n.prev.next = n.next
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev = nil
	n.next = s.head
	s.head.prev = n
	s.head = n
}

// removeNode unlinks n in O(1). Map bookkeeping is left to the caller.
func (s *shard[K, V]) removeNode(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
	s.len--
}

func (s *shard[K, V]) back() *node[K, V] { return s.tail }

// evictNode drops n from both the list and the map. Nobody but Metrics
// is told about it.
func (s *shard[K, V]) evictNode(n *node[K, V]) {
	s.pol.OnRemove(n)
	s.removeNode(n)
	delete(s.m, n.key)
	s.evicts.Add(1)
	s.metrics.Evict()
}

// -------------------- policy hooks --------------------

// shardHooks adapts the shard's list operations to policy.Hooks.
type shardHooks[K comparable, V any] struct{ s *shard[K, V] }

func (h shardHooks[K, V]) MoveToFront(x policy.Node[K, V]) { h.s.moveToFront(x.(*node[K, V])) }
func (h shardHooks[K, V]) PushFront(x policy.Node[K, V])   { h.s.insertFront(x.(*node[K, V])) }
func (h shardHooks[K, V]) Remove(x policy.Node[K, V])      { h.s.removeNode(x.(*node[K, V])) }
func (h shardHooks[K, V]) Back() policy.Node[K, V] {
	// Avoid returning a typed nil inside a non-nil interface.
	if h.s.tail == nil {
		return nil
	}
	return h.s.tail
}
func (h shardHooks[K, V]) Len() int { return h.s.len }
