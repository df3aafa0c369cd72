package cache

// node is one resident entry, linked into its shard's MRU↔LRU list.
type node[K comparable, V any] struct {
	key K
	val V

	// head is MRU, tail is LRU.
	prev *node[K, V]
	next *node[K, V]
}

// Key returns the node key (part of policy.Node interface).
func (n *node[K, V]) Key() K { return n.key }

// Value returns a pointer to the stored value (part of policy.Node interface).
// Only valid while the shard lock is held.
func (n *node[K, V]) Value() *V { return &n.val }
