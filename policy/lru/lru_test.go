package lru

import (
	"testing"

	"github.com/IvanBrykalov/kvcache/policy"
)

type testNode struct {
	k string
	v int
}

func (n *testNode) Key() string { return n.k }
func (n *testNode) Value() *int { return &n.v }

// recordingHooks logs every hook call in order.
type recordingHooks struct {
	calls []string
	nodes []policy.Node[string, int]
}

func (h *recordingHooks) record(op string, n policy.Node[string, int]) {
	h.calls = append(h.calls, op)
	h.nodes = append(h.nodes, n)
}

func (h *recordingHooks) MoveToFront(n policy.Node[string, int]) { h.record("move", n) }
func (h *recordingHooks) PushFront(n policy.Node[string, int])   { h.record("push", n) }
func (h *recordingHooks) Remove(n policy.Node[string, int])      { h.record("remove", n) }
func (h *recordingHooks) Back() policy.Node[string, int]         { return nil }
func (h *recordingHooks) Len() int                               { return 0 }

func TestLRU_Hooks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		run  func(t *testing.T, p policy.ShardPolicy[string, int], n policy.Node[string, int])
		want string
	}{
		{"add pushes front", func(t *testing.T, p policy.ShardPolicy[string, int], n policy.Node[string, int]) {
			if ev := p.OnAdd(n); ev != nil {
				t.Errorf("OnAdd proposed eviction %v", ev.Key())
			}
		}, "push"},
		{"get promotes", func(t *testing.T, p policy.ShardPolicy[string, int], n policy.Node[string, int]) { p.OnGet(n) }, "move"},
		{"update promotes", func(t *testing.T, p policy.ShardPolicy[string, int], n policy.Node[string, int]) { p.OnUpdate(n) }, "move"},
		{"remove is silent", func(t *testing.T, p policy.ShardPolicy[string, int], n policy.Node[string, int]) { p.OnRemove(n) }, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &recordingHooks{}
			p := New[string, int]().New(h)
			n := &testNode{k: "k", v: 1}

			tc.run(t, p, n)

			if tc.want == "" {
				if len(h.calls) != 0 {
					t.Fatalf("expected no hook calls, got %v", h.calls)
				}
				return
			}
			if len(h.calls) != 1 || h.calls[0] != tc.want || h.nodes[0] != n {
				t.Fatalf("want single %q on node, got %v", tc.want, h.calls)
			}
		})
	}
}
