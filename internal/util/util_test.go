package util

import (
	"strconv"
	"testing"
)

func TestNextPow2(t *testing.T) {
	t.Parallel()

	cases := map[uint64]uint64{
		0:           1,
		1:           1,
		2:           2,
		3:           4,
		17:          32,
		1 << 40:     1 << 40,
		1<<40 + 1:   1 << 41,
		1<<63 + 123: 1 << 63,
	}
	for in, want := range cases {
		if got := NextPow2(in); got != want {
			t.Errorf("NextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}

// Mask and modulo must agree, so power-of-two shard counts route exactly
// like "hash mod N".
func TestShardIndex_MatchesModulo(t *testing.T) {
	t.Parallel()

	for _, shards := range []int{1, 2, 3, 7, 8, 16, 100} {
		for i := 0; i < 1000; i++ {
			h := Fnv64a("k:" + strconv.Itoa(i))
			want := int(h % uint64(shards))
			if got := ShardIndex(h, shards); got != want {
				t.Fatalf("shards=%d hash=%d: got %d want %d", shards, h, got, want)
			}
		}
	}
}

func TestFnv64a_Stable(t *testing.T) {
	t.Parallel()

	// FNV-1a("a") reference value.
	if got := Fnv64a("a"); got != 0xaf63dc4c8601ec8c {
		t.Fatalf("Fnv64a(\"a\") = %#x", got)
	}
	if Fnv64a("key") != Fnv64a([]byte("key")) {
		t.Fatal("string and []byte forms must hash identically")
	}
	if Fnv64a(42) != Fnv64a(int64(42)) {
		t.Fatal("int and int64 forms must hash identically")
	}
}

func TestReasonableShardCount(t *testing.T) {
	n := ReasonableShardCount()
	if n < 1 || n > 256 || !IsPowerOfTwo(uint64(n)) {
		t.Fatalf("unexpected shard count %d", n)
	}
}
