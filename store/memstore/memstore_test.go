package memstore

import (
	"context"
	"testing"
)

func TestStore_UpsertGetErase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := New[string, string]()
	if _, ok, err := s.Get(ctx, "a"); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := s.Upsert(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, "a", "2"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "a"); !ok || v != "2" {
		t.Fatalf("want 2, got %q ok=%v", v, ok)
	}
	if err := s.Erase(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Erase(ctx, "a"); err != nil {
		t.Fatal("erasing a missing key must succeed")
	}
	if s.Len() != 0 {
		t.Fatalf("Len want 0, got %d", s.Len())
	}
}
