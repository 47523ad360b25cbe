package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	s := NewMemoryIdempotencyStore(time.Minute)
	s.now = func() time.Time { return now }

	t.Run("second lock fails until released", func(t *testing.T) {
		if ok, _ := s.TryLock(ctx, "checkout", "k1"); !ok {
			t.Fatal("first lock should succeed")
		}
		if ok, _ := s.TryLock(ctx, "checkout", "k1"); ok {
			t.Fatal("second lock should fail")
		}
		if ok, _ := s.TryLock(ctx, "other", "k1"); !ok {
			t.Fatal("scopes are independent")
		}
		_ = s.Release(ctx, "checkout", "k1")
		if ok, _ := s.TryLock(ctx, "checkout", "k1"); !ok {
			t.Fatal("lock after release should succeed")
		}
	})

	t.Run("remember and recall", func(t *testing.T) {
		if _, found, _ := s.Recall(ctx, "checkout", "k2"); found {
			t.Fatal("nothing remembered yet")
		}
		_ = s.Remember(ctx, "checkout", "k2", "id-1")
		if v, found, _ := s.Recall(ctx, "checkout", "k2"); !found || v != "id-1" {
			t.Fatalf("got (%q,%v)", v, found)
		}
	})

	t.Run("entries expire", func(t *testing.T) {
		_, _ = s.TryLock(ctx, "checkout", "k3")
		_ = s.Remember(ctx, "checkout", "k3", "id-3")

		now = now.Add(2 * time.Minute)

		if _, found, _ := s.Recall(ctx, "checkout", "k3"); found {
			t.Fatal("value should have expired")
		}
		if ok, _ := s.TryLock(ctx, "checkout", "k3"); !ok {
			t.Fatal("expired lock should be re-acquirable")
		}
	})
}

func TestMemoryIdempotencyStoreSweeps(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	s := NewMemoryIdempotencyStore(time.Minute)
	s.now = func() time.Time { return now }

	for _, k := range []string{"u:c:1", "u:c:2", "u:c:3"} {
		_, _ = s.TryLock(ctx, "checkout", k)
		_ = s.Remember(ctx, "checkout", k, "id-"+k)
	}
	if len(s.entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(s.entries))
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := s.TryLock(ctx, "checkout", "u:c:4"); !ok {
		t.Fatal("new version should lock")
	}
	if len(s.entries) != 1 {
		t.Fatalf("expired versions should be swept, %d entries left", len(s.entries))
	}
}

func TestKeys(t *testing.T) {
	if got := lockKey("checkout", "a:b"); got != "idemp:checkout:a:b" {
		t.Fatalf("lockKey = %s", got)
	}
	if got := valueKey("checkout", "a:b"); got != "idemp:map:checkout:a:b" {
		t.Fatalf("valueKey = %s", got)
	}
}
