package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-profiles/gate"
)

func TestCachedResolver_CachesValue(t *testing.T) {
	inner := gate.NewStaticResolver[string, uint]()
	inner.Set("tok-a", 1)

	cached := gate.NewCachedResolver[string, uint](inner, 5*time.Minute)

	// First call - cache miss
	v1, err := cached.Resolve(context.Background(), "tok-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != 1 {
		t.Errorf("expected 1, got %d", v1)
	}

	// Modify inner resolver (simulate change)
	inner.Set("tok-a", 2)

	// Second call - should return cached value
	v2, err := cached.Resolve(context.Background(), "tok-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v2 != 1 {
		t.Errorf("expected cached 1, got %d", v2)
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	inner := gate.NewStaticResolver[string, uint]()
	inner.Set("tok-a", 1)

	cached := gate.NewCachedResolver[string, uint](inner, 5*time.Minute)
	_, _ = cached.Resolve(context.Background(), "tok-a")

	inner.Delete("tok-a")
	cached.Invalidate("tok-a")

	if _, err := cached.Resolve(context.Background(), "tok-a"); !errors.Is(err, gate.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after invalidation, got %v", err)
	}
}

func TestCachedResolver_InvalidateFunc(t *testing.T) {
	inner := gate.NewStaticResolver[string, uint]()
	inner.Set("tok-a", 1)
	inner.Set("tok-b", 2)

	cached := gate.NewCachedResolver[string, uint](inner, 5*time.Minute)
	_, _ = cached.Resolve(context.Background(), "tok-a")
	_, _ = cached.Resolve(context.Background(), "tok-b")

	cached.InvalidateFunc(func(_ string, id uint) bool { return id == 2 })

	if cached.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", cached.Len())
	}
}

func TestCachedResolver_InvalidateAll(t *testing.T) {
	inner := gate.NewStaticResolver[string, uint]()
	inner.Set("tok-a", 1)
	inner.Set("tok-b", 2)

	cached := gate.NewCachedResolver[string, uint](inner, 5*time.Minute)
	_, _ = cached.Resolve(context.Background(), "tok-a")
	_, _ = cached.Resolve(context.Background(), "tok-b")

	inner.Set("tok-a", 10)
	inner.Set("tok-b", 20)
	cached.InvalidateAll()

	a, _ := cached.Resolve(context.Background(), "tok-a")
	b, _ := cached.Resolve(context.Background(), "tok-b")
	if a != 10 || b != 20 {
		t.Error("expected fresh values after InvalidateAll")
	}
}

func TestCachedResolver_TTLExpiry(t *testing.T) {
	inner := gate.NewStaticResolver[string, uint]()
	inner.Set("tok-a", 1)

	// Very short TTL
	cached := gate.NewCachedResolver[string, uint](inner, 10*time.Millisecond)
	_, _ = cached.Resolve(context.Background(), "tok-a")

	inner.Set("tok-a", 2)

	// Wait for TTL to expire
	time.Sleep(20 * time.Millisecond)

	v, _ := cached.Resolve(context.Background(), "tok-a")
	if v != 2 {
		t.Errorf("expected 2 after TTL expiry, got %d", v)
	}
}

func TestCachedResolver_ZeroTTLDisablesCache(t *testing.T) {
	calls := 0
	inner := gate.ResolverFunc[string, uint](func(ctx context.Context, key string) (uint, error) {
		calls++
		return 7, nil
	})
	cached := gate.NewCachedResolver[string, uint](inner, 0)
	_, _ = cached.Resolve(context.Background(), "tok-a")
	_, _ = cached.Resolve(context.Background(), "tok-a")
	if calls != 2 {
		t.Fatalf("expected every call to reach inner, got %d calls", calls)
	}
	if cached.Len() != 0 {
		t.Fatalf("nothing should be cached")
	}
}

func TestCachedResolver_ErrorsNotCached(t *testing.T) {
	calls := 0
	inner := gate.ResolverFunc[string, uint](func(ctx context.Context, key string) (uint, error) {
		calls++
		return 0, gate.ErrNotFound
	})
	cached := gate.NewCachedResolver[string, uint](inner, time.Minute)
	_, _ = cached.Resolve(context.Background(), "missing")
	_, _ = cached.Resolve(context.Background(), "missing")
	if calls != 2 {
		t.Fatalf("errors must not be cached, got %d calls", calls)
	}
}
