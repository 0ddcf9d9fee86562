package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver wraps a Resolver with TTL-based caching.
// Errors are never cached.
type CachedResolver[K comparable, V any] struct {
	inner Resolver[K, V]
	cache map[K]*cacheEntry[V]
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewCachedResolver wraps a resolver with caching.
// A ttl <= 0 disables caching and every call goes to inner.
func NewCachedResolver[K comparable, V any](inner Resolver[K, V], ttl time.Duration) *CachedResolver[K, V] {
	return &CachedResolver[K, V]{
		inner: inner,
		cache: make(map[K]*cacheEntry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Resolve returns the value for key, using the cache if available.
func (r *CachedResolver[K, V]) Resolve(ctx context.Context, key K) (V, error) {
	if r.ttl <= 0 {
		return r.inner.Resolve(ctx, key)
	}

	r.mu.RLock()
	entry, ok := r.cache[key]
	r.mu.RUnlock()

	if ok && r.now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err := r.inner.Resolve(ctx, key)
	if err != nil {
		if ok {
			r.Invalidate(key)
		}
		return value, err
	}

	r.mu.Lock()
	r.cache[key] = &cacheEntry[V]{
		value:     value,
		expiresAt: r.now().Add(r.ttl),
	}
	r.mu.Unlock()

	return value, nil
}

// Invalidate removes a key from the cache.
func (r *CachedResolver[K, V]) Invalidate(key K) {
	r.mu.Lock()
	delete(r.cache, key)
	r.mu.Unlock()
}

// InvalidateFunc removes every cached entry whose value matches.
func (r *CachedResolver[K, V]) InvalidateFunc(match func(K, V) bool) {
	r.mu.Lock()
	for k, e := range r.cache {
		if match(k, e.value) {
			delete(r.cache, k)
		}
	}
	r.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver[K, V]) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[K]*cacheEntry[V])
	r.mu.Unlock()
}

// Len reports the number of cached entries, expired ones included.
func (r *CachedResolver[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
