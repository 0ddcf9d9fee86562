// Package gate resolves keys through a pluggable source with an optional TTL cache in front.
package gate

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Resolver when the key has no value.
var ErrNotFound = errors.New("gate: not found")

// Resolver looks up the value for a key.
type Resolver[K comparable, V any] interface {
	Resolve(ctx context.Context, key K) (V, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

func (f ResolverFunc[K, V]) Resolve(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}

// StaticResolver is an in-memory resolver, mostly useful in tests.
type StaticResolver[K comparable, V any] struct {
	mu     sync.RWMutex
	values map[K]V
}

func NewStaticResolver[K comparable, V any]() *StaticResolver[K, V] {
	return &StaticResolver[K, V]{values: make(map[K]V)}
}

func (s *StaticResolver[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

func (s *StaticResolver[K, V]) Delete(key K) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

func (s *StaticResolver[K, V]) Resolve(_ context.Context, key K) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}
