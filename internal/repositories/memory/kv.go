package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yoockh/jaanekhana/internal/repositories"
)

type entry[T any] struct {
	val     T
	expires time.Time // zero means never
}

// KV is the default in-process store. A zero TTL keeps entries for the
// process lifetime.
type KV[T any] struct {
	mu    sync.Mutex
	items map[string]entry[T]
	ttl   time.Duration
	now   func() time.Time
}

var _ repositories.KeyValue[int] = (*KV[int])(nil)

type Option[T any] func(*KV[T])

func WithTTL[T any](ttl time.Duration) Option[T] {
	return func(k *KV[T]) { k.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(k *KV[T]) { k.now = now }
}

func NewKV[T any](opts ...Option[T]) *KV[T] {
	k := &KV[T]{items: map[string]entry[T]{}, now: time.Now}
	for _, o := range opts {
		o(k)
	}
	return k
}

// lookup must be called with mu held.
func (k *KV[T]) lookup(key string) (T, bool) {
	e, ok := k.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	if !e.expires.IsZero() && !k.now().Before(e.expires) {
		delete(k.items, key)
		var zero T
		return zero, false
	}
	return e.val, true
}

func (k *KV[T]) store(key string, v T) {
	e := entry[T]{val: v}
	if k.ttl > 0 {
		e.expires = k.now().Add(k.ttl)
	}
	k.items[key] = e
}

func (k *KV[T]) Get(_ context.Context, key string) (T, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.lookup(key)
	return v, ok, nil
}

func (k *KV[T]) Put(_ context.Context, key string, v T) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.store(key, v)
	return nil
}

func (k *KV[T]) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.items, key)
	return nil
}

func (k *KV[T]) Update(_ context.Context, key string, fn func(*T, bool) error) (T, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	v, found := k.lookup(key)
	if err := fn(&v, found); err != nil {
		cur, _ := k.lookup(key)
		return cur, err
	}
	k.store(key, v)
	return v, nil
}

func (k *KV[T]) Take(_ context.Context, key string) (T, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.lookup(key)
	delete(k.items, key)
	return v, ok, nil
}

// Len counts live entries.
func (k *KV[T]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for key := range k.items {
		if _, ok := k.lookup(key); ok {
			n++
		}
	}
	return n
}
