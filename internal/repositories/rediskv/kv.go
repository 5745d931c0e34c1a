package rediskv

import (
	"context"
	"sync"
	"time"

	"github.com/yoockh/jaanekhana/internal/cache"
	"github.com/yoockh/jaanekhana/internal/repositories"
)

// KV stores JSON values in Redis under prefix+key. Update is serialized
// per key inside this process only; it does not coordinate instances.
type KV[T any] struct {
	c      cache.Cache
	prefix string
	ttl    time.Duration

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

var _ repositories.KeyValue[int] = (*KV[int])(nil)

func NewKV[T any](c cache.Cache, prefix string, ttl time.Duration) *KV[T] {
	return &KV[T]{c: c, prefix: prefix, ttl: ttl, locks: map[string]*keyLock{}}
}

func (k *KV[T]) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *KV[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var v T
	hit, err := k.c.GetJSON(ctx, k.prefix+key, &v)
	return v, hit, err
}

func (k *KV[T]) Put(ctx context.Context, key string, v T) error {
	unlock := k.lock(key)
	defer unlock()
	return k.c.SetJSON(ctx, k.prefix+key, v, k.ttl)
}

func (k *KV[T]) Delete(ctx context.Context, key string) error {
	unlock := k.lock(key)
	defer unlock()
	return k.c.Del(ctx, k.prefix+key)
}

func (k *KV[T]) Update(ctx context.Context, key string, fn func(*T, bool) error) (T, error) {
	unlock := k.lock(key)
	defer unlock()

	var v T
	found, err := k.c.GetJSON(ctx, k.prefix+key, &v)
	if err != nil {
		return v, err
	}
	orig := v
	if err := fn(&v, found); err != nil {
		return orig, err
	}
	if err := k.c.SetJSON(ctx, k.prefix+key, v, k.ttl); err != nil {
		return orig, err
	}
	return v, nil
}

func (k *KV[T]) Take(ctx context.Context, key string) (T, bool, error) {
	unlock := k.lock(key)
	defer unlock()

	var v T
	hit, err := k.c.TakeJSON(ctx, k.prefix+key, &v)
	return v, hit, err
}
