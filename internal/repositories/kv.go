// Package repositories defines the store contract shared by the session,
// profile and pending-photo services. Backends live in subpackages.
package repositories

import "context"

// KeyValue is a per-user keyed store.
//
// Update and Take are atomic with respect to other calls on the same key
// in this process: fn runs while the key is locked, so check-and-set
// logic inside fn cannot interleave with another Update.
type KeyValue[T any] interface {
	Get(ctx context.Context, key string) (v T, found bool, err error)
	Put(ctx context.Context, key string, v T) error
	Delete(ctx context.Context, key string) error
	// Update loads the current value (zero value when absent), passes it
	// to fn and stores the result if fn returns nil.
	Update(ctx context.Context, key string, fn func(v *T, found bool) error) (T, error)
	// Take returns the value and removes it.
	Take(ctx context.Context, key string) (v T, found bool, err error)
}
