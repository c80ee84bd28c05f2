package repository

import "context"

// KVStore manages opaque values by key. Get returns ErrNotFound for
// missing keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
