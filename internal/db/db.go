// Package db defines the key-value store contract used for caching.
package db

import (
	"context"
	"time"
)

// Store is the key-value facade consumed by the embedding cache.
type Store interface {
	KVStore
	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
