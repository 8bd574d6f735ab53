// Package kv provides the key-value string store backing persistence.
// Drivers exist for Redis, Postgres, and in-process memory.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value string store.
// Implementations are safe for concurrent use but offer no
// cross-writer transaction primitive; callers serialize their own
// read-modify-write cycles.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping checks connectivity to the underlying store.
	Ping(ctx context.Context) error
	// Close releases resources held by the store.
	Close() error
}
