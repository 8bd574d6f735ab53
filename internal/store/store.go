// Package store is the persistence adapter: it translates task,
// session, and credential operations into reads and writes of
// serialized blobs in a key-value store.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tasktide/tasktide/internal/kv"
)

// Storage keys for the persisted blobs.
const (
	tasksKey       = "tasktide:tasks"
	sessionKey     = "tasktide:session"
	credentialsKey = "tasktide:credentials"
)

// Store provides blob-backed persistence over a key-value driver.
//
// Every mutation reads the whole affected collection, rewrites it,
// and stores it back. The mutex serializes those read-modify-write
// cycles within this process; concurrent writers in other processes
// are not coordinated.
type Store struct {
	kv     kv.Store
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a Store over the given key-value driver.
func New(driver kv.Store, logger *slog.Logger) *Store {
	return &Store{kv: driver, logger: logger}
}

// Ping checks connectivity of the underlying store.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
