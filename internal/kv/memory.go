package kv

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process map.
// An optional fixed latency is applied to every operation to mimic a
// remote store during development; zero disables it.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]string
	latency time.Duration
}

// NewMemory creates an empty MemoryStore.
func NewMemory(latency time.Duration) *MemoryStore {
	return &MemoryStore{
		data:    make(map[string]string),
		latency: latency,
	}
}

// delay sleeps for the configured latency, honoring ctx cancellation.
func (s *MemoryStore) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns the value stored at key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if err := s.delay(ctx); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value at key.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
