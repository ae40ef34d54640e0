package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store keeps the last accepted submission time per key. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the timestamp recorded for key
	Get(ctx context.Context, key string) (time.Time, bool, error)
	// Set records ts for key, replacing any previous entry
	Set(ctx context.Context, key string, ts time.Time) error
	// DeleteBefore removes every entry recorded before cutoff and returns how many went away
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
	// Len returns the number of entries held
	Len(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore is a process-local map. Entries are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.entries[key]
	return ts, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = ts
	return nil
}

func (s *MemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ts := range s.entries {
		if ts.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
