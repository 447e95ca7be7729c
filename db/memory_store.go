package db

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map. Nothing survives the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

// Get returns the value stored under key, or ErrNotFound
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, Put(key, value))
}

// Remove deletes key; removing a missing key is not an error
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	return s.Apply(ctx, Delete(key))
}

// Apply runs all ops under one lock
func (s *MemoryStore) Apply(ctx context.Context, ops ...Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		if op.Remove {
			delete(s.data, op.Key)
			continue
		}
		s.data[op.Key] = op.Value
	}
	return nil
}

// Keys returns the stored keys, unordered.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }
