// Package memory provides an in-process storage driver. It is used in tests
// and as the default backend in development environments.
package memory

import (
	"context"
	"sync"
)

// Store implements storage.Driver backed by an in-process map.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		blobs: make(map[string][]byte),
	}
}

// Save stores a copy of the blob under the key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.blobs[key] = copied
	return nil
}

// Restore returns a copy of the blob stored under the key, if any.
func (s *Store) Restore(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, true, nil
}

// Clear removes the blob stored under the key.
func (s *Store) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Len returns the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
