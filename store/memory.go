package store

import (
	"context"
	"sync"

	"github.com/skycast-app/skycast-backend/types"
)

// MemoryStore is a concurrency-safe in-memory implementation of
// types.KeyValueStore. Used by the CLI and in tests where no Redis is
// available; contents do not survive the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ types.KeyValueStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
