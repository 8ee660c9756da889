package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

// Store is an in-memory interfaces.Storage. It backs the "memory" storage
// driver and every test; no state survives the process.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true, nil
}

func (s *Store) Set(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.data[key] = stored
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

var _ interfaces.Storage = (*Store)(nil)
