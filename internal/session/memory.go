package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, profile string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.data[profile]
	if !ok {
		return nil, ErrNoSession
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, profile string, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.mu.Lock()
	s.data[profile] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	delete(s.data, profile)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
