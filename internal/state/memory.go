package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and development.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[int64]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[int64]Record)}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[userID]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (s *MemoryStore) Set(_ context.Context, userID int64, label string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[userID] = Record{Label: label, Payload: payload, UpdatedAt: time.Now()}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, userID)
	return nil
}
