package store

import (
	"context"
	"sync"
	"time"

	"greenreg/pkg/platform/sentinel"
)

type memoryRecord struct {
	token         string
	establishedAt time.Time
}

// InMemoryRecordStore holds the record behind one pointer so identity and
// timestamp can never be observed out of sync.
type InMemoryRecordStore struct {
	mu     sync.RWMutex
	record *memoryRecord
}

func NewMemory() *InMemoryRecordStore {
	return &InMemoryRecordStore{}
}

func (s *InMemoryRecordStore) Save(_ context.Context, signedToken string, establishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = &memoryRecord{token: signedToken, establishedAt: establishedAt}
	return nil
}

func (s *InMemoryRecordStore) Load(_ context.Context) (string, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return "", time.Time{}, sentinel.ErrNotFound
	}
	return s.record.token, s.record.establishedAt, nil
}

func (s *InMemoryRecordStore) Touch(_ context.Context, establishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil
	}
	s.record = &memoryRecord{token: s.record.token, establishedAt: establishedAt}
	return nil
}

func (s *InMemoryRecordStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	return nil
}
