package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps the audit trail in process. The default sink when no
// broker is configured, and the sink used by tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns a snapshot of all recorded events in append order.
func (s *InMemoryStore) List(_ context.Context) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
