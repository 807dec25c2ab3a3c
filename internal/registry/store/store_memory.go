package store

import (
	"context"
	"sort"
	"sync"

	"greenreg/internal/registry/models"
	id "greenreg/pkg/domain"
	"greenreg/pkg/platform/sentinel"
)

// InMemoryStore keeps submissions in process memory, for development and
// tests. Per-status counts are maintained on every mutation so Counts stays
// O(1) like the SQL-backed store.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.SubmissionID]*models.SubmissionRecord
	counts  models.StatusCounts
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.SubmissionID]*models.SubmissionRecord)}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.SubmissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrConflict
	}
	s.records[record.ID] = record.Clone()
	s.counts.Total++
	s.bump(record.Status, 1)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, submissionID id.SubmissionID) (*models.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[submissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return record.Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context, filter models.Status) ([]*models.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.SubmissionRecord, 0, len(s.records))
	for _, record := range s.records {
		if filter != "" && record.Status != filter {
			continue
		}
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, submissionID id.SubmissionID, transition Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[submissionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if record.Status != models.StatusPending {
		return sentinel.ErrInvalidState
	}

	s.bump(record.Status, -1)
	record.Status = transition.To
	record.ApprovedAt = transition.ApprovedAt
	record.ApprovedBy = transition.ApprovedBy
	record.RejectionReason = transition.RejectionReason
	s.bump(record.Status, 1)
	return nil
}

func (s *InMemoryStore) Counts(_ context.Context) (models.StatusCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts, nil
}

func (s *InMemoryStore) bump(status models.Status, delta int) {
	switch status {
	case models.StatusPending:
		s.counts.Pending += delta
	case models.StatusApproved:
		s.counts.Approved += delta
	case models.StatusRejected:
		s.counts.Rejected += delta
	}
}
