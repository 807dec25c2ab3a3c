package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"greenreg/internal/admin/models"
	id "greenreg/pkg/domain"
	"greenreg/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts in a map. Used in development and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[id.AdminID]*models.Account
	byEmail  map[string]id.AdminID
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[id.AdminID]*models.Account),
		byEmail:  make(map[string]id.AdminID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(account.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}
	s.accounts[account.ID] = account.Clone()
	s.byEmail[key] = account.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, adminID id.AdminID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[adminID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return account.Clone(), nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adminID, exists := s.byEmail[emailKey(email)]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return s.accounts[adminID].Clone(), nil
}

func (s *InMemoryStore) TouchLastLogin(_ context.Context, adminID id.AdminID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[adminID]
	if !exists {
		return sentinel.ErrNotFound
	}
	account.LastLogin = &at
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
