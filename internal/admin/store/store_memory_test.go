package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"greenreg/internal/admin/models"
	id "greenreg/pkg/domain"
	"greenreg/pkg/platform/sentinel"
)

type AdminStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *AdminStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func TestAdminStoreSuite(t *testing.T) {
	suite.Run(t, new(AdminStoreSuite))
}

func makeAccount(email string) *models.Account {
	return &models.Account{
		ID:           id.NewAdminID(),
		Email:        email,
		FullName:     "Test Admin",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         id.RoleContentAdmin,
		Active:       true,
		CreatedAt:    time.Now(),
	}
}

func (s *AdminStoreSuite) TestLookup() {
	s.Run("finds stored account by id and email", func() {
		account := makeAccount("reviewer@environment.kn.gov.ng")
		s.Require().NoError(s.store.Create(context.Background(), account))

		byID, err := s.store.FindByID(context.Background(), account.ID)
		s.Require().NoError(err)
		s.Equal(account.Email, byID.Email)

		byEmail, err := s.store.FindByEmail(context.Background(), "Reviewer@Environment.kn.gov.ng")
		s.Require().NoError(err)
		s.Equal(account.ID, byEmail.ID)
	})

	s.Run("returns ErrNotFound for unknown account", func() {
		_, err := s.store.FindByID(context.Background(), id.NewAdminID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByEmail(context.Background(), "nobody@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *AdminStoreSuite) TestCreateDeduplicatesEmail() {
	first := makeAccount("admin@environment.kn.gov.ng")
	s.Require().NoError(s.store.Create(context.Background(), first))

	dup := makeAccount("ADMIN@environment.kn.gov.ng")
	err := s.store.Create(context.Background(), dup)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *AdminStoreSuite) TestTouchLastLogin() {
	account := makeAccount("admin@environment.kn.gov.ng")
	s.Require().NoError(s.store.Create(context.Background(), account))

	at := time.Now().Truncate(time.Second)
	s.Require().NoError(s.store.TouchLastLogin(context.Background(), account.ID, at))

	got, err := s.store.FindByID(context.Background(), account.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.LastLogin)
	s.True(got.LastLogin.Equal(at))

	err = s.store.TouchLastLogin(context.Background(), id.NewAdminID(), at)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *AdminStoreSuite) TestCloneIsolation() {
	account := makeAccount("admin@environment.kn.gov.ng")
	s.Require().NoError(s.store.Create(context.Background(), account))

	got, err := s.store.FindByID(context.Background(), account.ID)
	s.Require().NoError(err)
	got.Active = false

	again, err := s.store.FindByID(context.Background(), account.ID)
	s.Require().NoError(err)
	s.True(again.Active, "mutating a returned account must not affect the store")
}
