package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"greenreg/pkg/platform/sentinel"
)

type RecordStoreSuite struct {
	suite.Suite
	store *InMemoryRecordStore
}

func (s *RecordStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func TestRecordStoreSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreSuite))
}

func (s *RecordStoreSuite) TestLoadEmptyReturnsNotFound() {
	_, _, err := s.store.Load(context.Background())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RecordStoreSuite) TestSaveLoadRoundTrip() {
	at := time.Now().Truncate(time.Millisecond)
	s.Require().NoError(s.store.Save(context.Background(), "signed-token", at))

	token, establishedAt, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Equal("signed-token", token)
	s.True(establishedAt.Equal(at))
}

func (s *RecordStoreSuite) TestTouchRefreshesTimestampOnly() {
	at := time.Now()
	s.Require().NoError(s.store.Save(context.Background(), "signed-token", at))

	later := at.Add(3 * time.Minute)
	s.Require().NoError(s.store.Touch(context.Background(), later))

	token, establishedAt, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Equal("signed-token", token)
	s.True(establishedAt.Equal(later))
}

func (s *RecordStoreSuite) TestTouchAfterPurgeIsNoOp() {
	s.Require().NoError(s.store.Save(context.Background(), "signed-token", time.Now()))
	s.Require().NoError(s.store.Purge(context.Background()))

	s.Require().NoError(s.store.Touch(context.Background(), time.Now()))

	_, _, err := s.store.Load(context.Background())
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "touch must never resurrect a purged record")
}

func (s *RecordStoreSuite) TestPurgeRemovesBothFields() {
	s.Require().NoError(s.store.Save(context.Background(), "signed-token", time.Now()))
	s.Require().NoError(s.store.Purge(context.Background()))

	_, _, err := s.store.Load(context.Background())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Purge on an empty store stays idempotent.
	s.Require().NoError(s.store.Purge(context.Background()))
}
