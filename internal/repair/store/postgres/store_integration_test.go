//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/repair"
	"hrcatalog/pkg/testutil/containers"
)

type RepairStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *Store
	clock    time.Time
	ctx      context.Context
}

func TestRepairStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RepairStoreSuite))
}

func (s *RepairStoreSuite) SetupSuite() {
	s.postgres = containers.Postgres(s.T())
}

func (s *RepairStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.Reset(s.ctx))
	s.clock = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s.store = New(s.postgres.DB)
	s.store.now = func() time.Time {
		s.clock = s.clock.Add(time.Second)
		return s.clock
	}
}

func (s *RepairStoreSuite) enqueue(kind string, id int64, op models.IndexOp) {
	s.Require().NoError(s.store.Enqueue(s.ctx, kind, id, op, "index down"))
}

func (s *RepairStoreSuite) TestFetchIsOldestFirstAndBounded() {
	s.enqueue("bank", 1, models.IndexOpUpsert)
	s.enqueue("degree", 2, models.IndexOpDelete)
	s.enqueue("bank", 3, models.IndexOpUpsert)

	got, err := s.store.FetchPending(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(int64(1), got[0].RecordID)
	s.Equal("degree", got[1].Kind)
	s.Equal(models.IndexOpDelete, got[1].Op)
	s.Equal(repair.StatusPending, got[1].Status)
	s.Equal("index down", got[1].LastError)
	s.Nil(got[1].ProcessedAt)

	none, err := s.store.FetchPending(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepairStoreSuite) TestMarkDoneSettlesOnce() {
	s.enqueue("bank", 1, models.IndexOpUpsert)
	pending, err := s.store.FetchPending(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)

	s.Require().NoError(s.store.MarkDone(s.ctx, pending[0].ID, s.clock))
	s.Error(s.store.MarkDone(s.ctx, pending[0].ID, s.clock), "an entry is settled once")
	s.Error(s.store.MarkDone(s.ctx, uuid.New(), s.clock))

	stats, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(repair.Stats{}, stats)
}

func (s *RepairStoreSuite) TestMarkFailedRetriesThenParks() {
	s.enqueue("bank", 7, models.IndexOpUpsert)
	pending, err := s.store.FetchPending(s.ctx, 10)
	s.Require().NoError(err)
	id := pending[0].ID

	s.Require().NoError(s.store.MarkFailed(s.ctx, id, "still down", false, s.clock))
	pending, err = s.store.FetchPending(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(1, pending[0].Attempts)
	s.Equal("still down", pending[0].LastError)

	s.Require().NoError(s.store.MarkFailed(s.ctx, id, "gave up", true, s.clock))
	pending, err = s.store.FetchPending(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)

	stats, err := s.store.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(repair.Stats{Parked: 1}, stats)
}

func (s *RepairStoreSuite) TestDeleteDoneBeforeKeepsParkedAndRecent() {
	s.enqueue("bank", 1, models.IndexOpUpsert)
	s.enqueue("bank", 2, models.IndexOpUpsert)
	s.enqueue("bank", 3, models.IndexOpUpsert)
	pending, err := s.store.FetchPending(s.ctx, 10)
	s.Require().NoError(err)

	old := s.clock.Add(-48 * time.Hour)
	s.Require().NoError(s.store.MarkDone(s.ctx, pending[0].ID, old))
	s.Require().NoError(s.store.MarkDone(s.ctx, pending[1].ID, s.clock))
	s.Require().NoError(s.store.MarkFailed(s.ctx, pending[2].ID, "gave up", true, old))

	n, err := s.store.DeleteDoneBefore(s.ctx, s.clock.Add(-time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	rows, err := s.postgres.CountRows(s.ctx, "index_repairs")
	s.Require().NoError(err)
	s.Equal(int64(2), rows)
}
