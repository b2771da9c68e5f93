package service

import (
	"fmt"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/pkg/testutil"
)

func (s *SyncSuite) TestConcurrentUpdatesLeaveIndexOnLastStoreWrite() {
	stored, err := s.service.Save(s.ctx, &models.Bank{Code: "RACE", Name: "Start"})
	s.Require().NoError(err)
	id, _ := stored.GetID()

	result := testutil.RunConcurrent(24, func(idx int) error {
		_, err := s.service.Save(s.ctx, bankWithID(id, "RACE", fmt.Sprintf("Writer %02d", idx)))
		return err
	})
	s.Equal(int32(24), result.Successes)

	presence, err := s.service.Presence(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.PresenceInStoreAndIndex, presence)
	s.Len(s.search("code:RACE"), 1)
}

func (s *SyncSuite) TestConcurrentCreatesGetDistinctIDs() {
	ids := make(chan int64, 16)
	result := testutil.RunConcurrent(16, func(idx int) error {
		stored, err := s.service.Save(s.ctx, &models.Bank{Code: fmt.Sprintf("N%02d", idx), Name: "Fresh"})
		if err != nil {
			return err
		}
		id, _ := stored.GetID()
		ids <- id
		return nil
	})
	close(ids)
	s.Equal(int32(16), result.Successes)

	seen := map[int64]bool{}
	for id := range ids {
		s.False(seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	s.Len(s.search("name:Fresh"), 16)
}

func (s *SyncSuite) TestDeleteRacingUpdateNeverStrandsDocument() {
	stored, err := s.service.Save(s.ctx, &models.Bank{Code: "DEL", Name: "Doomed"})
	s.Require().NoError(err)
	id, _ := stored.GetID()

	result := testutil.RunConcurrent(10, func(idx int) error {
		if idx%2 == 0 {
			return s.service.Delete(s.ctx, id)
		}
		_, err := s.service.Save(s.ctx, bankWithID(id, "DEL", "Revived"))
		return err
	})
	s.Zero(result.Errors, "unexpected failures: %v", result.Failures)
	s.Equal(int32(10), result.Total())

	presence, err := s.service.Presence(s.ctx, id)
	s.Require().NoError(err)
	s.Contains([]models.Presence{models.PresenceAbsent, models.PresenceInStoreAndIndex}, presence)
}
