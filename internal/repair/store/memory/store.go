package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/repair"
)

// Store keeps repair entries in memory for the demo mode and tests.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*repair.Entry
	now     func() time.Time
}

func New() *Store {
	return &Store{
		entries: make(map[uuid.UUID]*repair.Entry),
		now:     time.Now,
	}
}

func (s *Store) Enqueue(_ context.Context, kind string, recordID int64, op models.IndexOp, cause string) error {
	entry := repair.NewEntry(kind, recordID, op, cause, s.now().UTC())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	return nil
}

func (s *Store) FetchPending(_ context.Context, limit int) ([]*repair.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]*repair.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.IsPending() {
			copied := *e
			pending = append(pending, &copied)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID.String() < pending[j].ID.String()
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkDone(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || !e.IsPending() {
		return fmt.Errorf("repair entry not found or no longer pending: %s", id)
	}
	e.Status = repair.StatusDone
	e.UpdatedAt = at
	e.ProcessedAt = &at
	return nil
}

func (s *Store) MarkFailed(_ context.Context, id uuid.UUID, cause string, park bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || !e.IsPending() {
		return fmt.Errorf("repair entry not found or no longer pending: %s", id)
	}
	e.Attempts++
	e.LastError = cause
	e.UpdatedAt = at
	if park {
		e.Status = repair.StatusParked
	}
	return nil
}

func (s *Store) Stats(_ context.Context) (repair.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats repair.Stats
	for _, e := range s.entries {
		switch e.Status {
		case repair.StatusPending:
			stats.Pending++
		case repair.StatusParked:
			stats.Parked++
		}
	}
	return stats, nil
}

func (s *Store) DeleteDoneBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.entries {
		if e.Status == repair.StatusDone && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}
