package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/sentinel"
	"hrcatalog/pkg/requestcontext"
)

// InMemory stores one catalog variant in memory. It backs the server when no
// DATABASE_URL is configured and the service tests.
type InMemory[E models.Entity] struct {
	mu      sync.RWMutex
	kind    models.Kind[E]
	nextID  int64
	records map[int64]E
}

func NewInMemory[E models.Entity](kind models.Kind[E]) *InMemory[E] {
	return &InMemory[E]{kind: kind, records: make(map[int64]E)}
}

func (s *InMemory[E]) Save(ctx context.Context, e E) (E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.kind.Clone(e)
	audit := record.AuditInfo()
	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)

	if id, ok := record.GetID(); ok {
		existing, found := s.records[id]
		if !found {
			var zero E
			return zero, sentinel.ErrNotFound
		}
		prev := existing.AuditInfo()
		audit.CreatedBy, audit.CreatedAt = prev.CreatedBy, prev.CreatedAt
	} else {
		s.nextID++
		record.SetID(s.nextID)
		audit.CreatedBy, audit.CreatedAt = actor, now
	}
	audit.LastModifiedBy, audit.LastModifiedAt = actor, now

	id, _ := record.GetID()
	s.records[id] = record
	return s.kind.Clone(record), nil
}

func (s *InMemory[E]) FindByID(_ context.Context, id int64) (E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		var zero E
		return zero, sentinel.ErrNotFound
	}
	return s.kind.Clone(record), nil
}

func (s *InMemory[E]) FindAll(_ context.Context, p models.Pageable) (models.Page[E], error) {
	for _, o := range p.Sort {
		if !s.kind.Sortable(o.Field) {
			return models.Page[E]{}, fmt.Errorf("sort by %q: %w", o.Field, sentinel.ErrInvalidInput)
		}
	}

	s.mu.RLock()
	all := make([]E, 0, len(s.records))
	for _, r := range s.records {
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return less(all[i], all[j], p.Sort)
	})

	total := int64(len(all))
	start := min(p.Offset(), len(all))
	end := min(start+p.Size, len(all))

	content := make([]E, 0, end-start)
	for _, r := range all[start:end] {
		content = append(content, s.kind.Clone(r))
	}
	return models.NewPage(content, total, p), nil
}

func (s *InMemory[E]) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func (s *InMemory[E]) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// less orders a before b by the sort keys, then by id. Unset values sort
// after set ones in ascending order, as they do in PostgreSQL.
func less(a, b models.Entity, keys []models.Order) bool {
	for _, o := range keys {
		c := compare(sortValue(a, o.Field), sortValue(b, o.Field))
		if c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	ida, _ := a.GetID()
	idb, _ := b.GetID()
	return ida < idb
}

func sortValue(e models.Entity, field string) any {
	switch field {
	case "id":
		id, _ := e.GetID()
		return id
	case "created_at":
		return e.AuditInfo().CreatedAt
	case "last_modified_at":
		return e.AuditInfo().LastModifiedAt
	}
	for _, f := range e.Fields() {
		if f.Name == field {
			return f.Value()
		}
	}
	return nil
}

func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string))
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case time.Time:
		return av.Compare(b.(time.Time))
	}
	return 0
}
