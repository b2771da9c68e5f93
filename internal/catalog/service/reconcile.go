package service

import (
	"context"
	"errors"
	"fmt"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/sentinel"
	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/platform/validation"
)

// Resync converges the index entry for id to the store's current copy: the
// record is re-upserted when it exists and its document deleted when it does
// not. It is idempotent and safe to run after any number of newer writes.
func (s *Service[E]) Resync(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "catalog.resync", idAttr(id))
	defer func() { endSpan(span, err) }()

	if _, err := s.converge(ctx, id); err != nil {
		return fmt.Errorf("resync %s %d: %w", s.kind.Name, id, err)
	}
	return nil
}

// converge re-reads id under its record lock and writes what it finds to the
// index. It reports whether a document was upserted.
func (s *Service[E]) converge(ctx context.Context, id int64) (bool, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	record, err := s.store.FindByID(ctx, id)
	upsert := err == nil
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		err = s.index.Delete(ctx, id)
	case err != nil:
		return false, storeFailure(err, "failed to read "+s.kind.Name)
	default:
		err = s.index.Upsert(ctx, record)
	}
	s.recordIndexOutcome(err)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to index "+s.kind.Name)
	}
	return upsert, nil
}

// Reindex clears the variant's index and rebuilds it from every store page.
// Page rows only supply ids; each record is re-read under its lock so a
// write racing the rebuild is never overwritten by the page copy. It returns
// the number of documents written.
func (s *Service[E]) Reindex(ctx context.Context) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "catalog.reindex")
	defer func() { endSpan(span, err) }()

	if err := s.index.Clear(ctx); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to clear "+s.kind.Name+" index")
	}

	written := 0
	p := models.Pageable{Size: validation.MaxPageSize, Sort: []models.Order{{Field: "id"}}}
	for {
		page, err := s.store.FindAll(ctx, p)
		if err != nil {
			return written, storeFailure(err, "failed to read "+s.kind.Plural)
		}
		for _, record := range page.Content {
			id, ok := record.GetID()
			if !ok {
				continue
			}
			upserted, err := s.converge(ctx, id)
			if err != nil {
				return written, err
			}
			if upserted {
				written++
			}
		}
		if len(page.Content) < p.Size {
			break
		}
		p.Page++
	}

	s.metrics.AddReindexed(s.kind.Name, written)
	s.logger.InfoContext(ctx, "reindex complete", "kind", s.kind.Name, "records", written)
	return written, nil
}

// Presence reports where the record id currently lives. An index document
// that differs from the store row, or that outlived the row, is stale.
func (s *Service[E]) Presence(ctx context.Context, id int64) (models.Presence, error) {
	record, storeErr := s.store.FindByID(ctx, id)
	if storeErr != nil && !errors.Is(storeErr, sentinel.ErrNotFound) {
		return "", storeFailure(storeErr, "failed to read "+s.kind.Name)
	}
	inStore := storeErr == nil

	doc, indexErr := s.index.Get(ctx, id)
	if indexErr != nil && !errors.Is(indexErr, sentinel.ErrNotFound) {
		return "", dErrors.Wrap(indexErr, dErrors.CodeUnavailable, "failed to read "+s.kind.Name+" index")
	}
	inIndex := indexErr == nil

	switch {
	case !inStore && !inIndex:
		return models.PresenceAbsent, nil
	case !inStore:
		return models.PresenceIndexStale, nil
	case !inIndex:
		return models.PresenceInStoreOnly, nil
	case sameDocument(record, doc):
		return models.PresenceInStoreAndIndex, nil
	default:
		return models.PresenceIndexStale, nil
	}
}

// sameDocument compares field values and audit stamps. Times are compared as
// instants since the store and the index may render zones differently.
func sameDocument(a, b models.Entity) bool {
	fa, fb := a.Fields(), b.Fields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i].Value() != fb[i].Value() {
			return false
		}
	}
	aa, ab := a.AuditInfo(), b.AuditInfo()
	return aa.CreatedBy == ab.CreatedBy &&
		aa.LastModifiedBy == ab.LastModifiedBy &&
		aa.CreatedAt.Equal(ab.CreatedAt) &&
		aa.LastModifiedAt.Equal(ab.LastModifiedAt)
}
