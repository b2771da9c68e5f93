// Package store holds the record store adapters: the relational system of
// record for every catalog variant.
//
// Error Contract:
//   - FindByID returns sentinel.ErrNotFound when no row has the id
//   - Save of a record whose id has no row returns sentinel.ErrNotFound
//   - FindAll returns sentinel.ErrInvalidInput for a sort on an unknown field
//   - Delete of a missing id is a no-op
//   - Other failures are wrapped infrastructure errors
package store

import (
	"fmt"
	"strings"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/sentinel"
)

var auditColumns = []string{"created_by", "created_at", "last_modified_by", "last_modified_at"}

// orderBy renders a whitelisted ORDER BY clause. id is always the last key so
// pages are stable even when the requested sort has ties.
func orderBy[E models.Entity](kind models.Kind[E], sort []models.Order) (string, error) {
	parts := make([]string, 0, len(sort)+1)
	sawID := false
	for _, o := range sort {
		if !kind.Sortable(o.Field) {
			return "", fmt.Errorf("sort by %q: %w", o.Field, sentinel.ErrInvalidInput)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, o.Field+" "+dir)
		if o.Field == "id" {
			sawID = true
			break
		}
	}
	if !sawID {
		parts = append(parts, "id ASC")
	}
	return strings.Join(parts, ", "), nil
}
