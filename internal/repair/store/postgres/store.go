package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/repair"
)

const maxBatch = 1000

// Store implements repair.Store using PostgreSQL.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new PostgreSQL repair store.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Enqueue adds a pending entry to the index_repairs table.
func (s *Store) Enqueue(ctx context.Context, kind string, recordID int64, op models.IndexOp, cause string) error {
	entry := repair.NewEntry(kind, recordID, op, cause, s.now().UTC())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_repairs (id, kind, record_id, op, status, attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $7)`,
		entry.ID, entry.Kind, entry.RecordID, string(entry.Op), string(entry.Status), entry.LastError, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert index repair: %w", err)
	}
	return nil
}

// FetchPending returns up to limit pending entries, oldest first. Two
// workers may read the same entry; replaying it twice is harmless.
func (s *Store) FetchPending(ctx context.Context, limit int) ([]*repair.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	if limit > maxBatch {
		limit = maxBatch
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, record_id, op, status, attempts, last_error, created_at, updated_at, processed_at
		FROM index_repairs
		WHERE status = 'pending'
		ORDER BY created_at ASC, id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending repairs: %w", err)
	}
	defer rows.Close()

	entries := make([]*repair.Entry, 0, limit)
	for rows.Next() {
		var (
			e         repair.Entry
			op        string
			status    string
			lastError sql.NullString
			processed sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.RecordID, &op, &status, &e.Attempts, &lastError,
			&e.CreatedAt, &e.UpdatedAt, &processed); err != nil {
			return nil, fmt.Errorf("scan repair: %w", err)
		}
		e.Op = models.IndexOp(op)
		e.Status = repair.Status(status)
		e.LastError = lastError.String
		if processed.Valid {
			e.ProcessedAt = &processed.Time
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repairs: %w", err)
	}
	return entries, nil
}

// MarkDone marks an entry as replayed.
func (s *Store) MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE index_repairs
		SET status = 'done', processed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'pending'`, id, at)
	if err != nil {
		return fmt.Errorf("mark repair done: %w", err)
	}
	return expectOne(result, id)
}

// MarkFailed bumps the attempt counter and optionally parks the entry.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, cause string, park bool, at time.Time) error {
	status := repair.StatusPending
	if park {
		status = repair.StatusParked
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE index_repairs
		SET attempts = attempts + 1, last_error = $2, status = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'`, id, cause, string(status), at)
	if err != nil {
		return fmt.Errorf("mark repair failed: %w", err)
	}
	return expectOne(result, id)
}

// Stats counts pending and parked entries in one scan.
func (s *Store) Stats(ctx context.Context) (repair.Stats, error) {
	var stats repair.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'parked')
		FROM index_repairs`).Scan(&stats.Pending, &stats.Parked)
	if err != nil {
		return repair.Stats{}, fmt.Errorf("count repairs: %w", err)
	}
	return stats, nil
}

// DeleteDoneBefore removes replayed entries processed before the cutoff.
func (s *Store) DeleteDoneBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM index_repairs WHERE status = 'done' AND processed_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete done repairs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

func expectOne(result sql.Result, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repair entry not found or no longer pending: %s", id)
	}
	return nil
}
