package repair

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrcatalog/internal/catalog/models"
)

// Store defines the repair queue persistence operations.
// Implementations must be safe for concurrent use.
type Store interface {
	// Enqueue appends a pending entry. It satisfies service.RepairQueue.
	Enqueue(ctx context.Context, kind string, recordID int64, op models.IndexOp, cause string) error

	// FetchPending returns up to limit pending entries, oldest first.
	FetchPending(ctx context.Context, limit int) ([]*Entry, error)

	// MarkDone marks an entry as replayed.
	MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error

	// MarkFailed records a failed replay. When park is true the entry leaves
	// the pending set for good.
	MarkFailed(ctx context.Context, id uuid.UUID, cause string, park bool, at time.Time) error

	// Stats counts pending and parked entries.
	Stats(ctx context.Context) (Stats, error)

	// DeleteDoneBefore removes old replayed entries and returns how many.
	DeleteDoneBefore(ctx context.Context, before time.Time) (int64, error)
}
