// Package repair holds the queue of index writes that did not reach the
// search index and the worker that replays them.
package repair

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"hrcatalog/internal/catalog/models"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	// StatusParked entries exhausted their attempts and need an operator
	// (or a full reindex).
	StatusParked Status = "parked"
)

// Entry is one missed index write. It names the record, not its content: the
// worker always re-reads the store's current copy.
type Entry struct {
	ID          uuid.UUID
	Kind        string
	RecordID    int64
	Op          models.IndexOp
	Status      Status
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time
}

// NewEntry creates a pending entry with a generated UUID.
func NewEntry(kind string, recordID int64, op models.IndexOp, cause string, now time.Time) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Kind:      kind,
		RecordID:  recordID,
		Op:        op,
		Status:    StatusPending,
		LastError: cause,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPending returns true if the entry still has to be replayed.
func (e *Entry) IsPending() bool {
	return e.Status == StatusPending
}

// Key groups entries that a single resync settles. The op does not matter
// since a resync reads the store and upserts or deletes accordingly.
func (e *Entry) Key() string {
	return e.Kind + "/" + strconv.FormatInt(e.RecordID, 10)
}

// Stats summarizes the queue for the admin endpoint.
type Stats struct {
	Pending int64 `json:"pending"`
	Parked  int64 `json:"parked"`
}
