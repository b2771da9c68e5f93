package models

import "time"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeEvent is the notification emitted for every successful mutation.
type ChangeEvent struct {
	Kind       string    `json:"kind"`
	Action     Action    `json:"action"`
	ID         int64     `json:"id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Presence describes where a record currently lives across the two stores.
type Presence string

const (
	PresenceAbsent          Presence = "absent"
	PresenceInStoreOnly     Presence = "in_store_only"
	PresenceInStoreAndIndex Presence = "in_store_and_index"
	PresenceIndexStale      Presence = "index_stale"
)

// IndexOp is the index write a repair entry replays.
type IndexOp string

const (
	IndexOpUpsert IndexOp = "upsert"
	IndexOpDelete IndexOp = "delete"
)
