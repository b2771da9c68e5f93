// Package sync holds locking helpers shared by the catalog engines.
package sync

import (
	"sync"
)

const shardCount = 64

// RecordLocks serializes work on the same record id without a global lock.
// Ids map onto a fixed set of shards, so unrelated ids occasionally share one.
type RecordLocks struct {
	shards [shardCount]sync.Mutex
}

func NewRecordLocks() *RecordLocks {
	return &RecordLocks{}
}

// Lock blocks until the shard owning id is free.
func (l *RecordLocks) Lock(id int64) {
	l.shards[shardFor(id)].Lock()
}

func (l *RecordLocks) Unlock(id int64) {
	l.shards[shardFor(id)].Unlock()
}

// With runs fn while holding the lock for id.
func (l *RecordLocks) With(id int64, fn func()) {
	l.Lock(id)
	defer l.Unlock(id)
	fn()
}

// shardFor mixes the id so sequential ids spread across shards.
func shardFor(id int64) int {
	h := uint64(id)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return int(h % shardCount)
}
