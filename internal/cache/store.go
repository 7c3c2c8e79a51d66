package cache

import (
	"context"
	"time"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

// Cache tiers.
const (
	TierL1 = "L1"
	TierL2 = "L2"
)

// Entry is one cached customer view. Entries are owned by the cache;
// callers receive the shared immutable view, never the entry itself.
type Entry struct {
	Key        string              `json:"key"`
	Value      *model.CustomerView `json:"value"`
	InsertedAt time.Time           `json:"inserted_at"`
	TTL        time.Duration       `json:"ttl"`
	Tier       string              `json:"tier"`
}

// Expired reports whether the entry is past its TTL at time now.
// Expired entries are treated as misses on read but are not purged until
// overwritten or evicted for space.
func (e *Entry) Expired(now time.Time) bool {
	return now.Sub(e.InsertedAt) > e.TTL
}

// EntryStore abstracts the key->entry mapping so the underlying storage
// (in-process map, external KV store) is swappable without touching the
// aggregation logic. Put returns any entries evicted for capacity, so a
// tiering layer can demote them.
type EntryStore interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Put(ctx context.Context, key string, e *Entry) (evicted []*Entry)
	Delete(ctx context.Context, key string)
	Len(ctx context.Context) int
}
