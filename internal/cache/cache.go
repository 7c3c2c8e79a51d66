// Package cache keeps finished customer views behind a tiered, TTL-bounded
// get-or-compute cache so the aggregation pipeline does not re-run on every
// request.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

// ComputeFunc runs the aggregation pipeline for one customer key. It is
// supplied by the caller, who owns the upstream record fetch.
type ComputeFunc func(ctx context.Context, key string) (*model.CustomerView, error)

// Stats is a point-in-time view of cache performance.
type Stats struct {
	L1Entries int     `json:"l1_entries"`
	L2Entries int     `json:"l2_entries"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	Expired   int64   `json:"expired"`
	Demotions int64   `json:"demotions"`
}

// TieredCache fronts the aggregation pipeline with two storage tiers.
// L1 is entry-count bounded; on capacity pressure its LRU entry demotes to
// L2 rather than dropping. L2 drops outright under its own pressure. TTL is
// independent of LRU position: an expired entry reads as a miss but stays
// resident until overwritten or evicted.
//
// Concurrent misses for the same key collapse into a single in-flight
// computation; every waiter receives the same view or the same error, and a
// failed flight leaves the key absent so the next call can retry.
type TieredCache struct {
	l1      EntryStore
	l2      EntryStore
	ttl     time.Duration
	compute ComputeFunc

	flight    singleflight.Group
	hits      atomic.Int64
	misses    atomic.Int64
	expired   atomic.Int64
	demotions atomic.Int64
}

// New creates a TieredCache over the given stores. l2 may be nil, in which
// case L1 evictions drop outright.
func New(l1, l2 EntryStore, ttl time.Duration, compute ComputeFunc) *TieredCache {
	return &TieredCache{
		l1:      l1,
		l2:      l2,
		ttl:     ttl,
		compute: compute,
	}
}

// GetOrCompute returns the cached view for key, computing and storing it on
// a miss. A hit is non-blocking; a miss suspends the caller for the fetch
// plus aggregation.
func (c *TieredCache) GetOrCompute(ctx context.Context, key string) (*model.CustomerView, error) {
	if view, ok := c.lookup(ctx, key); ok {
		c.hits.Add(1)
		return view, nil
	}
	c.misses.Add(1)
	return c.refresh(ctx, key)
}

// Refresh recomputes and stores the view for key regardless of cache state.
// Used by the pre-warmer to refresh entries in place before they expire.
func (c *TieredCache) Refresh(ctx context.Context, key string) (*model.CustomerView, error) {
	return c.refresh(ctx, key)
}

// Invalidate drops the key from every tier.
func (c *TieredCache) Invalidate(ctx context.Context, key string) {
	c.l1.Delete(ctx, key)
	if c.l2 != nil {
		c.l2.Delete(ctx, key)
	}
}

// Stats returns cache performance statistics for the observability layer
// to poll; the cache never pushes metrics anywhere itself.
func (c *TieredCache) Stats(ctx context.Context) Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	s := Stats{
		L1Entries: c.l1.Len(ctx),
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Expired:   c.expired.Load(),
		Demotions: c.demotions.Load(),
	}
	if c.l2 != nil {
		s.L2Entries = c.l2.Len(ctx)
	}
	return s
}

// lookup checks L1 then L2, promoting an L2 hit back to L1. Expired
// entries count as misses and are left in place for the refresh to
// overwrite.
func (c *TieredCache) lookup(ctx context.Context, key string) (*model.CustomerView, bool) {
	if e, ok := c.l1.Get(ctx, key); ok {
		if e.Expired(time.Now()) {
			c.expired.Add(1)
			return nil, false
		}
		return e.Value, true
	}
	if c.l2 == nil {
		return nil, false
	}
	e, ok := c.l2.Get(ctx, key)
	if !ok {
		return nil, false
	}
	if e.Expired(time.Now()) {
		c.expired.Add(1)
		return nil, false
	}
	c.promote(ctx, key, e)
	return e.Value, true
}

func (c *TieredCache) refresh(ctx context.Context, key string) (*model.CustomerView, error) {
	v, err, shared := c.flight.Do(key, func() (any, error) {
		view, err := c.compute(ctx, key)
		if err != nil {
			return nil, eris.Wrap(err, "cache: compute view")
		}
		c.put(ctx, key, view)
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.L().Debug("cache: single-flight shared result", zap.String("key", key))
	}
	return v.(*model.CustomerView), nil
}

func (c *TieredCache) put(ctx context.Context, key string, view *model.CustomerView) {
	entry := &Entry{
		Key:        key,
		Value:      view,
		InsertedAt: time.Now(),
		TTL:        c.ttl,
		Tier:       TierL1,
	}
	evicted := c.l1.Put(ctx, key, entry)
	if c.l2 == nil {
		return
	}
	for _, old := range evicted {
		old.Tier = TierL2
		c.l2.Put(ctx, old.Key, old)
		c.demotions.Add(1)
	}
}

func (c *TieredCache) promote(ctx context.Context, key string, e *Entry) {
	c.l2.Delete(ctx, key)
	promoted := *e
	promoted.Tier = TierL1
	evicted := c.l1.Put(ctx, key, &promoted)
	for _, old := range evicted {
		old.Tier = TierL2
		c.l2.Put(ctx, old.Key, old)
		c.demotions.Add(1)
	}
}
