// Package warm pre-populates the customer cache so hot profiles are
// servable without re-running aggregation on request.
package warm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TheCreditPros/tilores-X-sub005/internal/cache"
	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
	"github.com/TheCreditPros/tilores-X-sub005/internal/resilience"
)

// Options configures batch warming behavior.
type Options struct {
	// BatchSize chunks a key list into slices of at most this many keys;
	// chunks run one after another so a large warm request drains in
	// bounded bites. Default: 25.
	BatchSize int

	// ParallelWorkers bounds the fan-out of a parallel batch. Kept in the
	// low single digits to avoid overwhelming the upstream record source.
	// Default: 4.
	ParallelWorkers int

	// RetryFailed retries failed keys within the same batch call.
	RetryFailed bool

	// MaxRetries is the number of additional attempts per failed key when
	// RetryFailed is set. Default: 1.
	MaxRetries int
}

// Stats aggregates warming activity across batches for the observability
// layer to poll.
type Stats struct {
	TotalWarmed   int64     `json:"total_warmed"`
	Successful    int64     `json:"successful"`
	Failed        int64     `json:"failed"`
	SuccessRate   float64   `json:"success_rate"`
	AvgWarmTimeMS float64   `json:"avg_warm_time_ms"`
	LastWarmTime  time.Time `json:"last_warm_time"`
}

// Warmer refreshes cache entries for lists of customer keys.
type Warmer struct {
	cache *cache.TieredCache
	opts  Options

	mu           sync.Mutex
	totalWarmed  int64
	successful   int64
	failed       int64
	totalElapsed time.Duration
	lastWarm     time.Time
}

// NewWarmer creates a Warmer over the given cache.
func NewWarmer(c *cache.TieredCache, opts Options) *Warmer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 25
	}
	if opts.ParallelWorkers <= 0 {
		opts.ParallelWorkers = 4
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &Warmer{cache: c, opts: opts}
}

// WarmBatch pre-computes and inserts entries for keys, optionally fanning
// out across a bounded worker pool. The key list is processed in chunks of
// at most BatchSize keys, one chunk after another. A per-key failure never
// aborts the batch; it is recorded in the result map and the aggregate
// stats. Ordering across keys is not guaranteed.
func (w *Warmer) WarmBatch(ctx context.Context, keys []string, parallel bool) map[string]bool {
	runID := uuid.NewString()
	start := time.Now()
	results := make(map[string]bool, len(keys))

	chunks := chunkKeys(keys, w.opts.BatchSize)

	zap.L().Info("warm: batch started",
		zap.String("run_id", runID),
		zap.Int("keys", len(keys)),
		zap.Int("chunks", len(chunks)),
		zap.Bool("parallel", parallel),
	)

	for _, chunk := range chunks {
		w.warmChunk(ctx, chunk, parallel, results)
	}

	w.recordBatch(results, time.Since(start))

	zap.L().Info("warm: batch complete",
		zap.String("run_id", runID),
		zap.Int("keys", len(keys)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results
}

func (w *Warmer) warmChunk(ctx context.Context, keys []string, parallel bool, results map[string]bool) {
	if !parallel {
		for _, key := range keys {
			results[key] = w.warmOne(ctx, key)
		}
		return
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.ParallelWorkers)
	for _, key := range keys {
		g.Go(func() error {
			ok := w.warmOne(gctx, key)
			mu.Lock()
			results[key] = ok
			mu.Unlock()
			return nil // per-key failures never fail the group
		})
	}
	_ = g.Wait()
}

// chunkKeys splits keys into slices of at most size keys, preserving order.
func chunkKeys(keys []string, size int) [][]string {
	if len(keys) == 0 {
		return nil
	}
	var chunks [][]string
	for size > 0 && len(keys) > size {
		chunks = append(chunks, keys[:size])
		keys = keys[size:]
	}
	return append(chunks, keys)
}

// warmOne refreshes a single key, retrying per configuration.
func (w *Warmer) warmOne(ctx context.Context, key string) bool {
	refresh := func(ctx context.Context) (*model.CustomerView, error) {
		return w.cache.Refresh(ctx, key)
	}

	var err error
	if w.opts.RetryFailed {
		cfg := resilience.DefaultRetryConfig()
		cfg.MaxAttempts = w.opts.MaxRetries + 1
		cfg.OnRetry = resilience.RetryLogger("warm key")
		// Warm retries are best-effort; retry regardless of error class.
		cfg.ShouldRetry = func(error) bool { return true }
		_, err = resilience.DoVal(ctx, cfg, refresh)
	} else {
		_, err = refresh(ctx)
	}

	if err != nil {
		zap.L().Warn("warm: key failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (w *Warmer) recordBatch(results map[string]bool, elapsed time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ok := range results {
		w.totalWarmed++
		if ok {
			w.successful++
		} else {
			w.failed++
		}
	}
	w.totalElapsed += elapsed
	w.lastWarm = time.Now().UTC()
}

// Stats returns aggregate warming statistics.
func (w *Warmer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Stats{
		TotalWarmed:  w.totalWarmed,
		Successful:   w.successful,
		Failed:       w.failed,
		LastWarmTime: w.lastWarm,
	}
	if w.totalWarmed > 0 {
		s.SuccessRate = float64(w.successful) / float64(w.totalWarmed)
		s.AvgWarmTimeMS = float64(w.totalElapsed.Milliseconds()) / float64(w.totalWarmed)
	}
	return s
}
