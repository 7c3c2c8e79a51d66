package warm

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Scheduler proactively refreshes a configured hot-key list on a fixed
// interval, on a dedicated background goroutine. A failure inside one tick
// never terminates the loop.
type Scheduler struct {
	warmer *Warmer

	mu          sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
	tickFails   int64
	joinTimeout time.Duration
}

// NewScheduler creates a scheduler over the given warmer.
func NewScheduler(w *Warmer) *Scheduler {
	return &Scheduler{
		warmer:      w,
		joinTimeout: 5 * time.Second,
	}
}

// Start installs the recurring warming job. It returns an error if the
// scheduler is already running or the interval is not positive.
func (s *Scheduler) Start(interval time.Duration, keys []string) error {
	if interval <= 0 {
		return eris.New("warm: scheduler interval must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return eris.New("warm: scheduler already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done

	go s.run(ctx, done, interval, keys)

	zap.L().Info("warm: scheduler started",
		zap.Duration("interval", interval),
		zap.Int("keys", len(keys)),
	)
	return nil
}

// Stop cancels the recurring job and joins the background goroutine, with
// a bounded wait so shutdown stays prompt.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()

	select {
	case <-done:
	case <-time.After(s.joinTimeout):
		zap.L().Warn("warm: scheduler join timed out")
	}
	zap.L().Info("warm: scheduler stopped")
}

// TickFailures returns how many scheduled ticks have failed since start.
func (s *Scheduler) TickFailures() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickFails
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}, interval time.Duration, keys []string) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, keys)
		}
	}
}

// tick runs one scheduled batch, containing panics so a bad tick cannot
// kill the loop.
func (s *Scheduler) tick(ctx context.Context, keys []string) {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.tickFails++
			s.mu.Unlock()
			zap.L().Error("warm: scheduled tick panicked", zap.Any("panic", r))
		}
	}()

	results := s.warmer.WarmBatch(ctx, keys, true)

	failed := 0
	for _, ok := range results {
		if !ok {
			failed++
		}
	}
	if failed > 0 {
		s.mu.Lock()
		s.tickFails++
		s.mu.Unlock()
		zap.L().Warn("warm: scheduled tick had failures",
			zap.Int("failed", failed),
			zap.Int("total", len(results)),
		)
	}
}
