package warm

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

func TestScheduler_RunsBatchesOnInterval(t *testing.T) {
	var calls atomic.Int64
	c := newWarmCache(func(_ context.Context, key string) (*model.CustomerView, error) {
		calls.Add(1)
		return warmView(key), nil
	})
	s := NewScheduler(NewWarmer(c, Options{}))

	require.NoError(t, s.Start(20*time.Millisecond, []string{"cust-1", "cust-2"}))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return calls.Load() >= 4
	}, 2*time.Second, 10*time.Millisecond, "expected at least two full ticks")
	assert.Zero(t, s.TickFailures())
}

func TestScheduler_StartValidation(t *testing.T) {
	s := NewScheduler(NewWarmer(newWarmCache(nil), Options{}))

	assert.Error(t, s.Start(0, nil))
	assert.Error(t, s.Start(-time.Minute, nil))
}

func TestScheduler_DoubleStart(t *testing.T) {
	c := newWarmCache(func(_ context.Context, key string) (*model.CustomerView, error) {
		return warmView(key), nil
	})
	s := NewScheduler(NewWarmer(c, Options{}))

	require.NoError(t, s.Start(time.Hour, []string{"cust-1"}))
	defer s.Stop()

	assert.Error(t, s.Start(time.Hour, []string{"cust-1"}))
}

func TestScheduler_StopJoinsAndIsIdempotent(t *testing.T) {
	var calls atomic.Int64
	c := newWarmCache(func(_ context.Context, key string) (*model.CustomerView, error) {
		calls.Add(1)
		return warmView(key), nil
	})
	s := NewScheduler(NewWarmer(c, Options{}))

	require.NoError(t, s.Start(10*time.Millisecond, []string{"cust-1"}))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "no ticks after Stop")

	// Stopping a stopped scheduler is a no-op.
	s.Stop()

	// And the scheduler can be started again.
	require.NoError(t, s.Start(time.Hour, []string{"cust-1"}))
	s.Stop()
}

func TestScheduler_FailedTickKeepsRunning(t *testing.T) {
	var calls atomic.Int64
	c := newWarmCache(func(_ context.Context, key string) (*model.CustomerView, error) {
		calls.Add(1)
		return nil, eris.New("upstream unavailable")
	})
	s := NewScheduler(NewWarmer(c, Options{}))

	require.NoError(t, s.Start(15*time.Millisecond, []string{"cust-1"}))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return s.TickFailures() >= 2
	}, 2*time.Second, 10*time.Millisecond, "loop survives failing ticks")
	assert.GreaterOrEqual(t, calls.Load(), int64(2))
}
