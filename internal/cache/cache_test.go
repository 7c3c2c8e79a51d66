package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

func testView(key string) *model.CustomerView {
	return &model.CustomerView{
		Profile: &model.ConsolidatedProfile{Identity: map[string]string{"client_id": key}},
		BuiltAt: time.Now().UTC(),
	}
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	c := New(NewMemoryStore(10), NewMemoryStore(10), time.Minute,
		func(_ context.Context, key string) (*model.CustomerView, error) {
			calls.Add(1)
			return testView(key), nil
		})

	v1, err := c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	v2, err := c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)

	assert.Same(t, v1, v2)
	assert.Equal(t, int64(1), calls.Load())

	stats := c.Stats(ctx)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestGetOrCompute_SingleFlight(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	c := New(NewMemoryStore(10), nil, time.Minute,
		func(_ context.Context, key string) (*model.CustomerView, error) {
			if calls.Add(1) == 1 {
				close(started)
				<-release
			}
			return testView(key), nil
		})

	const n = 8
	views := make([]*model.CustomerView, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute(ctx, "cust-1")
			assert.NoError(t, err)
			views[i] = v
		}(i)
	}

	<-started
	// All callers are either blocked in the flight or yet to join it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for i := 1; i < n; i++ {
		assert.Same(t, views[0], views[i])
	}
}

func TestGetOrCompute_FailureSharedAndRetryable(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	fail := atomic.Bool{}
	fail.Store(true)

	c := New(NewMemoryStore(10), nil, time.Minute,
		func(_ context.Context, key string) (*model.CustomerView, error) {
			calls.Add(1)
			if fail.Load() {
				return nil, eris.New("upstream down")
			}
			return testView(key), nil
		})

	_, err := c.GetOrCompute(ctx, "cust-1")
	require.Error(t, err)

	// The failed flight must not leave the key stuck: a later call retries.
	fail.Store(false)
	v, err := c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Equal(t, int64(2), calls.Load())
}

func TestGetOrCompute_TTLExpiryIsMiss(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	c := New(NewMemoryStore(10), nil, 10*time.Millisecond,
		func(_ context.Context, key string) (*model.CustomerView, error) {
			calls.Add(1)
			return testView(key), nil
		})

	_, err := c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, int64(1), c.Stats(ctx).Expired)
}

func TestTieredCache_DemotionToL2(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(1), NewMemoryStore(10), time.Minute,
		func(_ context.Context, key string) (*model.CustomerView, error) {
			return testView(key), nil
		})

	_, err := c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	// Second key pushes cust-1 out of the single-entry L1 into L2.
	_, err = c.GetOrCompute(ctx, "cust-2")
	require.NoError(t, err)

	stats := c.Stats(ctx)
	assert.Equal(t, 1, stats.L1Entries)
	assert.Equal(t, 1, stats.L2Entries)
	assert.Equal(t, int64(1), stats.Demotions)

	// cust-1 is still servable from L2 without recomputing.
	before := stats.Misses
	_, err = c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, before, c.Stats(ctx).Misses)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	c := New(NewMemoryStore(10), NewMemoryStore(10), time.Minute,
		func(_ context.Context, key string) (*model.CustomerView, error) {
			calls.Add(1)
			return testView(key), nil
		})

	_, err := c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	c.Invalidate(ctx, "cust-1")

	_, err = c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestRefresh_OverwritesCached(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	c := New(NewMemoryStore(10), nil, time.Minute,
		func(_ context.Context, key string) (*model.CustomerView, error) {
			calls.Add(1)
			return testView(key), nil
		})

	_, err := c.GetOrCompute(ctx, "cust-1")
	require.NoError(t, err)
	_, err = c.Refresh(ctx, "cust-1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, 1, c.Stats(ctx).L1Entries)
}
