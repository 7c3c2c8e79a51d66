package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

type stubSource struct {
	calls   int
	records []model.RawRecord
}

func (s *stubSource) FetchRecords(context.Context, string) ([]model.RawRecord, error) {
	s.calls++
	return s.records, nil
}

func TestRateLimited_Delegates(t *testing.T) {
	ctx := context.Background()
	stub := &stubSource{records: []model.RawRecord{{"CLIENT_ID": "cust-1"}}}
	rl := NewRateLimited(stub, 100, 10)

	records, err := rl.FetchRecords(ctx, "cust-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, stub.calls)
}

func TestRateLimited_Throttles(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimited(&stubSource{}, 50, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := rl.FetchRecords(ctx, "cust-1")
		require.NoError(t, err)
	}
	// Burst of 1 at 50/s: the second and third calls wait ~20ms each.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRateLimited_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rl := NewRateLimited(&stubSource{}, 0.001, 0)
	_, err := rl.FetchRecords(ctx, "cust-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
