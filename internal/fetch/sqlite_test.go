package fetch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

func newTestSQLiteSource(t *testing.T) *SQLiteSource {
	t.Helper()
	s, err := OpenSQLiteSource(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSource_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteSource(t)

	seed := []model.RawRecord{
		{"CLIENT_ID": "cust-1", "EMAIL": "jane@example.com", "FIRST_NAME": "Jane", "LAST_NAME": "Doe"},
		{"CLIENT_ID": "cust-1", "TRANSACTION_AMOUNT": "49.95"},
		{"CLIENT_ID": "cust-2", "EMAIL": "other@example.com"},
	}
	for _, rec := range seed {
		require.NoError(t, s.InsertRecord(ctx, rec))
	}

	records, err := s.FetchRecords(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Insertion order is preserved.
	assert.Equal(t, "jane@example.com", records[0].Str("EMAIL"))
	assert.Equal(t, "49.95", records[1].Str("TRANSACTION_AMOUNT"))
}

func TestSQLiteSource_FetchByEmailAndName(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteSource(t)

	require.NoError(t, s.InsertRecord(ctx, model.RawRecord{
		"CLIENT_ID": "cust-1", "EMAIL": "jane@example.com",
		"FIRST_NAME": "Jane", "LAST_NAME": "Doe",
	}))

	byEmail, err := s.FetchRecords(ctx, "Jane@Example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)

	byName, err := s.FetchRecords(ctx, "jane doe")
	require.NoError(t, err)
	assert.Len(t, byName, 1)
}

func TestSQLiteSource_NoMatchesIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteSource(t)

	records, err := s.FetchRecords(ctx, "cust-404")
	require.NoError(t, err)
	assert.Empty(t, records)
}
