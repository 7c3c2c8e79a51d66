package fetch

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
	"github.com/TheCreditPros/tilores-X-sub005/internal/resilience"
)

// PgxPool is the subset of *pgxpool.Pool the source needs; pgxmock
// satisfies it for tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresSource fetches raw records from the upstream customer_records
// table, where each row holds one source-system record as JSONB.
type PostgresSource struct {
	pool PgxPool
}

// NewPostgresSource creates a source over the given pool. Returns nil if
// pool is nil.
func NewPostgresSource(pool PgxPool) *PostgresSource {
	if pool == nil {
		return nil
	}
	return &PostgresSource{pool: pool}
}

// Close releases the underlying pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// FetchRecords resolves the identifier into its matching raw records, in
// the store's insertion order. An unreachable store or scan failure wraps
// ErrFetchFailed; zero matching rows is a valid empty result.
func (s *PostgresSource) FetchRecords(ctx context.Context, identifier string) ([]model.RawRecord, error) {
	query, args := buildQuery(ParseIdentifier(identifier))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		// Query submission fails on connection trouble, not on data; mark
		// it retryable so the warm path can try again.
		return nil, resilience.NewTransientError(
			eris.Wrapf(ErrFetchFailed, "fetch: query records for %q: %v", identifier, err))
	}
	defer rows.Close()

	var records []model.RawRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(ErrFetchFailed, "fetch: scan record row: %v", err)
		}
		var rec map[string]any
		if err := json.Unmarshal(data, &rec); err != nil {
			// A corrupt row is skipped, not fatal: record schemas are
			// heterogeneous and the pipeline tolerates missing records.
			zap.L().Warn("fetch: skipping undecodable record", zap.Error(err))
			continue
		}
		records = append(records, model.RawRecord(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(ErrFetchFailed, "fetch: iterate record rows: %v", err)
	}

	zap.L().Debug("fetch: records fetched",
		zap.String("identifier", identifier),
		zap.Int("count", len(records)),
	)
	return records, nil
}

// buildQuery maps a parsed identifier onto the customer_records schema.
func buildQuery(id Identifier) (string, []any) {
	const base = `SELECT record FROM customer_records WHERE `
	switch id.Kind {
	case KindEmail:
		return base + `lower(record->>'EMAIL') = $1 ORDER BY id`, []any{id.Value}
	case KindPhone:
		return base + `regexp_replace(record->>'PHONE_EXTERNAL', '\D', '', 'g') = regexp_replace($1, '\D', '', 'g') ORDER BY id`, []any{id.Value}
	case KindName:
		return base + `lower(record->>'FIRST_NAME') = lower($1) AND lower(record->>'LAST_NAME') = lower($2) ORDER BY id`, []any{id.FirstName, id.LastName}
	default:
		return base + `record->>'CLIENT_ID' = $1 ORDER BY id`, []any{id.Value}
	}
}
