package fetch

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/TheCreditPros/tilores-X-sub005/internal/model"
)

// SQLiteSource fetches raw records from a local SQLite file. Intended for
// development and for replaying captured record batches in tests.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLiteSource opens (and migrates) a SQLite-backed record source at path.
func OpenSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: open sqlite %s", path)
	}
	s := &SQLiteSource{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSource) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS customer_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_email
			ON customer_records (lower(json_extract(record, '$.EMAIL')));
		CREATE INDEX IF NOT EXISTS idx_records_client_id
			ON customer_records (json_extract(record, '$.CLIENT_ID'));
	`)
	if err != nil {
		return eris.Wrap(err, "fetch: migrate sqlite record store")
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// InsertRecord stores a raw record, preserving insertion order. Used to
// seed development databases and test fixtures.
func (s *SQLiteSource) InsertRecord(ctx context.Context, rec model.RawRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "fetch: marshal record")
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO customer_records (record) VALUES (?)`, string(data)); err != nil {
		return eris.Wrap(err, "fetch: insert record")
	}
	return nil
}

// FetchRecords resolves the identifier into its matching raw records.
func (s *SQLiteSource) FetchRecords(ctx context.Context, identifier string) ([]model.RawRecord, error) {
	query, args := buildSQLiteQuery(ParseIdentifier(identifier))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(ErrFetchFailed, "fetch: query sqlite records for %q: %v", identifier, err)
	}
	defer rows.Close()

	var records []model.RawRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(ErrFetchFailed, "fetch: scan sqlite row: %v", err)
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			zap.L().Warn("fetch: skipping undecodable record", zap.Error(err))
			continue
		}
		records = append(records, model.RawRecord(rec))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(ErrFetchFailed, "fetch: iterate sqlite rows: %v", err)
	}
	return records, nil
}

func buildSQLiteQuery(id Identifier) (string, []any) {
	const base = `SELECT record FROM customer_records WHERE `
	switch id.Kind {
	case KindEmail:
		return base + `lower(json_extract(record, '$.EMAIL')) = ? ORDER BY id`, []any{id.Value}
	case KindPhone:
		return base + `json_extract(record, '$.PHONE_EXTERNAL') = ? ORDER BY id`, []any{id.Value}
	case KindName:
		return base + `lower(json_extract(record, '$.FIRST_NAME')) = lower(?) AND lower(json_extract(record, '$.LAST_NAME')) = lower(?) ORDER BY id`, []any{id.FirstName, id.LastName}
	default:
		return base + `json_extract(record, '$.CLIENT_ID') = ? ORDER BY id`, []any{id.Value}
	}
}
