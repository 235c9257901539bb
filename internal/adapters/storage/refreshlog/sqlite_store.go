package refreshlog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"matchhub/internal/adapters/storage"
	domain "matchhub/internal/domain/refresh"
)

const selectColumns = "SELECT id, source, triggered_by, ok, error, items, started_at, duration_ms FROM refresh_log"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new refresh log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts an attempt.
// PRE: a has been validated
// POST: attempt is appended to the log
func (s *SQLiteStore) Save(ctx context.Context, a domain.Attempt) error {
	ok := 0
	if a.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_log (id, source, triggered_by, ok, error, items, started_at, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Source, a.TriggeredBy, ok, a.Error, a.Items,
		a.StartedAt.UTC().Format(time.RFC3339Nano), a.Duration.Milliseconds(),
	)
	return err
}

// ListRecent returns the newest attempts first.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LastSuccess returns the newest successful attempt for source.
func (s *SQLiteStore) LastSuccess(ctx context.Context, source string) (domain.Attempt, bool, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE source = ? AND ok = 1 ORDER BY started_at DESC LIMIT 1", source)
	a, err := scanAttempt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, false, nil
	}
	if err != nil {
		return domain.Attempt{}, false, err
	}
	return a, true, nil
}

func scanAttempt(scan func(dest ...any) error) (domain.Attempt, error) {
	var a domain.Attempt
	var ok int
	var startedAt string
	var durationMs int64
	if err := scan(&a.ID, &a.Source, &a.TriggeredBy, &ok, &a.Error, &a.Items, &startedAt, &durationMs); err != nil {
		return domain.Attempt{}, err
	}
	a.OK = ok == 1
	a.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	a.Duration = time.Duration(durationMs) * time.Millisecond
	return a, nil
}
