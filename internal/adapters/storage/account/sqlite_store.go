package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchhub/internal/adapters/storage"
	domain "matchhub/internal/domain/account"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const selectColumns = "SELECT username, name, email, password_hash, role, created_at, failed_logins, locked_until FROM account"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves an Account by its username.
// PRE: username is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE username = ?", username)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	return entity, err
}

// Save upserts an Account.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	fields := []string{"username", "name", "email", "password_hash", "role", "created_at", "failed_logins", "locked_until"}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	updates := []string{
		"name=excluded.name",
		"email=excluded.email",
		"password_hash=excluded.password_hash",
		"role=excluded.role",
		"failed_logins=excluded.failed_logins",
		"locked_until=excluded.locked_until",
	}
	query := fmt.Sprintf(
		"INSERT INTO account (%s) VALUES (%s) ON CONFLICT(username) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)

	var lockedUntil any
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.UTC().Format(timeLayout)
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.Username,
		entity.Name,
		entity.Email,
		entity.PasswordHash,
		entity.Role,
		entity.CreatedAt.UTC().Format(timeLayout),
		entity.FailedLogins,
		lockedUntil,
	)
	return err
}

// List returns all accounts ordered by username.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.Username,
		&entity.Name,
		&entity.Email,
		&entity.PasswordHash,
		&entity.Role,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = time.Parse(time.RFC3339Nano, lockedUntil.String)
	}
	return entity, nil
}
