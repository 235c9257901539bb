package storage

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "accounts",
		stmts: []string{`
		CREATE TABLE IF NOT EXISTS account (
			username TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			created_at TEXT NOT NULL,
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until TEXT
		)`},
	},
	{
		version: 2,
		name:    "refresh_log",
		stmts: []string{`
		CREATE TABLE IF NOT EXISTS refresh_log (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			triggered_by TEXT NOT NULL DEFAULT '',
			ok INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			items INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0
		)`,
			`CREATE INDEX IF NOT EXISTS idx_refresh_log_started ON refresh_log(started_at)`,
		},
	},
}

// LatestSchemaVersion returns the version of the newest migration.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for a fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every pending migration in order. When an existing file
// database is upgraded, a copy is kept next to it as <path>.bak-v<version>.
// PRE: db is open; path is the database file or ":memory:"
// POST: schema is at LatestSchemaVersion
func MigrateDB(db *sql.DB, path string) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current >= LatestSchemaVersion() {
		return nil
	}
	if current > 0 && path != "" && path != ":memory:" {
		if err := backupFile(path, fmt.Sprintf("%s.bak-v%d", path, current)); err != nil {
			return fmt.Errorf("backup before migration: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("db_event", "event", "migration_applied", "version", m.version, "name", m.name)
	}
	return nil
}

func backupFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
