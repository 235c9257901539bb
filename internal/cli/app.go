package cli

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	web "matchhub/internal/adapters/http"
	"matchhub/internal/adapters/http/perf"
	leagueClient "matchhub/internal/adapters/league"
	"matchhub/internal/adapters/storage"
	accountStore "matchhub/internal/adapters/storage/account"
	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/adapters/storage/content"
	refreshLogStore "matchhub/internal/adapters/storage/refreshlog"
	sessionStore "matchhub/internal/adapters/storage/session"
	submissionStore "matchhub/internal/adapters/storage/submission"
	"matchhub/internal/config"
)

// app bundles the opened database and the stores built on it.
type app struct {
	db        *sql.DB
	collector *perf.Collector
	loader    *content.CachedLoader // nil unless watch_content is set
	stores    *web.Stores
}

// openApp opens the SQLite database, migrates it and builds every store.
// PRE: c is validated
// POST: caller must Close the app
func openApp(c *config.Config) (*app, error) {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := c.DBPath()
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db, dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timed := storage.NewTimedDB(db, collector, c.SlowMs)
	// Without the watcher nothing would invalidate a cache, so every read
	// goes to disk.
	files := content.FileLoader{
		CurriculumPath: c.CurriculumPath(),
		GlossaryPath:   c.GlossaryPath(),
	}
	var source content.Source = files
	var loader *content.CachedLoader
	if c.WatchContent {
		loader = content.NewCachedLoader(files)
		source = loader
	}

	return &app{
		db:        db,
		collector: collector,
		loader:    loader,
		stores: &web.Stores{
			AccountStore:    accountStore.NewSQLiteStore(timed),
			SessionStore:    sessionStore.NewJSONStore(c.SessionsDir()),
			SubmissionStore: submissionStore.NewJSONStore(c.SubmissionsDir()),
			CacheStore:      cacheStore.NewJSONStore(c.CacheDir()),
			RefreshLogStore: refreshLogStore.NewSQLiteStore(timed),
			Content:         source,
		},
	}, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.db.Close()
}

// newFetcher builds the league scraper from the config.
func newFetcher(c *config.Config) *leagueClient.Client {
	return leagueClient.NewClient(leagueClient.Config{
		StandingsURL:    c.League.StandingsURL,
		FixturesURL:     c.League.FixturesURL,
		TeamURLTemplate: c.League.TeamURLTemplate,
		UserAgent:       c.League.UserAgent,
		Timeout:         c.League.Timeout,
		Location:        c.Location(),
	}, &http.Client{Timeout: c.League.Timeout})
}
