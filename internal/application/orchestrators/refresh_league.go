package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/domain/cache"
	"matchhub/internal/domain/league"
	"matchhub/internal/domain/refresh"
)

// LeagueFetcher scrapes the league site.
type LeagueFetcher interface {
	FetchStandings(ctx context.Context) (league.Table, error)
	FetchFixtures(ctx context.Context) ([]league.Fixture, error)
	FetchRecent(ctx context.Context, team string) (league.TeamForm, error)
}

// RefreshLogWriter records scrape attempts.
type RefreshLogWriter interface {
	Save(ctx context.Context, a refresh.Attempt) error
}

// RefreshLeagueInput carries who asked for the refresh.
type RefreshLeagueInput struct {
	TriggeredBy string // username or "cli"
	FocusTeam   string // defaults to league.FocusTeam
}

// RefreshLeagueDeps holds dependencies for RefreshLeague.
type RefreshLeagueDeps struct {
	Fetcher    LeagueFetcher
	Cache      cacheStore.Store
	RefreshLog RefreshLogWriter
	GenerateID func() string
	Now        func() time.Time
	Location   *time.Location
}

// RefreshLeagueReport summarises one refresh run.
type RefreshLeagueReport struct {
	Standings int // table rows
	Fixtures  int
	NextGame  *league.Fixture
	Opponent  string
	Warnings  []string
	Attempts  []refresh.Attempt
}

// ExecuteRefreshLeague scrapes standings, fixtures and the focus team's recent
// results concurrently, then the recent results of the next opponent.
// A failed scrape keeps the previous cache file and becomes a warning.
// PRE: Fetcher, Cache and RefreshLog are set
// POST: every attempt is in the refresh log; successful scrapes are cached
func ExecuteRefreshLeague(ctx context.Context, input RefreshLeagueInput, deps RefreshLeagueDeps) (RefreshLeagueReport, error) {
	team := input.FocusTeam
	if team == "" {
		team = league.FocusTeam
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	run := &refreshRun{deps: deps, loc: loc, triggeredBy: input.TriggeredBy}

	var fixtures []league.Fixture
	fixturesOK := false

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return run.scrape(gctx, refresh.SourceStandings, "Tabelle", func(ctx context.Context) (int, error) {
			table, err := deps.Fetcher.FetchStandings(ctx)
			if err != nil {
				return 0, err
			}
			if _, err := cacheStore.Put(ctx, deps.Cache, cache.KeyStandings, table, deps.Now(), loc); err != nil {
				return 0, errCacheWrite{err}
			}
			run.mu.Lock()
			run.report.Standings = len(table.Rows)
			run.mu.Unlock()
			return len(table.Rows), nil
		})
	})
	g.Go(func() error {
		return run.scrape(gctx, refresh.SourceFixtures, "Spielplan", func(ctx context.Context) (int, error) {
			got, err := deps.Fetcher.FetchFixtures(ctx)
			if err != nil {
				return 0, err
			}
			if _, err := cacheStore.Put(ctx, deps.Cache, cache.KeyFixtures, got, deps.Now(), loc); err != nil {
				return 0, errCacheWrite{err}
			}
			run.mu.Lock()
			fixtures, fixturesOK = got, true
			run.report.Fixtures = len(got)
			run.mu.Unlock()
			return len(got), nil
		})
	})
	g.Go(func() error {
		return run.scrapeRecent(gctx, team)
	})
	if err := g.Wait(); err != nil {
		return run.report, err
	}

	if !fixturesOK {
		cached, err := cacheStore.Get[[]league.Fixture](ctx, deps.Cache, cache.KeyFixtures)
		if err != nil && !errors.Is(err, cache.ErrNotFound) {
			return run.report, err
		}
		fixtures = cached.Data
	}

	if next, ok := league.PickNextGame(fixtures, team, deps.Now().In(loc)); ok {
		opponent := next.Opponent(team)
		run.report.NextGame = &next
		run.report.Opponent = opponent
		if err := run.scrapeRecent(ctx, opponent); err != nil {
			return run.report, err
		}
	}

	slog.Info("refresh_event", "event", "league_refreshed", "triggered_by", input.TriggeredBy, "attempts", len(run.report.Attempts), "warnings", len(run.report.Warnings))
	return run.report, nil
}

// errCacheWrite marks failures that must abort the run rather than become warnings.
type errCacheWrite struct{ err error }

func (e errCacheWrite) Error() string { return e.err.Error() }
func (e errCacheWrite) Unwrap() error { return e.err }

type refreshRun struct {
	deps        RefreshLeagueDeps
	loc         *time.Location
	triggeredBy string

	mu     sync.Mutex
	report RefreshLeagueReport
}

func (r *refreshRun) scrapeRecent(ctx context.Context, team string) error {
	return r.scrape(ctx, refresh.RecentSource(team), "Letzte Spiele "+team, func(ctx context.Context) (int, error) {
		form, err := r.deps.Fetcher.FetchRecent(ctx, team)
		if err != nil {
			return 0, err
		}
		if _, err := cacheStore.Put(ctx, r.deps.Cache, league.RecentCacheKey(team), form, r.deps.Now(), r.loc); err != nil {
			return 0, errCacheWrite{err}
		}
		return len(form.RecentGames), nil
	})
}

// scrape runs fetch and logs the attempt. Scrape failures become warnings;
// only cache and refresh log failures are returned.
func (r *refreshRun) scrape(ctx context.Context, source, label string, fetch func(context.Context) (int, error)) error {
	start := r.deps.Now()
	items, err := fetch(ctx)
	var cacheErr errCacheWrite
	if errors.As(err, &cacheErr) {
		return cacheErr.err
	}

	attempt := refresh.Attempt{
		ID:          r.deps.GenerateID(),
		Source:      source,
		TriggeredBy: r.triggeredBy,
		OK:          err == nil,
		Items:       items,
		StartedAt:   start,
		Duration:    r.deps.Now().Sub(start),
	}
	if err != nil {
		attempt.Error = err.Error()
		slog.Warn("refresh_event", "event", "scrape_failed", "source", source, "error", err)
	}
	if saveErr := r.deps.RefreshLog.Save(ctx, attempt); saveErr != nil {
		return fmt.Errorf("record %s attempt: %w", source, saveErr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Attempts = append(r.report.Attempts, attempt)
	if err != nil {
		r.report.Warnings = append(r.report.Warnings, fmt.Sprintf("%s konnte nicht geladen werden: %v", label, err))
	}
	return nil
}
