package projections

import (
	"context"
	"errors"
	"fmt"
	"time"

	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/domain/cache"
	"matchhub/internal/domain/league"
	"matchhub/internal/domain/submission"
)

// recentAttemptWindow bounds how many log rows are scanned for failures.
const recentAttemptWindow = 20

// GetMatchOverviewQuery carries input for the match overview projection.
type GetMatchOverviewQuery struct {
	FocusTeam string    // defaults to league.FocusTeam
	Today     time.Time // in the league's time zone
}

// GetMatchOverviewDeps holds dependencies for the match overview projection.
type GetMatchOverviewDeps struct {
	Cache      cacheStore.Store
	Moods      MoodReader
	Accounts   AccountLister
	RefreshLog RefreshLogReader
}

// TeamSnapshot is one team's table row and recent form.
type TeamSnapshot struct {
	Team        string           `json:"team"`
	Code        string           `json:"code"`
	Row         league.Row       `json:"row,omitempty"`
	Form        *league.TeamForm `json:"form,omitempty"`
	FormUpdated string           `json:"form_updated,omitempty"`
}

// UserMood pairs a user with their survey for the next game, if any.
type UserMood struct {
	User string           `json:"user"`
	Name string           `json:"name"`
	Mood *submission.Mood `json:"mood,omitempty"`
}

// MatchOverviewResult carries the output of the match overview projection.
type MatchOverviewResult struct {
	FocusTeam        string          `json:"focus_team"`
	NextGame         *league.Fixture `json:"next_game,omitempty"`
	Focus            TeamSnapshot    `json:"focus"`
	Opponent         *TeamSnapshot   `json:"opponent,omitempty"`
	Moods            []UserMood      `json:"moods"`
	StandingsUpdated string          `json:"standings_updated,omitempty"`
	FixturesUpdated  string          `json:"fixtures_updated,omitempty"`
	Warnings         []string        `json:"warnings"`
}

// QueryGetMatchOverview assembles the start page from the caches: the next
// game of the focus team, both teams' table rows and form, both users' mood
// for that game and the failures of the last refresh.
// PRE: deps are valid and non-nil
// POST: missing caches become warnings, never errors
func QueryGetMatchOverview(ctx context.Context, query GetMatchOverviewQuery, deps GetMatchOverviewDeps) (MatchOverviewResult, error) {
	team := query.FocusTeam
	if team == "" {
		team = league.FocusTeam
	}
	result := MatchOverviewResult{FocusTeam: team, Moods: []UserMood{}, Warnings: []string{}}

	standings, err := cacheStore.Get[league.Table](ctx, deps.Cache, cache.KeyStandings)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		result.Warnings = append(result.Warnings, "Keine Tabelle im Cache. Bitte aktualisieren.")
	case err != nil:
		return result, err
	default:
		result.StandingsUpdated = standings.UpdatedAt
	}

	fixtures, err := cacheStore.Get[[]league.Fixture](ctx, deps.Cache, cache.KeyFixtures)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		result.Warnings = append(result.Warnings, "Kein Spielplan im Cache. Bitte aktualisieren.")
	case err != nil:
		return result, err
	default:
		result.FixturesUpdated = fixtures.UpdatedAt
	}

	result.Focus, err = snapshot(ctx, deps.Cache, standings.Data, team)
	if err != nil {
		return result, err
	}

	if next, ok := league.PickNextGame(fixtures.Data, team, query.Today); ok {
		result.NextGame = &next
		opp, err := snapshot(ctx, deps.Cache, standings.Data, next.Opponent(team))
		if err != nil {
			return result, err
		}
		result.Opponent = &opp

		result.Moods, err = gameMoods(ctx, deps, submission.Game{Date: next.Date, Home: next.Home, Away: next.Away})
		if err != nil {
			return result, err
		}
	} else if result.FixturesUpdated != "" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Kein kommendes Spiel für %s im Spielplan.", team))
	}

	failures, err := lastRefreshFailures(ctx, deps.RefreshLog)
	if err != nil {
		return result, err
	}
	result.Warnings = append(result.Warnings, failures...)
	return result, nil
}

func snapshot(ctx context.Context, store cacheStore.Store, table league.Table, team string) (TeamSnapshot, error) {
	s := TeamSnapshot{Team: team}
	s.Code, _ = league.ShortCode(team)
	if row, ok := league.FindTeamRow(table, team); ok {
		s.Row = row
	}
	form, err := cacheStore.Get[league.TeamForm](ctx, store, league.RecentCacheKey(team))
	switch {
	case errors.Is(err, cache.ErrNotFound):
	case err != nil:
		return s, err
	default:
		s.Form = &form.Data
		s.FormUpdated = form.UpdatedAt
	}
	return s, nil
}

func gameMoods(ctx context.Context, deps GetMatchOverviewDeps, g submission.Game) ([]UserMood, error) {
	accounts, err := deps.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	moods := make([]UserMood, 0, len(accounts))
	for _, a := range accounts {
		um := UserMood{User: a.Username, Name: a.DisplayName()}
		m, ok, err := deps.Moods.GetMood(ctx, a.Username, g)
		if err != nil {
			return nil, err
		}
		if ok {
			um.Mood = &m
		}
		moods = append(moods, um)
	}
	return moods, nil
}

// lastRefreshFailures reports each source whose newest attempt failed.
func lastRefreshFailures(ctx context.Context, log RefreshLogReader) ([]string, error) {
	attempts, err := log.ListRecent(ctx, recentAttemptWindow)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, a := range attempts {
		if seen[a.Source] {
			continue
		}
		seen[a.Source] = true
		if !a.OK {
			out = append(out, fmt.Sprintf("Letzte Aktualisierung von %s fehlgeschlagen: %s", a.Source, a.Error))
		}
	}
	return out, nil
}
