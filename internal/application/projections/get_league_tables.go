package projections

import (
	"context"
	"errors"
	"time"

	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/domain/cache"
	"matchhub/internal/domain/league"
)

// GetStandingsDeps holds dependencies for the standings projection.
type GetStandingsDeps struct {
	Cache cacheStore.Store
}

// StandingsResult carries the cached table.
type StandingsResult struct {
	Available bool         `json:"available"`
	UpdatedAt string       `json:"updated_at,omitempty"`
	Table     league.Table `json:"table"`
	FocusTeam string       `json:"focus_team"`
	FocusCode string       `json:"focus_code"`
}

// QueryGetStandings reads the cached standings.
// PRE: deps are valid and non-nil
// POST: Available is false when nothing was cached yet
func QueryGetStandings(ctx context.Context, deps GetStandingsDeps) (StandingsResult, error) {
	code, _ := league.ShortCode(league.FocusTeam)
	result := StandingsResult{FocusTeam: league.FocusTeam, FocusCode: code, Table: league.Table{Columns: []string{}, Rows: []league.Row{}}}

	entry, err := cacheStore.Get[league.Table](ctx, deps.Cache, cache.KeyStandings)
	if errors.Is(err, cache.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return result, err
	}
	result.Available = true
	result.UpdatedAt = entry.UpdatedAt
	result.Table = entry.Data
	return result, nil
}

// GetFixturesQuery carries input for the fixtures projection.
type GetFixturesQuery struct {
	Team     string    // full team name; empty lists every game
	Upcoming bool      // only games on or after Today
	Today    time.Time // in the league's time zone
}

// GetFixturesDeps holds dependencies for the fixtures projection.
type GetFixturesDeps struct {
	Cache cacheStore.Store
}

// FixturesResult carries the filtered schedule.
type FixturesResult struct {
	Available bool             `json:"available"`
	UpdatedAt string           `json:"updated_at,omitempty"`
	Fixtures  []league.Fixture `json:"fixtures"`
	Teams     []string         `json:"teams"`
	Team      string           `json:"team"`
	Upcoming  bool             `json:"upcoming"`
}

// QueryGetFixtures reads the cached schedule and filters it by team and date.
// PRE: deps are valid and non-nil
// POST: fixtures keep the cached order
func QueryGetFixtures(ctx context.Context, query GetFixturesQuery, deps GetFixturesDeps) (FixturesResult, error) {
	result := FixturesResult{Fixtures: []league.Fixture{}, Teams: league.TeamNames(), Team: query.Team, Upcoming: query.Upcoming}

	entry, err := cacheStore.Get[[]league.Fixture](ctx, deps.Cache, cache.KeyFixtures)
	if errors.Is(err, cache.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return result, err
	}
	result.Available = true
	result.UpdatedAt = entry.UpdatedAt

	today := query.Today.Format(league.DateLayout)
	for _, f := range entry.Data {
		if query.Team != "" && !f.Involves(query.Team) {
			continue
		}
		if query.Upcoming && f.Date < today {
			continue
		}
		result.Fixtures = append(result.Fixtures, f)
	}
	return result, nil
}
