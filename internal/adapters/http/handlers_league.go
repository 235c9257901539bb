package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"matchhub/internal/application/orchestrators"
	"matchhub/internal/application/projections"
)

// handleOverview renders the start page: next game, both teams, moods.
func handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	result, err := projections.QueryGetMatchOverview(r.Context(), projections.GetMatchOverviewQuery{
		FocusTeam: opts.FocusTeam,
		Today:     today(),
	}, projections.GetMatchOverviewDeps{
		Cache:      stores.CacheStore,
		Moods:      stores.SubmissionStore,
		Accounts:   stores.AccountStore,
		RefreshLog: stores.RefreshLogStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "overview.html", result)
}

// handleRefresh handles POST /refresh: scrape the league site into the caches.
func handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if opts.Fetcher == nil {
		http.Error(w, "league refresh is not configured", http.StatusServiceUnavailable)
		return
	}

	user := currentUser(r)
	report, err := orchestrators.ExecuteRefreshLeague(r.Context(), orchestrators.RefreshLeagueInput{
		TriggeredBy: user.Username,
		FocusTeam:   opts.FocusTeam,
	}, orchestrators.RefreshLeagueDeps{
		Fetcher:    opts.Fetcher,
		Cache:      stores.CacheStore,
		RefreshLog: stores.RefreshLogStore,
		GenerateID: generateID,
		Now:        timeNow,
		Location:   opts.Location,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	slog.Info("league_event", "event", "refresh_requested", "user", user.Username, "warnings", len(report.Warnings))

	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, report)
		return
	}
	if len(report.Warnings) > 0 {
		redirectFlash(w, r, "/", "error", fmt.Sprintf("Aktualisiert mit %d Warnung(en).", len(report.Warnings)))
		return
	}
	redirectFlash(w, r, "/", "ok", fmt.Sprintf("Daten aktualisiert: %d Tabellenzeilen, %d Spiele.", report.Standings, report.Fixtures))
}

// handleStandings renders the cached league table.
func handleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	result, err := projections.QueryGetStandings(r.Context(), projections.GetStandingsDeps{Cache: stores.CacheStore})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "standings.html", result)
}

// handleFixtures renders the cached schedule, optionally for one team and upcoming only.
func handleFixtures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryGetFixtures(r.Context(), projections.GetFixturesQuery{
		Team:     q.Get("team"),
		Upcoming: q.Get("upcoming") == "1",
		Today:    today(),
	}, projections.GetFixturesDeps{Cache: stores.CacheStore})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "fixtures.html", result)
}
