package web

import (
	"net/http"

	"matchhub/internal/adapters/http/middleware"
)

// authed wraps a handler so anonymous requests never reach it.
func authed(h http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(h)
}

// registerRoutes maps every page and endpoint onto mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)

	// League
	mux.Handle("/", authed(handleOverview))
	mux.Handle("/refresh", authed(handleRefresh))
	mux.Handle("/standings", authed(handleStandings))
	mux.Handle("/fixtures", authed(handleFixtures))

	// Submissions
	mux.Handle("/mood", authed(handleMood))
	mux.Handle("/observations", authed(handleObservations))
	mux.Handle("/submissions", authed(handleSubmissions))

	// Academy
	mux.Handle("/academy/curriculum", authed(handleCurriculum))
	mux.Handle("/academy/curriculum/select", authed(handleCurriculumSelect))
	mux.Handle("/academy/trainer", authed(handleTrainer))
	mux.Handle("/academy/sessions", authed(handleSessions))
	mux.Handle("/academy/sessions/checkin", authed(handleSessionCheckIn))
	mux.Handle("/academy/sessions/complete", authed(handleSessionComplete))
	mux.Handle("/academy/sessions/cancel", authed(handleSessionCancel))
	mux.Handle("/academy/history", authed(handleHistory))
	mux.Handle("/academy/progress", authed(handleProgress))
	mux.Handle("/academy/glossary", authed(handleGlossary))

	mux.Handle("/api/perf", authed(handlePerf))
}
