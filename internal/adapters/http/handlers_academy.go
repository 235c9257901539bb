package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sessionStore "matchhub/internal/adapters/storage/session"
	"matchhub/internal/application/listutil"
	"matchhub/internal/application/orchestrators"
	"matchhub/internal/application/projections"
	"matchhub/internal/domain/session"
)

// handleCurriculum renders the tracks, modules and drills, optionally for one track.
func handleCurriculum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	result, err := projections.QueryGetCurriculumOverview(r.Context(), projections.GetCurriculumOverviewQuery{
		TrackID: r.URL.Query().Get("track"),
	}, projections.GetCurriculumOverviewDeps{Curriculum: stores.Content})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "curriculum.html", result)
}

// handleCurriculumSelect handles POST /academy/curriculum/select: hand a drill to the trainer.
func handleCurriculumSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		fail(w, r, errBadForm, "/academy/curriculum")
		return
	}
	v := url.Values{}
	v.Set("module", r.FormValue("module"))
	if d := r.FormValue("drill"); d != "" {
		v.Set("drill", d)
	}
	http.Redirect(w, r, "/academy/trainer?"+v.Encode(), http.StatusSeeOther)
}

// handleTrainer renders the setup form, or the running session's next drill.
func handleTrainer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryGetTrainer(r.Context(), projections.GetTrainerQuery{
		User:     currentUser(r).Username,
		Name:     currentUser(r).Name,
		ModuleID: q.Get("module"),
		DrillID:  q.Get("drill"),
		Today:    today(),
	}, projections.GetTrainerDeps{
		Sessions:   stores.SessionStore,
		Curriculum: stores.Content,
		Registry:   opts.Registry,
		Cache:      stores.CacheStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}
	// The quiz timer starts when the page is rendered.
	renderTemplate(w, r, "trainer.html", struct {
		projections.TrainerResult
		RenderedAt int64
	}{result, timeNow().Unix()})
}

// handleSessions handles GET (own sessions) and POST (start a session) for /academy/sessions
func handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		user := currentUser(r).Username
		if isHTMLRequest(r) {
			http.Redirect(w, r, "/academy/history?"+projections.FilterUser+"="+url.QueryEscape(user), http.StatusSeeOther)
			return
		}
		list, err := stores.SessionStore.List(r.Context(), sessionStore.ListFilter{
			User:  user,
			State: r.URL.Query().Get("state"),
		})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			fail(w, r, errBadForm, "/academy/trainer")
			return
		}
		moduleID := r.FormValue("module")
		s, err := orchestrators.ExecuteStartSession(r.Context(), orchestrators.StartSessionInput{
			User: currentUser(r).Username,
			Game: session.Game{
				Date:   strings.TrimSpace(r.FormValue("date")),
				League: strings.TrimSpace(r.FormValue("league")),
				Home:   strings.TrimSpace(r.FormValue("home")),
				Away:   strings.TrimSpace(r.FormValue("away")),
			},
			ModuleID:   moduleID,
			DrillID:    r.FormValue("drill"),
			Goal:       r.FormValue("goal"),
			CustomGoal: r.FormValue("custom_goal"),
			Confidence: formInt(r, "confidence"),
		}, orchestrators.StartSessionDeps{
			SessionStore: stores.SessionStore,
			Curriculum:   stores.Content,
			Now:          timeNow,
		})
		if err != nil {
			fail(w, r, err, "/academy/trainer?module="+url.QueryEscape(moduleID))
			return
		}
		if !isHTMLRequest(r) {
			writeJSON(w, http.StatusCreated, s)
			return
		}
		redirectFlash(w, r, "/academy/trainer", "ok", "Session gestartet.")

	default:
		methodNotAllowed(w)
	}
}

// handleSessionCheckIn handles POST /academy/sessions/checkin: evaluate one drill form.
func handleSessionCheckIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		fail(w, r, errBadForm, "/academy/trainer")
		return
	}
	var startedAt time.Time
	if ts, err := strconv.ParseInt(r.FormValue("started_at"), 10, 64); err == nil && ts > 0 {
		startedAt = time.Unix(ts, 0)
	}
	result, err := orchestrators.ExecuteRecordCheckIn(r.Context(), orchestrators.RecordCheckInInput{
		User:      currentUser(r).Username,
		Name:      currentUser(r).Name,
		SessionID: r.FormValue("session_id"),
		Phase:     r.FormValue("phase"),
		Form:      r.PostForm,
		StartedAt: startedAt,
	}, orchestrators.RecordCheckInDeps{
		SessionStore: stores.SessionStore,
		Curriculum:   stores.Content,
		Registry:     opts.Registry,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		fail(w, r, err, "/academy/trainer")
		return
	}
	respond(w, r, "checkin_result.html", &result)
}

// handleSessionComplete handles POST /academy/sessions/complete: store the reflection.
func handleSessionComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		fail(w, r, errBadForm, "/academy/trainer")
		return
	}
	s, err := orchestrators.ExecuteCompleteSession(r.Context(), orchestrators.CompleteSessionInput{
		User:        currentUser(r).Username,
		SessionID:   r.FormValue("session_id"),
		Summary:     r.FormValue("summary"),
		Unclear:     r.FormValue("unclear"),
		NextModule:  r.FormValue("next_module"),
		Helpfulness: formInt(r, "helpfulness"),
	}, orchestrators.SessionLifecycleDeps{SessionStore: stores.SessionStore, Now: timeNow})
	if err != nil {
		fail(w, r, err, "/academy/trainer")
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, s)
		return
	}
	redirectFlash(w, r, "/academy/progress", "ok", fmt.Sprintf("Session %s abgeschlossen.", s.SessionID))
}

// handleSessionCancel handles POST /academy/sessions/cancel
func handleSessionCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		fail(w, r, errBadForm, "/academy/trainer")
		return
	}
	s, err := orchestrators.ExecuteCancelSession(r.Context(), orchestrators.CancelSessionInput{
		User:      currentUser(r).Username,
		SessionID: r.FormValue("session_id"),
	}, orchestrators.SessionLifecycleDeps{SessionStore: stores.SessionStore, Now: timeNow})
	if err != nil {
		fail(w, r, err, "/academy/trainer")
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, s)
		return
	}
	redirectFlash(w, r, "/academy/trainer", "ok", "Session abgebrochen.")
}

// handleHistory lists every session with user, module and state filters.
func handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryGetHistory(r.Context(), projections.GetHistoryQuery{
		Filters: listutil.ParseFilters(q, projections.HistoryFilterKeys...),
		Page:    listutil.ParsePageParams(q),
	}, projections.GetHistoryDeps{Sessions: stores.SessionStore, Curriculum: stores.Content})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "history.html", result)
}

// handleProgress shows the user's sessions per module and track.
func handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	result, err := projections.QueryGetProgress(r.Context(), projections.GetProgressQuery{
		User: currentUser(r).Username,
	}, projections.GetProgressDeps{Sessions: stores.SessionStore, Curriculum: stores.Content})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "progress.html", result)
}

// handleGlossary renders the searchable glossary.
func handleGlossary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	result, err := projections.QueryGetGlossary(r.Context(), projections.GetGlossaryQuery{
		Search: r.URL.Query().Get("q"),
	}, projections.GetGlossaryDeps{Glossary: stores.Content})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "glossary.html", result)
}
