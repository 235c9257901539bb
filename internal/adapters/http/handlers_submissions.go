package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"matchhub/internal/application/listutil"
	"matchhub/internal/application/orchestrators"
	"matchhub/internal/application/projections"
	"matchhub/internal/domain/submission"
)

// gameFrom reads the date/home/away triple from a query or form.
func gameFrom(v url.Values) submission.Game {
	return submission.Game{
		Date: strings.TrimSpace(v.Get("date")),
		Home: strings.TrimSpace(v.Get("home")),
		Away: strings.TrimSpace(v.Get("away")),
	}
}

// gamePath returns path with the game preselected, so a failed submit keeps it.
func gamePath(path string, g submission.Game) string {
	v := url.Values{}
	v.Set("date", g.Date)
	v.Set("home", g.Home)
	v.Set("away", g.Away)
	return path + "?" + v.Encode()
}

// renderSubmissionForm renders the mood or observation form for the requested game.
func renderSubmissionForm(w http.ResponseWriter, r *http.Request, kind, templateName string) {
	result, err := projections.QueryGetSubmissionForm(r.Context(), projections.GetSubmissionFormQuery{
		User:  currentUser(r).Username,
		Kind:  kind,
		Game:  gameFrom(r.URL.Query()),
		Today: today(),
	}, projections.GetSubmissionFormDeps{
		Cache: stores.CacheStore,
		Store: stores.SubmissionStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, templateName, result)
}

// notifyPartner emails the other accounts when the user ticked the checkbox.
// Failures are logged; the submission itself already succeeded.
func notifyPartner(r *http.Request, subject, body, path string) {
	if r.FormValue("notify") == "" {
		return
	}
	link := ""
	if opts.BaseURL != "" {
		link = strings.TrimRight(opts.BaseURL, "/") + path
	}
	user := currentUser(r)
	_, err := orchestrators.ExecuteNotifyPartner(r.Context(), orchestrators.NotifyPartnerInput{
		User:    user.Username,
		Subject: subject,
		Body:    body,
		Link:    link,
	}, orchestrators.NotifyPartnerDeps{
		Accounts: stores.AccountStore,
		Sender:   opts.EmailSender,
	})
	if err != nil {
		slog.Warn("notify_event", "event", "send_failed", "user", user.Username, "error", err.Error())
	}
}

// handleMood handles GET (survey form) and POST (store survey) for /mood
func handleMood(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderSubmissionForm(w, r, submission.KindMood, "mood.html")

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			fail(w, r, errBadForm, "/mood")
			return
		}
		user := currentUser(r)
		game := gameFrom(r.PostForm)
		result, err := orchestrators.ExecuteSubmitMood(r.Context(), orchestrators.SubmitMoodInput{
			User:        user.Username,
			Game:        game,
			Nervousness: formInt(r, "nervousness"),
			Expectation: r.FormValue("expectation"),
			Mood:        formInt(r, "mood"),
			Importance:  formInt(r, "importance"),
			Focus:       r.FormValue("focus"),
			OneLiner:    r.FormValue("one_liner"),
		}, orchestrators.SubmitMoodDeps{Store: stores.SubmissionStore, Now: timeNow})
		if err != nil {
			fail(w, r, err, gamePath("/mood", game))
			return
		}

		notifyPartner(r,
			fmt.Sprintf("%s hat die Stimmung für %s vs %s abgegeben", user.DisplayName(), game.Home, game.Away),
			fmt.Sprintf("Erwartung: %s\nEinzeiler: %s", result.Mood.Expectation, result.Mood.OneLiner),
			"/submissions?kind="+submission.KindMood)

		if !isHTMLRequest(r) {
			writeJSON(w, http.StatusCreated, result)
			return
		}
		redirectFlash(w, r, gamePath("/mood", game), "ok", "Stimmung gespeichert.")

	default:
		methodNotAllowed(w)
	}
}

// handleObservations handles GET (form) and POST (store one period) for /observations
func handleObservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderSubmissionForm(w, r, submission.KindObservation, "observations.html")

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			fail(w, r, errBadForm, "/observations")
			return
		}
		user := currentUser(r)
		game := gameFrom(r.PostForm)
		period := r.FormValue("period")
		result, err := orchestrators.ExecuteSubmitObservation(r.Context(), orchestrators.SubmitObservationInput{
			User:   user.Username,
			Game:   game,
			Period: period,
			Notes: submission.PeriodNotes{
				DominantTeam: r.FormValue("dominant_team"),
				Forecheck:    r.FormValue("forecheck"),
				SpecialTeams: formInt(r, "special_teams"),
				KeyMoment:    r.FormValue("key_moment"),
				Note:         r.FormValue("note"),
			},
		}, orchestrators.SubmitObservationDeps{Store: stores.SubmissionStore, Now: timeNow})
		if err != nil {
			fail(w, r, err, gamePath("/observations", game))
			return
		}

		notifyPartner(r,
			fmt.Sprintf("%s hat Notizen zu %s (%s vs %s) gespeichert", user.DisplayName(), period, game.Home, game.Away),
			result.Observation.Periods[period].KeyMoment,
			"/submissions?kind="+submission.KindObservation)

		if !isHTMLRequest(r) {
			writeJSON(w, http.StatusCreated, result)
			return
		}
		redirectFlash(w, r, gamePath("/observations", game), "ok", fmt.Sprintf("Notizen für %s gespeichert.", period))

	default:
		methodNotAllowed(w)
	}
}

// handleSubmissions lists stored surveys or observations.
func handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryGetSubmissionList(r.Context(), projections.GetSubmissionListQuery{
		Kind: q.Get("kind"),
		User: listutil.Active(q.Get("user")),
		Page: listutil.ParsePageParams(q),
	}, projections.GetSubmissionListDeps{Store: stores.SubmissionStore})
	if err != nil {
		internalError(w, err)
		return
	}
	respond(w, r, "submissions.html", result)
}
