package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"matchhub/internal/adapters/http/middleware"
	"matchhub/internal/application/listutil"
	"matchhub/internal/application/orchestrators"
	"matchhub/internal/domain/account"
	"matchhub/internal/domain/drill"
	"matchhub/internal/domain/session"
	"matchhub/internal/domain/submission"
)

// timeNow is a variable for testability.
var timeNow = time.Now

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer renders glossary details and coaching feedback.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// today returns the current time in the league's time zone.
func today() time.Time {
	return timeNow().In(opts.Location)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "error", err.Error())
	}
}

// respond renders templateName for browsers and JSON for everything else.
func respond(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	if isHTMLRequest(r) {
		renderTemplate(w, r, templateName, data)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// currentUser returns the logged-in session. Routes behind RequireAuth always have one.
func currentUser(r *http.Request) middleware.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}

func methodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// Errors caused by the submitted data rather than the server.
var badRequestErrors = []error{
	session.ErrEmptyUser, session.ErrEmptyGame, session.ErrUnsafeGame, session.ErrEmptyModule, session.ErrInvalidRating,
	session.ErrInvalidPhase, session.ErrNotActive, session.ErrInvalidState,
	submission.ErrEmptyUser, submission.ErrEmptyGame, submission.ErrUnsafeGame, submission.ErrInvalidScale,
	submission.ErrInvalidExpectation, submission.ErrOneLinerTooLong, submission.ErrInvalidPeriod,
	submission.ErrNoPeriods, submission.ErrNoteTooLong, submission.ErrInvalidForecheck,
	drill.ErrRequiredAnswer, drill.ErrInvalidOption, drill.ErrNoQuestions, drill.ErrUnknownDrillType,
	orchestrators.ErrSameTeams, errBadForm,
}

var errBadForm = errors.New("invalid form submission")

// statusFor maps orchestrator errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, orchestrators.ErrDrillNotFound):
		return http.StatusNotFound
	case errors.Is(err, orchestrators.ErrNotSessionOwner):
		return http.StatusForbidden
	case errors.Is(err, session.ErrActiveSessionExists):
		return http.StatusConflict
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// fail reports an orchestrator error. Browsers are sent back to the form
// with the message; API clients get the status code.
func fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	if isHTMLRequest(r) {
		redirectFlash(w, r, back, "error", err.Error())
		return
	}
	http.Error(w, err.Error(), status)
}

// redirectFlash redirects to path with a one-off message in the query string.
func redirectFlash(w http.ResponseWriter, r *http.Request, path, kind, msg string) {
	target, err := url.Parse(path)
	if err != nil {
		target = &url.URL{Path: "/"}
	}
	q := target.Query()
	q.Set(kind, msg)
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	return n
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	q := r.URL.Query()

	funcMap := template.FuncMap{
		"currentUser":     func() string { return sess.Username },
		"currentName":     func() string { return sess.DisplayName() },
		"isLoggedIn":      func() bool { return loggedIn },
		"isAdmin":         func() bool { return sess.Role == account.RoleAdmin },
		"csrfField":       func() template.HTML { return csrf.TemplateField(r) },
		"flashOK":         func() string { return q.Get("ok") },
		"flashError":      func() string { return q.Get("error") },
		"renderMarkdown":  renderMarkdown,
		"phaseBadge":      session.PhaseBadge,
		"confidenceEmoji": session.ConfidenceEmoji,
		"stars":           session.HelpfulnessStars,
		"fieldName":       drill.FieldName,
		"add":             func(a, b int) int { return a + b },
		"sub":             func(a, b int) int { return a - b },
		"seq": func(lo, hi int) []int {
			var s []int
			for i := lo; i <= hi; i++ {
				s = append(s, i)
			}
			return s
		},
		"derefInt": func(p *int) string {
			if p == nil {
				return ""
			}
			return strconv.Itoa(*p)
		},
		"pageQuery": func(page, perPage int, filters map[string]string) template.URL {
			v := url.Values{}
			for k, f := range filters {
				if f != "" && f != listutil.All {
					v.Set(k, f)
				}
			}
			v.Set("page", strconv.Itoa(page))
			v.Set("per_page", strconv.Itoa(perPage))
			return template.URL(v.Encode())
		},
		"unix": func(t time.Time) int64 { return t.Unix() },
		"dict": func(kv ...string) map[string]string {
			m := make(map[string]string, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				m[kv[i]] = kv[i+1]
			}
			return m
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, fmt.Errorf("parse template %s: %w", templateName, err))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render template %s: %w", templateName, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// handleHealthz reports liveness for the process supervisor.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{"Error": "", "Username": ""})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}, orchestrators.LoginDeps{AccountStore: stores.AccountStore, Now: timeNow})
		if err != nil {
			if !errors.Is(err, orchestrators.ErrInvalidCredentials) && !errors.Is(err, orchestrators.ErrAccountLocked) {
				internalError(w, err)
				return
			}
			if !isHTMLRequest(r) {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
				"Error":    err.Error(),
				"Username": r.FormValue("username"),
			})
			return
		}

		token, err := sessions.Create(result.Username, result.Name, result.Role)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token, opts.SessionTTL)
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		methodNotAllowed(w)
	}
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handlePerf returns request and query timings. Admins only.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if currentUser(r).Role != account.RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-time.Duration(minutes)*time.Minute), 10))
}
