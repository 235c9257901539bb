// Package web serves the MatchHub pages and their JSON variants.
package web

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"matchhub/internal/adapters/email"
	"matchhub/internal/adapters/http/middleware"
	"matchhub/internal/adapters/http/perf"
	accountStore "matchhub/internal/adapters/storage/account"
	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/adapters/storage/content"
	refreshLogStore "matchhub/internal/adapters/storage/refreshlog"
	sessionStore "matchhub/internal/adapters/storage/session"
	submissionStore "matchhub/internal/adapters/storage/submission"
	"matchhub/internal/application/orchestrators"
	"matchhub/internal/domain/drill"
	"matchhub/internal/domain/league"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	SessionStore    sessionStore.Store
	SubmissionStore submissionStore.Store
	CacheStore      cacheStore.Store
	RefreshLogStore refreshLogStore.Store
	Content         content.Source
}

// Options configures the application behind the handlers.
type Options struct {
	FocusTeam          string
	Location           *time.Location
	Fetcher            orchestrators.LeagueFetcher
	Registry           *drill.Registry
	EmailSender        email.Sender // nil disables partner notifications
	BaseURL            string       // used for links in emails
	CSRFKey            []byte       // 32 bytes; random per start when empty
	Production         bool
	TrustedOrigins     []string
	RateLimitPerSecond int
	SessionTTL         time.Duration
	SlowRequestMs      int
	StaticDir          string
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global application options (set by NewMux)
var opts Options

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// csrfKey returns the configured key or a random one for development.
func csrfKey(o Options) []byte {
	if len(o.CSRFKey) == 32 {
		return o.CSRFKey
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("generate csrf key: " + err.Error())
	}
	slog.Warn("config_event", "event", "random_csrf_key", "detail", "form tokens do not survive a restart; set MATCHHUB_CSRF_KEY")
	return key
}

// withDefaults fills the options the handlers rely on.
func withDefaults(o Options) Options {
	if o.FocusTeam == "" {
		o.FocusTeam = league.FocusTeam
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Registry == nil {
		o.Registry = drill.DefaultRegistry()
	}
	if o.RateLimitPerSecond <= 0 {
		o.RateLimitPerSecond = 10
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = middleware.DefaultSessionTTL
	}
	if o.StaticDir == "" {
		o.StaticDir = "static"
	}
	return o
}

// NewMux wires HTTP handlers for the app.
// PRE: s has every store set; o.Production requires a 32-byte CSRFKey
// POST: returns the fully wrapped handler
func NewMux(s *Stores, o Options, collector *perf.Collector) http.Handler {
	stores = s
	opts = withDefaults(o)
	perfCollector = collector
	sessions = middleware.NewSessionStore(opts.SessionTTL)
	middleware.SecureCookies = opts.Production

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(opts.RateLimitPerSecond, time.Second)

	// Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey(opts), opts.Production, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.Timing(collector, opts.SlowRequestMs),
	)
}
