// Package league scrapes standings, fixtures and recent results from the
// DEL website.
package league

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Defaults for the season's pages.
const (
	DefaultStandingsURL    = "https://www.penny-del.org/statistik/saison-2025-26/hauptrunde/tabelle"
	DefaultFixturesURL     = "https://www.penny-del.org/statistik/saison-2025-26/hauptrunde/spielplan"
	DefaultTeamURLTemplate = "https://www.penny-del.org/teams/{slug}/uebersicht"
	DefaultUserAgent       = "matchhub/1.0 (private tool)"
	DefaultAcceptLanguage  = "de-DE,de;q=0.9,en;q=0.8"
	DefaultTimeout         = 25 * time.Second
)

const maxBodyBytes = 4 << 20

// Scrape errors
var (
	ErrStatus      = errors.New("unexpected HTTP status")
	ErrNoTable     = errors.New("no table found")
	ErrUnknownTeam = errors.New("no slug mapping for team")
)

// Config points the client at the league pages.
type Config struct {
	StandingsURL    string
	FixturesURL     string
	TeamURLTemplate string
	UserAgent       string
	AcceptLanguage  string
	Timeout         time.Duration
	Location        *time.Location
}

// Client fetches and parses league pages. No retries.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient fills empty config fields with defaults.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.StandingsURL == "" {
		cfg.StandingsURL = DefaultStandingsURL
	}
	if cfg.FixturesURL == "" {
		cfg.FixturesURL = DefaultFixturesURL
	}
	if cfg.TeamURLTemplate == "" {
		cfg.TeamURLTemplate = DefaultTeamURLTemplate
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = DefaultAcceptLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// TeamURL returns the overview page of slug.
func (c *Client) TeamURL(slug string) string {
	return strings.ReplaceAll(c.cfg.TeamURLTemplate, "{slug}", slug)
}

// fetch GETs url and parses the body as HTML.
// PRE: url is absolute
// POST: Returns the document root, or an error for transport failures and non-2xx
func (c *Client) fetch(ctx context.Context, url string) (*html.Node, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept-Language", c.cfg.AcceptLanguage)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	slog.Debug("scrape_event", "event", "page_fetched", "url", url, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, url, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}
