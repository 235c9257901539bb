package refresh

import (
	"errors"
	"time"
)

// Sources of a league refresh.
const (
	SourceStandings = "standings"
	SourceFixtures  = "fixtures"
	SourceRecent    = "recent"
)

// Domain errors
var (
	ErrEmptySource = errors.New("refresh source is required")
	ErrEmptyID     = errors.New("refresh id is required")
)

// Attempt records one scrape of one source.
type Attempt struct {
	ID          string
	Source      string // standings, fixtures or "recent:<team>"
	TriggeredBy string // username or "cli"
	OK          bool
	Error       string
	Items       int
	StartedAt   time.Time
	Duration    time.Duration
}

// Validate checks the attempt.
// PRE: Attempt struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Attempt) Validate() error {
	if a.ID == "" {
		return ErrEmptyID
	}
	if a.Source == "" {
		return ErrEmptySource
	}
	return nil
}

// RecentSource labels the recent-results scrape of team.
func RecentSource(team string) string {
	return SourceRecent + ":" + team
}
