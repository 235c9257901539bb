package submission

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Kinds of submissions; each kind is stored in its own directory.
const (
	KindMood        = "mood"
	KindObservation = "observation"
)

// MaxOneLinerLength bounds the mood one-liner (runes).
const MaxOneLinerLength = 120

// MaxNoteLength bounds free-text observation fields (runes).
const MaxNoteLength = 500

// Periods accepted for observations.
var Periods = []string{"P1", "P2", "P3"}

// ExpectationOptions are the choices for the expected result.
var ExpectationOptions = []string{"Sieg", "Sieg n.V./n.P.", "Niederlage n.V./n.P.", "Niederlage"}

// ForecheckOptions are the choices for the observed forecheck.
var ForecheckOptions = []string{"aggressiv", "gemischt", "passiv"}

// Domain errors
var (
	ErrEmptyUser          = errors.New("user is required")
	ErrEmptyGame          = errors.New("game date, home and away are required")
	ErrUnsafeGame         = errors.New("game date, home and away cannot contain path separators or \"..\"")
	ErrInvalidScale       = errors.New("value must be between 1 and 5")
	ErrInvalidExpectation = errors.New("unknown expectation")
	ErrOneLinerTooLong    = errors.New("one-liner cannot exceed 120 characters")
	ErrInvalidPeriod      = errors.New("period must be P1, P2 or P3")
	ErrNoPeriods          = errors.New("observation needs at least one period")
	ErrNoteTooLong        = errors.New("note cannot exceed 500 characters")
	ErrInvalidForecheck   = errors.New("unknown forecheck option")
)

// Game identifies the match a submission belongs to.
type Game struct {
	Date string `json:"date"`
	Home string `json:"home"`
	Away string `json:"away"`
}

// Validate checks that the game is fully identified. The parts end up in a
// file name, so separators and ".." are rejected.
func (g Game) Validate() error {
	if g.Date == "" || g.Home == "" || g.Away == "" {
		return ErrEmptyGame
	}
	for _, part := range []string{g.Date, g.Home, g.Away} {
		if strings.ContainsAny(part, `/\`) || strings.Contains(part, "..") {
			return fmt.Errorf("%w: %q", ErrUnsafeGame, part)
		}
	}
	return nil
}

// Mood is a pre-match survey.
type Mood struct {
	User        string    `json:"user"`
	Game        Game      `json:"game"`
	Nervousness int       `json:"nervousness"`
	Expectation string    `json:"expectation"`
	Mood        int       `json:"mood"`
	Importance  int       `json:"importance"`
	Focus       string    `json:"focus"`
	OneLiner    string    `json:"one_liner"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Validate checks the survey values.
// PRE: Mood struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Mood) Validate() error {
	if m.User == "" {
		return ErrEmptyUser
	}
	if err := m.Game.Validate(); err != nil {
		return err
	}
	for _, v := range []int{m.Nervousness, m.Mood, m.Importance} {
		if !validScale(v) {
			return ErrInvalidScale
		}
	}
	if m.Expectation != "" && !contains(ExpectationOptions, m.Expectation) {
		return ErrInvalidExpectation
	}
	if utf8.RuneCountInString(m.OneLiner) > MaxOneLinerLength {
		return ErrOneLinerTooLong
	}
	return nil
}

// PeriodNotes are the tactical notes for one period.
type PeriodNotes struct {
	DominantTeam string `json:"dominant_team"`
	Forecheck    string `json:"forecheck"`
	SpecialTeams int    `json:"special_teams"`
	KeyMoment    string `json:"key_moment"`
	Note         string `json:"note"`
}

// Validate checks one period's notes.
func (p PeriodNotes) Validate() error {
	if p.SpecialTeams != 0 && !validScale(p.SpecialTeams) {
		return ErrInvalidScale
	}
	if p.Forecheck != "" && !contains(ForecheckOptions, p.Forecheck) {
		return ErrInvalidForecheck
	}
	if utf8.RuneCountInString(p.KeyMoment) > MaxNoteLength || utf8.RuneCountInString(p.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// Observation collects per-period notes of one user for one game.
type Observation struct {
	User        string                 `json:"user"`
	Game        Game                   `json:"game"`
	Periods     map[string]PeriodNotes `json:"periods"`
	SubmittedAt time.Time              `json:"submitted_at"`
}

// Validate checks user, game and every period.
// PRE: Observation struct is populated
// POST: Returns nil if valid, error otherwise
func (o *Observation) Validate() error {
	if o.User == "" {
		return ErrEmptyUser
	}
	if err := o.Game.Validate(); err != nil {
		return err
	}
	if len(o.Periods) == 0 {
		return ErrNoPeriods
	}
	for period, notes := range o.Periods {
		if !contains(Periods, period) {
			return fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
		}
		if err := notes.Validate(); err != nil {
			return fmt.Errorf("%s: %w", period, err)
		}
	}
	return nil
}

// Merge sets the notes for period, keeping the other periods.
func (o *Observation) Merge(period string, notes PeriodNotes) error {
	if !contains(Periods, period) {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	if o.Periods == nil {
		o.Periods = make(map[string]PeriodNotes)
	}
	o.Periods[period] = notes
	return nil
}

// FileName builds "{date}__{home}-vs-{away}__{user}.json". Colons in the
// date become dashes, spaces in team names underscores, the user is lowercased.
func FileName(user string, g Game) string {
	u := strings.ToLower(strings.TrimSpace(user))
	if u == "" {
		u = "unknown"
	}
	d := g.Date
	if d == "" {
		d = "unknown-date"
	}
	home := g.Home
	if home == "" {
		home = "home"
	}
	away := g.Away
	if away == "" {
		away = "away"
	}
	return fmt.Sprintf("%s__%s-vs-%s__%s.json",
		strings.ReplaceAll(d, ":", "-"),
		strings.ReplaceAll(home, " ", "_"),
		strings.ReplaceAll(away, " ", "_"),
		u)
}

func validScale(v int) bool {
	return v >= 1 && v <= 5
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
