package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Session states.
const (
	StateActive    = "active"
	StateDone      = "done"
	StateCancelled = "cancelled"
)

// Phases of a training session. PRE is the setup block, P1-P3 follow the periods.
const (
	PhasePre  = "PRE"
	PhaseP1   = "P1"
	PhaseP2   = "P2"
	PhaseP3   = "P3"
	PhasePost = "POST"
)

// CheckInPhases lists the phases that accept check-ins, in order.
var CheckInPhases = []string{PhaseP1, PhaseP2, PhaseP3}

// DefaultRating is used for confidence and helpfulness when none is given.
const DefaultRating = 3

// Domain errors
var (
	ErrEmptyUser           = errors.New("user is required")
	ErrEmptyGame           = errors.New("game date, home and away are required")
	ErrUnsafeGame          = errors.New("game date, home and away cannot contain path separators or \"..\"")
	ErrEmptyModule         = errors.New("module and drill are required")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidPhase        = errors.New("check-ins are only accepted for P1, P2 and P3")
	ErrNotActive           = errors.New("session is not active")
	ErrInvalidState        = errors.New("invalid session state")
	ErrSessionNotFound     = errors.New("session not found")
	ErrActiveSessionExists = errors.New("user already has an active session")
)

// Game is the match a session is attached to.
type Game struct {
	Date   string `json:"date"`
	League string `json:"league"`
	Home   string `json:"home"`
	Away   string `json:"away"`
}

// Label renders "Home vs Away".
func (g Game) Label() string {
	return g.Home + " vs " + g.Away
}

// Pre is the setup block captured when a session starts.
type Pre struct {
	Goal       string    `json:"goal"`
	Confidence int       `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// CheckIn holds the evaluated answers of one phase.
type CheckIn struct {
	ID        string         `json:"id,omitempty"`
	Phase     string         `json:"phase"`
	Timestamp time.Time      `json:"timestamp"`
	Answers   map[string]any `json:"answers"`
	Feedback  string         `json:"feedback"`
	NextTask  string         `json:"next_task"`
}

// Post is the reflection captured when a session completes.
type Post struct {
	Summary     string    `json:"summary"`
	Unclear     string    `json:"unclear"`
	NextModule  string    `json:"next_module"`
	Helpfulness int       `json:"helpfulness"`
	Timestamp   time.Time `json:"timestamp"`
}

// Session is one training session of a user during a game.
type Session struct {
	SessionID string    `json:"session_id"`
	User      string    `json:"user"`
	Game      Game      `json:"game"`
	ModuleID  string    `json:"module_id"`
	DrillID   string    `json:"drill_id"`
	Pre       Pre       `json:"pre"`
	CheckIns  []CheckIn `json:"checkins"`
	Post      *Post     `json:"post,omitempty"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BuildID derives the session id from game, user, module and drill.
// Spaces in team names become underscores.
func BuildID(user string, g Game, moduleID, drillID string) string {
	return fmt.Sprintf("%s_%s_vs_%s_%s_%s_%s",
		g.Date,
		strings.ReplaceAll(g.Home, " ", "_"),
		strings.ReplaceAll(g.Away, " ", "_"),
		user, moduleID, drillID)
}

// New creates an active session. A zero confidence becomes DefaultRating.
// PRE: user, game, module and drill are set
// POST: Returns an active session without check-ins, or a validation error
func New(user string, g Game, moduleID, drillID, goal string, confidence int, now time.Time) (Session, error) {
	if confidence == 0 {
		confidence = DefaultRating
	}
	s := Session{
		SessionID: BuildID(user, g, moduleID, drillID),
		User:      user,
		Game:      g,
		ModuleID:  moduleID,
		DrillID:   drillID,
		Pre:       Pre{Goal: strings.TrimSpace(goal), Confidence: confidence, Timestamp: now},
		CheckIns:  []CheckIn{},
		State:     StateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Validate checks the session fields.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if s.User == "" {
		return ErrEmptyUser
	}
	if s.Game.Date == "" || s.Game.Home == "" || s.Game.Away == "" {
		return ErrEmptyGame
	}
	for _, part := range []string{s.Game.Date, s.Game.Home, s.Game.Away} {
		if strings.ContainsAny(part, `/\`) || strings.Contains(part, "..") {
			return fmt.Errorf("%w: %q", ErrUnsafeGame, part)
		}
	}
	if s.ModuleID == "" || s.DrillID == "" {
		return ErrEmptyModule
	}
	if !validRating(s.Pre.Confidence) {
		return ErrInvalidRating
	}
	if s.Post != nil && !validRating(s.Post.Helpfulness) {
		return ErrInvalidRating
	}
	switch s.State {
	case StateActive, StateDone, StateCancelled:
	default:
		return ErrInvalidState
	}
	return nil
}

// IsActive reports whether the session still accepts input.
func (s *Session) IsActive() bool {
	return s.State == StateActive
}

// AddCheckIn records the check-in for phase. An earlier check-in for the same
// phase is replaced in place.
// INVARIANT: at most one check-in per phase
func (s *Session) AddCheckIn(phase string, answers map[string]any, feedback, nextTask, id string, now time.Time) error {
	if !s.IsActive() {
		return ErrNotActive
	}
	if !IsCheckInPhase(phase) {
		return ErrInvalidPhase
	}
	if answers == nil {
		answers = map[string]any{}
	}
	ci := CheckIn{ID: id, Phase: phase, Timestamp: now, Answers: answers, Feedback: feedback, NextTask: nextTask}
	for i := range s.CheckIns {
		if s.CheckIns[i].Phase == phase {
			s.CheckIns[i] = ci
			s.UpdatedAt = now
			return nil
		}
	}
	s.CheckIns = append(s.CheckIns, ci)
	s.UpdatedAt = now
	return nil
}

// CheckIn returns the check-in recorded for phase.
func (s *Session) CheckIn(phase string) (CheckIn, bool) {
	for _, ci := range s.CheckIns {
		if ci.Phase == phase {
			return ci, true
		}
	}
	return CheckIn{}, false
}

// CompletedPhases lists the phases with a check-in, in P1..P3 order.
func (s *Session) CompletedPhases() []string {
	var phases []string
	for _, p := range CheckInPhases {
		if _, ok := s.CheckIn(p); ok {
			phases = append(phases, p)
		}
	}
	return phases
}

// NextPhase returns the first phase without a check-in, or PhasePost when all are done.
func (s *Session) NextPhase() string {
	for _, p := range CheckInPhases {
		if _, ok := s.CheckIn(p); !ok {
			return p
		}
	}
	return PhasePost
}

// Complete stores the reflection and marks the session done.
func (s *Session) Complete(post Post, now time.Time) error {
	if !s.IsActive() {
		return ErrNotActive
	}
	if post.Helpfulness == 0 {
		post.Helpfulness = DefaultRating
	}
	if !validRating(post.Helpfulness) {
		return ErrInvalidRating
	}
	post.Summary = strings.TrimSpace(post.Summary)
	post.Unclear = strings.TrimSpace(post.Unclear)
	post.Timestamp = now
	s.Post = &post
	s.State = StateDone
	s.UpdatedAt = now
	return nil
}

// Cancel marks an active session cancelled.
func (s *Session) Cancel(now time.Time) error {
	if !s.IsActive() {
		return ErrNotActive
	}
	s.State = StateCancelled
	s.UpdatedAt = now
	return nil
}

// IsCheckInPhase reports whether phase accepts check-ins.
func IsCheckInPhase(phase string) bool {
	for _, p := range CheckInPhases {
		if p == phase {
			return true
		}
	}
	return false
}

func validRating(v int) bool {
	return v >= 1 && v <= 5
}
