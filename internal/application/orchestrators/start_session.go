package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/session"
)

// SessionStoreForStart defines the store interface needed by StartSession.
type SessionStoreForStart interface {
	Active(ctx context.Context, user string) (session.Session, bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, s session.Session) error
}

// CurriculumSource provides the current curriculum.
type CurriculumSource interface {
	Curriculum(ctx context.Context) (curriculum.Curriculum, error)
}

// StartSessionInput carries the PRE block of a new session.
type StartSessionInput struct {
	User       string
	Game       session.Game
	ModuleID   string
	DrillID    string
	Goal       string
	CustomGoal string // used when Goal is curriculum.CustomGoal
	Confidence int
}

// StartSessionDeps holds dependencies for StartSession.
type StartSessionDeps struct {
	SessionStore SessionStoreForStart
	Curriculum   CurriculumSource
	Now          func() time.Time
}

var (
	ErrDrillNotFound = errors.New("drill not found in curriculum")
	ErrSameTeams     = errors.New("home and away must be different teams")
)

// maxIDSuffix bounds the search for a free session id.
const maxIDSuffix = 100

// ExecuteStartSession creates an active session for the user.
// A second session for the same game, module and drill gets a "_2", "_3", ... suffix.
// PRE: module and drill exist in the curriculum
// POST: Session persisted in state active
// INVARIANT: a user has at most one active session
func ExecuteStartSession(ctx context.Context, input StartSessionInput, deps StartSessionDeps) (session.Session, error) {
	if input.Game.Home != "" && input.Game.Home == input.Game.Away {
		return session.Session{}, ErrSameTeams
	}

	cur, err := deps.Curriculum.Curriculum(ctx)
	if err != nil {
		return session.Session{}, fmt.Errorf("load curriculum: %w", err)
	}
	if _, ok := cur.Drill(input.ModuleID, input.DrillID); !ok {
		return session.Session{}, fmt.Errorf("%w: %s/%s", ErrDrillNotFound, input.ModuleID, input.DrillID)
	}

	if _, active, err := deps.SessionStore.Active(ctx, input.User); err != nil {
		return session.Session{}, err
	} else if active {
		return session.Session{}, session.ErrActiveSessionExists
	}

	goal := input.Goal
	if goal == curriculum.CustomGoal {
		goal = strings.TrimSpace(input.CustomGoal)
	}

	s, err := session.New(input.User, input.Game, input.ModuleID, input.DrillID, goal, input.Confidence, deps.Now())
	if err != nil {
		return session.Session{}, err
	}

	id, err := freeSessionID(ctx, deps.SessionStore, s.SessionID)
	if err != nil {
		return session.Session{}, err
	}
	s.SessionID = id

	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return session.Session{}, err
	}

	slog.Info("session_event", "event", "session_started", "session_id", s.SessionID, "user", s.User, "module_id", s.ModuleID, "drill_id", s.DrillID)
	return s, nil
}

func freeSessionID(ctx context.Context, store SessionStoreForStart, base string) (string, error) {
	id := base
	for n := 2; n <= maxIDSuffix+1; n++ {
		exists, err := store.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return "", fmt.Errorf("no free session id for %s", base)
}
