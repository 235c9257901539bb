package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"matchhub/internal/domain/drill"
	"matchhub/internal/domain/session"
)

// SessionStoreForUpdate defines the store interface needed to change a session.
type SessionStoreForUpdate interface {
	Get(ctx context.Context, id string) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
}

// RecordCheckInInput carries a submitted drill form.
type RecordCheckInInput struct {
	User      string
	Name      string // display name of User
	SessionID string
	Phase     string
	Form      url.Values
	StartedAt time.Time // when the drill was rendered; zero when unknown
}

// RecordCheckInResult carries the updated session and the drill evaluation.
type RecordCheckInResult struct {
	Session session.Session
	Result  drill.Result
}

// RecordCheckInDeps holds dependencies for RecordCheckIn.
type RecordCheckInDeps struct {
	SessionStore SessionStoreForUpdate
	Curriculum   CurriculumSource
	Registry     *drill.Registry
	GenerateID   func() string
	Now          func() time.Time
}

var ErrNotSessionOwner = errors.New("session belongs to another user")

// ExecuteRecordCheckIn evaluates the drill form and stores the check-in.
// PRE: session is active and owned by the user; phase is P1, P2 or P3
// POST: check-in for phase stored (replacing an earlier one) with feedback and next task
func ExecuteRecordCheckIn(ctx context.Context, input RecordCheckInInput, deps RecordCheckInDeps) (RecordCheckInResult, error) {
	s, err := loadOwnedSession(ctx, deps.SessionStore, input.SessionID, input.User)
	if err != nil {
		return RecordCheckInResult{}, err
	}
	if !s.IsActive() {
		return RecordCheckInResult{}, session.ErrNotActive
	}
	if !session.IsCheckInPhase(input.Phase) {
		return RecordCheckInResult{}, session.ErrInvalidPhase
	}

	cur, err := deps.Curriculum.Curriculum(ctx)
	if err != nil {
		return RecordCheckInResult{}, fmt.Errorf("load curriculum: %w", err)
	}
	d, ok := cur.Drill(s.ModuleID, s.DrillID)
	if !ok {
		return RecordCheckInResult{}, fmt.Errorf("%w: %s/%s", ErrDrillNotFound, s.ModuleID, s.DrillID)
	}
	handler, err := deps.Registry.Lookup(d.DrillType)
	if err != nil {
		return RecordCheckInResult{}, err
	}

	now := deps.Now()
	res, err := handler.Evaluate(d, drill.Context{User: input.User, Name: input.Name, Phase: input.Phase, StartedAt: input.StartedAt, Now: now}, input.Form)
	if err != nil {
		return RecordCheckInResult{}, err
	}
	for _, w := range res.Warnings {
		slog.Warn("drill_event", "event", "drill_warning", "session_id", s.SessionID, "drill_id", d.ID, "warning", w)
	}

	if err := s.AddCheckIn(input.Phase, res.Answers, res.Feedback, res.NextTask, deps.GenerateID(), now); err != nil {
		return RecordCheckInResult{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return RecordCheckInResult{}, err
	}

	slog.Info("session_event", "event", "checkin_recorded", "session_id", s.SessionID, "phase", input.Phase, "drill_type", d.DrillType)
	return RecordCheckInResult{Session: s, Result: res}, nil
}

func loadOwnedSession(ctx context.Context, store SessionStoreForUpdate, id, user string) (session.Session, error) {
	if id == "" {
		return session.Session{}, session.ErrSessionNotFound
	}
	s, err := store.Get(ctx, id)
	if err != nil {
		return session.Session{}, err
	}
	if s.User != user {
		return session.Session{}, ErrNotSessionOwner
	}
	return s, nil
}
