package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"matchhub/internal/domain/session"
)

// CompleteSessionInput carries the POST reflection.
type CompleteSessionInput struct {
	User        string
	SessionID   string
	Summary     string
	Unclear     string
	NextModule  string
	Helpfulness int
}

// SessionLifecycleDeps holds dependencies for CompleteSession and CancelSession.
type SessionLifecycleDeps struct {
	SessionStore SessionStoreForUpdate
	Now          func() time.Time
}

// ExecuteCompleteSession stores the reflection and closes the session.
// PRE: session is active and owned by the user
// POST: state is done; Post is set
func ExecuteCompleteSession(ctx context.Context, input CompleteSessionInput, deps SessionLifecycleDeps) (session.Session, error) {
	s, err := loadOwnedSession(ctx, deps.SessionStore, input.SessionID, input.User)
	if err != nil {
		return session.Session{}, err
	}
	post := session.Post{
		Summary:     input.Summary,
		Unclear:     input.Unclear,
		NextModule:  input.NextModule,
		Helpfulness: input.Helpfulness,
	}
	if err := s.Complete(post, deps.Now()); err != nil {
		return session.Session{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return session.Session{}, err
	}

	slog.Info("session_event", "event", "session_completed", "session_id", s.SessionID, "user", s.User, "checkins", len(s.CheckIns), "helpfulness", s.Post.Helpfulness)
	return s, nil
}

// CancelSessionInput identifies the session to abort.
type CancelSessionInput struct {
	User      string
	SessionID string
}

// ExecuteCancelSession aborts an active session without a reflection.
// PRE: session is active and owned by the user
// POST: state is cancelled
func ExecuteCancelSession(ctx context.Context, input CancelSessionInput, deps SessionLifecycleDeps) (session.Session, error) {
	s, err := loadOwnedSession(ctx, deps.SessionStore, input.SessionID, input.User)
	if err != nil {
		return session.Session{}, err
	}
	if err := s.Cancel(deps.Now()); err != nil {
		return session.Session{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return session.Session{}, err
	}

	slog.Info("session_event", "event", "session_cancelled", "session_id", s.SessionID, "user", s.User)
	return s, nil
}
