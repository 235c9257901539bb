package projections

import (
	"context"

	sessionStore "matchhub/internal/adapters/storage/session"
	"matchhub/internal/domain/account"
	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/glossary"
	"matchhub/internal/domain/refresh"
	"matchhub/internal/domain/session"
	"matchhub/internal/domain/submission"
)

// CurriculumSource provides the current curriculum.
type CurriculumSource interface {
	Curriculum(ctx context.Context) (curriculum.Curriculum, error)
}

// GlossarySource provides the glossary; false when the file is missing.
type GlossarySource interface {
	Glossary(ctx context.Context) (glossary.Glossary, bool, error)
}

// SessionLister lists training sessions.
type SessionLister interface {
	List(ctx context.Context, filter sessionStore.ListFilter) ([]session.Session, error)
}

// ActiveSessionFinder finds a user's active session.
type ActiveSessionFinder interface {
	Active(ctx context.Context, user string) (session.Session, bool, error)
}

// MoodReader reads mood surveys.
type MoodReader interface {
	GetMood(ctx context.Context, user string, game submission.Game) (submission.Mood, bool, error)
}

// SubmissionReader finds one user's submissions for a game.
type SubmissionReader interface {
	MoodReader
	GetObservation(ctx context.Context, user string, g submission.Game) (submission.Observation, bool, error)
}

// SubmissionLister lists both submission kinds, newest file first.
type SubmissionLister interface {
	ListMoods(ctx context.Context) ([]submission.Mood, error)
	ListObservations(ctx context.Context) ([]submission.Observation, error)
}

// AccountLister lists the app's users.
type AccountLister interface {
	List(ctx context.Context) ([]account.Account, error)
}

// RefreshLogReader reads recent scrape attempts, newest first.
type RefreshLogReader interface {
	ListRecent(ctx context.Context, limit int) ([]refresh.Attempt, error)
}
