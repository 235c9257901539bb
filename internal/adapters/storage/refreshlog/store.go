package refreshlog

import (
	"context"

	domain "matchhub/internal/domain/refresh"
)

// Store persists refresh attempts.
type Store interface {
	Save(ctx context.Context, a domain.Attempt) error
	ListRecent(ctx context.Context, limit int) ([]domain.Attempt, error)
	LastSuccess(ctx context.Context, source string) (domain.Attempt, bool, error)
}
