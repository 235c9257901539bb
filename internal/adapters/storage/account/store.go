package account

import (
	"context"
	"errors"

	domain "matchhub/internal/domain/account"
)

// ErrNotFound is returned when no account matches.
var ErrNotFound = errors.New("account not found")

// Store persists Account state.
type Store interface {
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
}
