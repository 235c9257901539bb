package session

import (
	"context"

	domain "matchhub/internal/domain/session"
)

// Store persists training sessions.
type Store interface {
	Get(ctx context.Context, id string) (domain.Session, error)
	Exists(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, s domain.Session) error
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
	Active(ctx context.Context, user string) (domain.Session, bool, error)
}

// ListFilter narrows List results; empty fields match everything.
type ListFilter struct {
	User     string
	ModuleID string
	State    string
}
