package submission

import (
	"context"

	domain "matchhub/internal/domain/submission"
)

// Store persists mood surveys and observations, one file per user and game.
type Store interface {
	SaveMood(ctx context.Context, m domain.Mood) (string, error)
	GetMood(ctx context.Context, user string, game domain.Game) (domain.Mood, bool, error)
	ListMoods(ctx context.Context) ([]domain.Mood, error)

	SaveObservation(ctx context.Context, o domain.Observation) (string, error)
	GetObservation(ctx context.Context, user string, game domain.Game) (domain.Observation, bool, error)
	ListObservations(ctx context.Context) ([]domain.Observation, error)
}
