package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"matchhub/internal/domain/submission"
)

// ObservationStoreForSubmit defines the store interface needed by SubmitObservation.
type ObservationStoreForSubmit interface {
	GetObservation(ctx context.Context, user string, game submission.Game) (submission.Observation, bool, error)
	SaveObservation(ctx context.Context, o submission.Observation) (string, error)
}

// SubmitObservationInput carries the notes for one period.
type SubmitObservationInput struct {
	User   string
	Game   submission.Game
	Period string
	Notes  submission.PeriodNotes
}

// SubmitObservationDeps holds dependencies for SubmitObservation.
type SubmitObservationDeps struct {
	Store ObservationStoreForSubmit
	Now   func() time.Time
}

// SubmitObservationResult carries the merged observation and its file name.
type SubmitObservationResult struct {
	Observation submission.Observation
	FileName    string
}

// ExecuteSubmitObservation merges the period notes into the user's
// observation file for the game.
// PRE: period is P1, P2 or P3
// POST: other periods of the same file are preserved
func ExecuteSubmitObservation(ctx context.Context, input SubmitObservationInput, deps SubmitObservationDeps) (SubmitObservationResult, error) {
	user := strings.ToLower(strings.TrimSpace(input.User))
	if err := input.Game.Validate(); err != nil {
		return SubmitObservationResult{}, err
	}

	obs, found, err := deps.Store.GetObservation(ctx, user, input.Game)
	if err != nil {
		return SubmitObservationResult{}, err
	}
	if !found {
		obs = submission.Observation{User: user, Game: input.Game}
	}

	notes := input.Notes
	notes.KeyMoment = strings.TrimSpace(notes.KeyMoment)
	notes.Note = strings.TrimSpace(notes.Note)
	if err := obs.Merge(input.Period, notes); err != nil {
		return SubmitObservationResult{}, err
	}
	obs.SubmittedAt = deps.Now()
	if err := obs.Validate(); err != nil {
		return SubmitObservationResult{}, err
	}

	name, err := deps.Store.SaveObservation(ctx, obs)
	if err != nil {
		return SubmitObservationResult{}, err
	}

	slog.Info("submission_event", "event", "observation_submitted", "user", user, "period", input.Period, "periods", len(obs.Periods), "file", name)
	return SubmitObservationResult{Observation: obs, FileName: name}, nil
}
