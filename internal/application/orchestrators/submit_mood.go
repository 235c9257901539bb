package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"matchhub/internal/domain/submission"
)

// MoodStoreForSubmit defines the store interface needed by SubmitMood.
type MoodStoreForSubmit interface {
	SaveMood(ctx context.Context, m submission.Mood) (string, error)
}

// SubmitMoodInput carries the pre-match survey form.
type SubmitMoodInput struct {
	User        string
	Game        submission.Game
	Nervousness int
	Expectation string
	Mood        int
	Importance  int
	Focus       string
	OneLiner    string
}

// SubmitMoodDeps holds dependencies for SubmitMood.
type SubmitMoodDeps struct {
	Store MoodStoreForSubmit
	Now   func() time.Time
}

// SubmitMoodResult carries the stored survey and its file name.
type SubmitMoodResult struct {
	Mood     submission.Mood
	FileName string
}

// ExecuteSubmitMood validates and stores the survey. A resubmission for the
// same user and game overwrites the earlier one.
// PRE: scales are 1..5; one-liner at most 120 characters
// POST: one mood file per user and game
func ExecuteSubmitMood(ctx context.Context, input SubmitMoodInput, deps SubmitMoodDeps) (SubmitMoodResult, error) {
	m := submission.Mood{
		User:        strings.ToLower(strings.TrimSpace(input.User)),
		Game:        input.Game,
		Nervousness: input.Nervousness,
		Expectation: input.Expectation,
		Mood:        input.Mood,
		Importance:  input.Importance,
		Focus:       strings.TrimSpace(input.Focus),
		OneLiner:    strings.TrimSpace(input.OneLiner),
		SubmittedAt: deps.Now(),
	}
	if err := m.Validate(); err != nil {
		return SubmitMoodResult{}, err
	}

	name, err := deps.Store.SaveMood(ctx, m)
	if err != nil {
		return SubmitMoodResult{}, err
	}

	slog.Info("submission_event", "event", "mood_submitted", "user", m.User, "game_date", m.Game.Date, "file", name)
	return SubmitMoodResult{Mood: m, FileName: name}, nil
}
