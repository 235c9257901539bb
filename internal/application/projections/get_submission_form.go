package projections

import (
	"context"
	"errors"
	"time"

	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/domain/cache"
	"matchhub/internal/domain/league"
	"matchhub/internal/domain/submission"
)

// GetSubmissionFormQuery carries input for the mood and observation forms.
type GetSubmissionFormQuery struct {
	User  string
	Kind  string          // submission.KindMood or submission.KindObservation
	Game  submission.Game // explicit game; empty picks the next game of the focus team
	Today time.Time
}

// GetSubmissionFormDeps holds dependencies for the submission form projection.
type GetSubmissionFormDeps struct {
	Cache cacheStore.Store
	Store SubmissionReader
}

// SubmissionFormResult carries the form defaults and the user's earlier answers.
type SubmissionFormResult struct {
	Kind               string                  `json:"kind"`
	Game               submission.Game         `json:"game"`
	FromSchedule       bool                    `json:"from_schedule"`
	Teams              []string                `json:"teams"`
	Mood               *submission.Mood        `json:"mood,omitempty"`
	Observation        *submission.Observation `json:"observation,omitempty"`
	ExpectationOptions []string                `json:"expectation_options"`
	ForecheckOptions   []string                `json:"forecheck_options"`
	Periods            []string                `json:"periods"`
}

// QueryGetSubmissionForm prepares the mood or observation form. Without an
// explicit game the next cached fixture of the focus team is used, else
// today with the first two teams.
// PRE: query.User is set
// POST: Game is always fully identified
func QueryGetSubmissionForm(ctx context.Context, query GetSubmissionFormQuery, deps GetSubmissionFormDeps) (SubmissionFormResult, error) {
	kind := query.Kind
	if kind != submission.KindObservation {
		kind = submission.KindMood
	}
	teams := league.TeamNames()
	result := SubmissionFormResult{
		Kind:               kind,
		Game:               query.Game,
		Teams:              teams,
		ExpectationOptions: submission.ExpectationOptions,
		ForecheckOptions:   submission.ForecheckOptions,
		Periods:            submission.Periods,
	}

	if result.Game.Validate() != nil {
		result.Game = submission.Game{Date: query.Today.Format(league.DateLayout), Home: teams[0], Away: teams[1]}
		entry, err := cacheStore.Get[[]league.Fixture](ctx, deps.Cache, cache.KeyFixtures)
		if err != nil && !errors.Is(err, cache.ErrNotFound) {
			return result, err
		}
		if next, ok := league.PickNextGame(entry.Data, league.FocusTeam, query.Today); ok {
			result.Game = submission.Game{Date: next.Date, Home: next.Home, Away: next.Away}
			result.FromSchedule = true
		}
	}

	if kind == submission.KindMood {
		m, ok, err := deps.Store.GetMood(ctx, query.User, result.Game)
		if err != nil {
			return result, err
		}
		if ok {
			result.Mood = &m
		}
		return result, nil
	}

	o, ok, err := deps.Store.GetObservation(ctx, query.User, result.Game)
	if err != nil {
		return result, err
	}
	if ok {
		result.Observation = &o
	}
	return result, nil
}
