package projections

import (
	"context"

	"matchhub/internal/application/listutil"
	"matchhub/internal/domain/curriculum"
)

// GetCurriculumOverviewQuery carries input for the curriculum overview projection.
type GetCurriculumOverviewQuery struct {
	TrackID string // empty or "alle" shows every track
}

// GetCurriculumOverviewDeps holds dependencies for the curriculum overview projection.
type GetCurriculumOverviewDeps struct {
	Curriculum CurriculumSource
}

// TrackOption is one entry of the track filter.
type TrackOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CurriculumOverviewResult carries the output of the curriculum overview projection.
type CurriculumOverviewResult struct {
	Stats        curriculum.Stats   `json:"stats"`
	TrackOptions []TrackOption      `json:"track_options"`
	TrackID      string             `json:"track_id"`
	Tracks       []curriculum.Track `json:"tracks"`
	Empty        bool               `json:"empty"`
}

// QueryGetCurriculumOverview returns the curriculum tree with counts,
// optionally narrowed to one track.
// PRE: deps are valid and non-nil
// POST: Stats always cover the whole curriculum
func QueryGetCurriculumOverview(ctx context.Context, query GetCurriculumOverviewQuery, deps GetCurriculumOverviewDeps) (CurriculumOverviewResult, error) {
	cur, err := deps.Curriculum.Curriculum(ctx)
	if err != nil {
		return CurriculumOverviewResult{}, err
	}

	result := CurriculumOverviewResult{
		Stats:        cur.Stats(),
		TrackOptions: make([]TrackOption, 0, len(cur.Tracks)),
		TrackID:      query.TrackID,
		Tracks:       cur.FilterTracks(listutil.Active(query.TrackID)),
		Empty:        len(cur.Tracks) == 0,
	}
	for _, t := range cur.Tracks {
		result.TrackOptions = append(result.TrackOptions, TrackOption{ID: t.ID, Title: t.Title})
	}
	return result, nil
}
