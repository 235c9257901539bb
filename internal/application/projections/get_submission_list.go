package projections

import (
	"context"
	"sort"

	"matchhub/internal/application/listutil"
	"matchhub/internal/domain/submission"
)

// GetSubmissionListQuery carries input for the submission list projection.
type GetSubmissionListQuery struct {
	Kind string // submission.KindMood or submission.KindObservation; empty means mood
	User string // listutil.All or a username
	Page listutil.PageParams
}

// GetSubmissionListDeps holds dependencies for the submission list projection.
type GetSubmissionListDeps struct {
	Store SubmissionLister
}

// SubmissionListResult carries one page of submissions of one kind.
type SubmissionListResult struct {
	Kind         string                   `json:"kind"`
	User         string                   `json:"user"`
	Users        []string                 `json:"users"`
	Moods        []submission.Mood        `json:"moods,omitempty"`
	Observations []submission.Observation `json:"observations,omitempty"`
	PageInfo     listutil.PageInfo        `json:"page_info"`
}

// QueryGetSubmissionList pages through the stored submissions, newest first.
// PRE: deps are valid and non-nil
// POST: Users lists every author of the kind, sorted
func QueryGetSubmissionList(ctx context.Context, query GetSubmissionListQuery, deps GetSubmissionListDeps) (SubmissionListResult, error) {
	kind := query.Kind
	if kind != submission.KindObservation {
		kind = submission.KindMood
	}
	user := query.User
	if user == "" {
		user = listutil.All
	}
	filter := listutil.Active(user)
	result := SubmissionListResult{Kind: kind, User: user}

	authors := make(map[string]bool)
	if kind == submission.KindMood {
		moods, err := deps.Store.ListMoods(ctx)
		if err != nil {
			return result, err
		}
		var matched []submission.Mood
		for _, m := range moods {
			authors[m.User] = true
			if filter == "" || m.User == filter {
				matched = append(matched, m)
			}
		}
		result.Moods, result.PageInfo = listutil.Paginate(matched, query.Page)
	} else {
		observations, err := deps.Store.ListObservations(ctx)
		if err != nil {
			return result, err
		}
		var matched []submission.Observation
		for _, o := range observations {
			authors[o.User] = true
			if filter == "" || o.User == filter {
				matched = append(matched, o)
			}
		}
		result.Observations, result.PageInfo = listutil.Paginate(matched, query.Page)
	}

	result.Users = sortedKeys(authors)
	return result, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
