package projections

import (
	"context"
	"math"
	"sort"
	"strings"

	sessionStore "matchhub/internal/adapters/storage/session"
	"matchhub/internal/domain/session"
)

// GetProgressQuery carries input for the progress projection.
type GetProgressQuery struct {
	User string
}

// GetProgressDeps holds dependencies for the progress projection.
type GetProgressDeps struct {
	Sessions   SessionLister
	Curriculum CurriculumSource
}

// ModuleProgress counts one module's sessions.
type ModuleProgress struct {
	ModuleID       string  `json:"module_id"`
	ModuleTitle    string  `json:"module_title"`
	Sessions       int     `json:"sessions"`
	AvgHelpfulness float64 `json:"avg_helpfulness"` // 0 when no session was rated
	Stars          string  `json:"stars"`
}

// TrackModule is one module line of a track.
type TrackModule struct {
	ModuleID string `json:"module_id"`
	Title    string `json:"title"`
	Sessions int    `json:"sessions"`
}

// TrackProgress reports how many modules of a track were started.
type TrackProgress struct {
	TrackID string        `json:"track_id"`
	Title   string        `json:"title"`
	Touched int           `json:"touched"`
	Total   int           `json:"total"`
	Percent int           `json:"percent"`
	Modules []TrackModule `json:"modules"`
}

// ProgressResult carries the output of the progress projection.
type ProgressResult struct {
	Total          int              `json:"total"`
	Completed      int              `json:"completed"`
	Active         int              `json:"active"`
	Cancelled      int              `json:"cancelled"`
	ModulesTouched int              `json:"modules_touched"`
	Modules        []ModuleProgress `json:"modules"`
	Tracks         []TrackProgress  `json:"tracks"`
}

// QueryGetProgress summarises the user's sessions per module and track.
// Modules are ordered by session count, then id. Tracks without any
// started module are left out.
// PRE: query.User is set
// POST: AvgHelpfulness averages completed sessions only
func QueryGetProgress(ctx context.Context, query GetProgressQuery, deps GetProgressDeps) (ProgressResult, error) {
	result := ProgressResult{Modules: []ModuleProgress{}, Tracks: []TrackProgress{}}

	sessions, err := deps.Sessions.List(ctx, sessionStore.ListFilter{User: query.User})
	if err != nil {
		return result, err
	}
	cur, err := deps.Curriculum.Curriculum(ctx)
	if err != nil {
		return result, err
	}

	counts := make(map[string]int)
	ratings := make(map[string][]int)
	for _, s := range sessions {
		result.Total++
		switch s.State {
		case session.StateDone:
			result.Completed++
		case session.StateActive:
			result.Active++
		case session.StateCancelled:
			result.Cancelled++
		}
		if s.ModuleID == "" {
			continue
		}
		counts[s.ModuleID]++
		if s.Post != nil && s.Post.Helpfulness > 0 {
			ratings[s.ModuleID] = append(ratings[s.ModuleID], s.Post.Helpfulness)
		}
	}
	result.ModulesTouched = len(counts)

	for id, n := range counts {
		mp := ModuleProgress{ModuleID: id, Sessions: n}
		if m, ok := cur.Module(id); ok {
			mp.ModuleTitle = m.Title
		}
		if rs := ratings[id]; len(rs) > 0 {
			sum := 0
			for _, r := range rs {
				sum += r
			}
			mp.AvgHelpfulness = float64(sum) / float64(len(rs))
			mp.Stars = strings.Repeat("⭐", int(math.RoundToEven(mp.AvgHelpfulness)))
		}
		result.Modules = append(result.Modules, mp)
	}
	sort.Slice(result.Modules, func(i, j int) bool {
		if result.Modules[i].Sessions != result.Modules[j].Sessions {
			return result.Modules[i].Sessions > result.Modules[j].Sessions
		}
		return result.Modules[i].ModuleID < result.Modules[j].ModuleID
	})

	for _, t := range cur.Tracks {
		tp := TrackProgress{TrackID: t.ID, Title: t.Title, Total: len(t.Modules)}
		for _, m := range t.Modules {
			n := counts[m.ID]
			if n > 0 {
				tp.Touched++
			}
			tp.Modules = append(tp.Modules, TrackModule{ModuleID: m.ID, Title: m.Title, Sessions: n})
		}
		if tp.Touched == 0 {
			continue
		}
		tp.Percent = tp.Touched * 100 / tp.Total
		result.Tracks = append(result.Tracks, tp)
	}
	return result, nil
}
