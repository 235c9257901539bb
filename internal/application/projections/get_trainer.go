package projections

import (
	"context"
	"errors"
	"fmt"
	"time"

	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/domain/cache"
	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/drill"
	"matchhub/internal/domain/league"
	"matchhub/internal/domain/session"
)

// DefaultLeague labels new sessions.
const DefaultLeague = "DEL"

// GetTrainerQuery carries input for the session trainer projection.
type GetTrainerQuery struct {
	User     string
	Name     string // display name of User
	ModuleID string // preselected from the curriculum page
	DrillID  string
	Today    time.Time
}

// GetTrainerDeps holds dependencies for the session trainer projection.
type GetTrainerDeps struct {
	Sessions   ActiveSessionFinder
	Curriculum CurriculumSource
	Registry   *drill.Registry
	Cache      cacheStore.Store // optional; prefills the next game
}

// TrainerSetup is the form for starting a session.
type TrainerSetup struct {
	Date            string                     `json:"date"`
	League          string                     `json:"league"`
	Teams           []string                   `json:"teams"`
	Home            string                     `json:"home"`
	Away            string                     `json:"away"`
	Modules         []curriculum.ModuleSummary `json:"modules"`
	ModuleID        string                     `json:"module_id"`
	Preselected     bool                       `json:"preselected"`
	Drills          []curriculum.DrillSummary  `json:"drills"`
	DrillID         string                     `json:"drill_id"`
	GoalSuggestions []string                   `json:"goal_suggestions"`
	CustomGoal      string                     `json:"custom_goal"`
}

// TrainerActive is the running session with the drill for the next phase.
type TrainerActive struct {
	Session         session.Session       `json:"session"`
	ModuleTitle     string                `json:"module_title"`
	Drill           curriculum.Drill      `json:"drill"`
	Questions       []curriculum.Question `json:"questions"`
	NextPhase       string                `json:"next_phase"`
	CompletedPhases []string              `json:"completed_phases"`
	TimeLimit       int                   `json:"time_limit,omitempty"` // seconds, micro quizzes only
	ReadyForPost    bool                  `json:"ready_for_post"`
}

// TrainerResult carries either the active session or the setup form.
type TrainerResult struct {
	Active   *TrainerActive `json:"active,omitempty"`
	Setup    *TrainerSetup  `json:"setup,omitempty"`
	Warnings []string       `json:"warnings"`
}

// QueryGetTrainer returns the user's active session, or the setup form when
// there is none.
// PRE: query.User is set; deps are valid (Cache may be nil)
// POST: exactly one of Active and Setup is set
func QueryGetTrainer(ctx context.Context, query GetTrainerQuery, deps GetTrainerDeps) (TrainerResult, error) {
	result := TrainerResult{Warnings: []string{}}

	cur, err := deps.Curriculum.Curriculum(ctx)
	if err != nil {
		return result, err
	}

	active, ok, err := deps.Sessions.Active(ctx, query.User)
	if err != nil {
		return result, err
	}
	if ok {
		result.Active = activeView(active, cur, deps.Registry, drill.Context{User: query.User, Name: query.Name}, &result.Warnings)
		return result, nil
	}

	setup, err := setupView(ctx, query, cur, deps.Cache)
	if err != nil {
		return result, err
	}
	if len(setup.Modules) == 0 {
		result.Warnings = append(result.Warnings, "Keine Module verfügbar.")
	} else if len(setup.Drills) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Modul %s hat noch keine Drills.", setup.ModuleID))
	}
	result.Setup = &setup
	return result, nil
}

func activeView(s session.Session, cur curriculum.Curriculum, reg *drill.Registry, viewer drill.Context, warnings *[]string) *TrainerActive {
	v := &TrainerActive{
		Session:         s,
		NextPhase:       s.NextPhase(),
		CompletedPhases: s.CompletedPhases(),
		Questions:       []curriculum.Question{},
	}
	v.ReadyForPost = v.NextPhase == session.PhasePost
	if v.CompletedPhases == nil {
		v.CompletedPhases = []string{}
	}
	if m, ok := cur.Module(s.ModuleID); ok {
		v.ModuleTitle = m.Title
	}

	d, ok := cur.Drill(s.ModuleID, s.DrillID)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("Drill %s ist nicht mehr im Curriculum.", s.DrillID))
		return v
	}
	v.Drill = d
	handler, err := reg.Lookup(d.DrillType)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Unbekannter Drill-Typ: %s", d.DrillType))
		return v
	}
	v.Questions = handler.Questions(d, viewer)
	if d.DrillType == curriculum.DrillTypeMicroQuiz {
		v.TimeLimit = int(drill.TimeLimit(d).Seconds())
	}
	return v
}

func setupView(ctx context.Context, query GetTrainerQuery, cur curriculum.Curriculum, store cacheStore.Store) (TrainerSetup, error) {
	teams := league.TeamNames()
	setup := TrainerSetup{
		Date:    query.Today.Format(league.DateLayout),
		League:  DefaultLeague,
		Teams:   teams,
		Home:    teams[0],
		Away:    teams[1],
		Modules: cur.ListModules(),
	}

	if store != nil {
		entry, err := cacheStore.Get[[]league.Fixture](ctx, store, cache.KeyFixtures)
		if err != nil && !errors.Is(err, cache.ErrNotFound) {
			return setup, err
		}
		if next, ok := league.PickNextGame(entry.Data, league.FocusTeam, query.Today); ok {
			setup.Date, setup.Home, setup.Away = next.Date, next.Home, next.Away
		}
	}

	if len(setup.Modules) == 0 {
		return setup, nil
	}
	setup.ModuleID = setup.Modules[0].ModuleID
	for _, m := range setup.Modules {
		if query.ModuleID != "" && m.ModuleID == query.ModuleID {
			setup.ModuleID = m.ModuleID
			setup.Preselected = true
		}
	}

	setup.Drills = cur.ListDrills(setup.ModuleID)
	if len(setup.Drills) == 0 {
		return setup, nil
	}
	setup.DrillID = setup.Drills[0].DrillID
	for _, d := range setup.Drills {
		if d.DrillID == query.DrillID {
			setup.DrillID = d.DrillID
		}
	}
	if d, ok := cur.Drill(setup.ModuleID, setup.DrillID); ok {
		setup.GoalSuggestions = curriculum.GoalSuggestions(d)
		setup.CustomGoal = curriculum.CustomGoal
	}
	return setup, nil
}
