package curriculum

import "strings"

// Drill types understood by the drill engine.
const (
	DrillTypePeriodCheckIn = "period_checkin"
	DrillTypeMicroQuiz     = "micro_quiz"
)

// Question types for period check-in drills.
const (
	QuestionRadio  = "radio"
	QuestionSlider = "slider"
	QuestionText   = "text"
	QuestionSelect = "select"
)

// Curriculum is the static training tree: tracks -> modules -> drills.
type Curriculum struct {
	Tracks []Track `json:"tracks"`
}

// Track groups modules under a learning goal. IDs are single letters ("A").
type Track struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Goal    string   `json:"goal,omitempty"`
	Modules []Module `json:"modules"`
}

// Module is a unit of the curriculum ("A1").
type Module struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Summary string  `json:"summary,omitempty"`
	Drills  []Drill `json:"drills"`
}

// Drill is something a user does during a session ("A1_D1").
type Drill struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	DrillType string      `json:"drill_type"`
	Config    DrillConfig `json:"config"`
}

// DrillConfig carries the type-specific drill settings.
type DrillConfig struct {
	Questions       []Question     `json:"questions,omitempty"`
	CoachingRules   []CoachingRule `json:"coaching_rules,omitempty"`
	TimeLimit       int            `json:"time_limit,omitempty"`
	GoalSuggestions []string       `json:"goal_suggestions,omitempty"`
}

// Question covers both check-in questions (Label/Type) and quiz questions
// (Question/Options/Correct/Explanation).
type Question struct {
	ID          string   `json:"id"`
	Type        string   `json:"type,omitempty"`
	Label       string   `json:"label,omitempty"`
	Question    string   `json:"question,omitempty"`
	Options     []string `json:"options,omitempty"`
	Correct     string   `json:"correct,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Required    bool     `json:"required,omitempty"`
	UserFilter  []string `json:"user_filter,omitempty"`
	Min         *int     `json:"min,omitempty"`
	Max         *int     `json:"max,omitempty"`
	Default     *int     `json:"default,omitempty"`
	MaxLength   int      `json:"max_length,omitempty"`
}

// CoachingRule maps a condition on an answer to feedback and a follow-up task.
type CoachingRule struct {
	Condition Condition `json:"condition"`
	Feedback  string    `json:"feedback,omitempty"`
	NextTask  string    `json:"next_task,omitempty"`
}

// Condition compares the answer for Field with Value using Operator.
type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// VisibleTo reports whether the question is shown to a user known by any of
// names (username, display name). Filter entries compare case-insensitively.
func (q Question) VisibleTo(names ...string) bool {
	if len(q.UserFilter) == 0 {
		return true
	}
	for _, u := range q.UserFilter {
		for _, name := range names {
			if name != "" && strings.EqualFold(u, name) {
				return true
			}
		}
	}
	return false
}

// SliderBounds returns min, max and default for a slider question (1, 5, 3 when unset).
func (q Question) SliderBounds() (lo, hi, def int) {
	lo, hi, def = 1, 5, 3
	if q.Min != nil {
		lo = *q.Min
	}
	if q.Max != nil {
		hi = *q.Max
	}
	if q.Default != nil {
		def = *q.Default
	}
	return lo, hi, def
}

// TextLimit returns the max length for a text question (120 when unset).
func (q Question) TextLimit() int {
	if q.MaxLength > 0 {
		return q.MaxLength
	}
	return 120
}

// ModuleSummary is a flattened module with its track context.
type ModuleSummary struct {
	TrackID       string `json:"track_id"`
	TrackTitle    string `json:"track_title"`
	ModuleID      string `json:"module_id"`
	ModuleTitle   string `json:"module_title"`
	ModuleSummary string `json:"module_summary"`
	DrillCount    int    `json:"drill_count"`
}

// DrillSummary is a drill entry for selection lists.
type DrillSummary struct {
	DrillID    string `json:"drill_id"`
	DrillTitle string `json:"drill_title"`
	DrillType  string `json:"drill_type"`
}

// Stats counts the nodes of the tree.
type Stats struct {
	Tracks  int `json:"tracks"`
	Modules int `json:"modules"`
	Drills  int `json:"drills"`
}

// Track returns the track with the given id.
func (c Curriculum) Track(id string) (Track, bool) {
	for _, t := range c.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// Module looks a module up through its track; the track id is the first
// character of the module id.
func (c Curriculum) Module(moduleID string) (Module, bool) {
	if moduleID == "" {
		return Module{}, false
	}
	track, ok := c.Track(moduleID[:1])
	if !ok {
		return Module{}, false
	}
	for _, m := range track.Modules {
		if m.ID == moduleID {
			return m, true
		}
	}
	return Module{}, false
}

// Drill returns the drill with drillID inside moduleID.
func (c Curriculum) Drill(moduleID, drillID string) (Drill, bool) {
	module, ok := c.Module(moduleID)
	if !ok {
		return Drill{}, false
	}
	for _, d := range module.Drills {
		if d.ID == drillID {
			return d, true
		}
	}
	return Drill{}, false
}

// ListModules flattens every module with its track context, in file order.
func (c Curriculum) ListModules() []ModuleSummary {
	modules := []ModuleSummary{}
	for _, t := range c.Tracks {
		for _, m := range t.Modules {
			modules = append(modules, ModuleSummary{
				TrackID:       t.ID,
				TrackTitle:    t.Title,
				ModuleID:      m.ID,
				ModuleTitle:   m.Title,
				ModuleSummary: m.Summary,
				DrillCount:    len(m.Drills),
			})
		}
	}
	return modules
}

// ListDrills lists the drills of a module; unknown modules yield an empty list.
func (c Curriculum) ListDrills(moduleID string) []DrillSummary {
	drills := []DrillSummary{}
	module, ok := c.Module(moduleID)
	if !ok {
		return drills
	}
	for _, d := range module.Drills {
		drills = append(drills, DrillSummary{DrillID: d.ID, DrillTitle: d.Title, DrillType: d.DrillType})
	}
	return drills
}

// Stats counts tracks, modules and drills.
func (c Curriculum) Stats() Stats {
	s := Stats{Tracks: len(c.Tracks)}
	for _, t := range c.Tracks {
		s.Modules += len(t.Modules)
		for _, m := range t.Modules {
			s.Drills += len(m.Drills)
		}
	}
	return s
}

// FilterTracks returns the tracks matching trackID, or all tracks when trackID is empty.
func (c Curriculum) FilterTracks(trackID string) []Track {
	if trackID == "" {
		return c.Tracks
	}
	var out []Track
	for _, t := range c.Tracks {
		if strings.EqualFold(t.ID, trackID) {
			out = append(out, t)
		}
	}
	return out
}
