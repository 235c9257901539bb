package curriculum

// CustomGoal is the option that switches the setup form to a free-text goal.
const CustomGoal = "Eigenes Ziel..."

var drillGoals = map[string][]string{
	"A1_D1": {
		"Dreiecke in der D-Zone bewusst erkennen",
		"Center-Positionierung (low/middle/high) verstehen",
		"Breakout-Qualität bewerten lernen",
		"Forward-Positioning beim Puck-Retrieval beobachten",
		"Dreieck-Stabilität über alle 3 Drittel verfolgen",
	},
	"A1_Q1": {
		"Grundlagen-Wissen zu Rollen festigen",
		"Dreieck-Konzept verinnerlichen",
		"Center-Aufgaben in D-Zone lernen",
		"Begriffe sicher anwenden können",
	},
}

var defaultGoals = []string{
	"Konzepte aus diesem Drill im Spiel erkennen",
	"Bewertungs-Kompetenz entwickeln",
	"System-Reads verbessern",
}

// GoalSuggestions returns the preset goals for a drill followed by CustomGoal.
// Goals configured on the drill win over the built-in lists.
func GoalSuggestions(d Drill) []string {
	var goals []string
	switch {
	case len(d.Config.GoalSuggestions) > 0:
		goals = d.Config.GoalSuggestions
	case len(drillGoals[d.ID]) > 0:
		goals = drillGoals[d.ID]
	default:
		goals = defaultGoals
	}
	out := make([]string, 0, len(goals)+1)
	out = append(out, goals...)
	return append(out, CustomGoal)
}
