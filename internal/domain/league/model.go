package league

import (
	"fmt"
	"sort"
	"time"
)

// Results of a game from one team's perspective.
const (
	ResultWin          = "W"
	ResultLoss         = "L"
	ResultOvertimeWin  = "OTW"
	ResultOvertimeLoss = "OTL"
	ResultTie          = "T"
)

// OTSOMarker flags games decided in overtime or shootout.
const OTSOMarker = "OT/SO"

// RecentLimit is the number of recent games kept per team.
const RecentLimit = 10

// Row is one standings row keyed by column header.
type Row map[string]string

// Team returns the cleaned Team column.
func (r Row) Team() string {
	return Clean(r["Team"])
}

// Table is the league standings with column order preserved.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Fixture is one scheduled game.
type Fixture struct {
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	Matchday *int   `json:"matchday"`
	Home     string `json:"home"`
	Away     string `json:"away"`
	Faceoff  string `json:"faceoff,omitempty"`
}

// Involves reports whether team plays home or away.
func (f Fixture) Involves(team string) bool {
	return f.Home == team || f.Away == team
}

// Opponent returns the other team of a fixture involving team.
func (f Fixture) Opponent(team string) string {
	if f.Home == team {
		return f.Away
	}
	return f.Home
}

// RecentGame is a finished game from one team's perspective.
type RecentGame struct {
	Date          string `json:"date"`
	Score         string `json:"score"`
	Home          string `json:"home,omitempty"`
	Away          string `json:"away,omitempty"`
	TeamScore     int    `json:"team_score"`
	OpponentScore int    `json:"opponent_score"`
	Result        string `json:"result"`
	OTSO          string `json:"ot_so"`
	Matchday      *int   `json:"matchday"`
}

// TeamForm is the recent-results summary of a team.
type TeamForm struct {
	Team        string       `json:"team"`
	Last10Form  string       `json:"last_10_form"`
	Last10OT    string       `json:"last_10_ot"`
	RecentGames []RecentGame `json:"recent_games"`
}

// OvertimeGames returns the games decided after regulation.
func (f TeamForm) OvertimeGames() []RecentGame {
	var out []RecentGame
	for _, g := range f.RecentGames {
		if g.OTSO != "" {
			out = append(out, g)
		}
	}
	return out
}

// ResultFor classifies a game from one team's perspective.
func ResultFor(teamScore, opponentScore int, overtime bool) string {
	switch {
	case teamScore > opponentScore && overtime:
		return ResultOvertimeWin
	case teamScore > opponentScore:
		return ResultWin
	case teamScore < opponentScore && overtime:
		return ResultOvertimeLoss
	case teamScore < opponentScore:
		return ResultLoss
	default:
		return ResultTie
	}
}

// FormOf summarises up to RecentLimit games. Last10Form counts regulation
// wins and losses ("W-L"); Last10OT counts overtime results ("OTW-OTL").
func FormOf(team string, games []RecentGame) TeamForm {
	if len(games) > RecentLimit {
		games = games[:RecentLimit]
	}
	var w, l, otw, otl int
	for _, g := range games {
		switch g.Result {
		case ResultWin:
			w++
		case ResultLoss:
			l++
		case ResultOvertimeWin:
			otw++
		case ResultOvertimeLoss:
			otl++
		}
	}
	if games == nil {
		games = []RecentGame{}
	}
	return TeamForm{
		Team:        team,
		Last10Form:  fmt.Sprintf("%d-%d", w, l),
		Last10OT:    fmt.Sprintf("%d-%d", otw, otl),
		RecentGames: games,
	}
}

// PickNextGame returns the earliest fixture of team on or after today.
// Fixtures without a time sort after timed fixtures of the same day.
func PickNextGame(fixtures []Fixture, team string, today time.Time) (Fixture, bool) {
	day := today.Format(DateLayout)
	var upcoming []Fixture
	for _, f := range fixtures {
		if _, err := time.Parse(DateLayout, f.Date); err != nil {
			continue
		}
		if f.Date < day || !f.Involves(team) {
			continue
		}
		upcoming = append(upcoming, f)
	}
	if len(upcoming) == 0 {
		return Fixture{}, false
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date < upcoming[j].Date
		}
		return sortClock(upcoming[i].Time) < sortClock(upcoming[j].Time)
	})
	return upcoming[0], true
}

// FindTeamRow finds a standings row by full name, then by short code.
func FindTeamRow(t Table, team string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Team() == team {
			return r, true
		}
	}
	if code, ok := ShortCode(team); ok {
		for _, r := range t.Rows {
			if r.Team() == code {
				return r, true
			}
		}
	}
	return nil, false
}

// DedupeFixtures drops repeated (date, time, home, away) entries.
// The last occurrence wins but keeps the position of the first.
func DedupeFixtures(fixtures []Fixture) []Fixture {
	type key struct{ date, clock, home, away string }
	index := make(map[key]int)
	out := make([]Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		k := key{f.Date, f.Time, f.Home, f.Away}
		if i, ok := index[k]; ok {
			out[i] = f
			continue
		}
		index[k] = len(out)
		out = append(out, f)
	}
	return out
}

func sortClock(c string) string {
	if c == "" {
		return "99:99"
	}
	return c
}
