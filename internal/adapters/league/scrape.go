package league

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/net/html"

	"matchhub/internal/domain/league"
)

// FetchStandings scrapes the standings page.
func (c *Client) FetchStandings(ctx context.Context) (league.Table, error) {
	doc, err := c.fetch(ctx, c.cfg.StandingsURL)
	if err != nil {
		return league.Table{}, err
	}
	return ParseStandings(doc)
}

// FetchFixtures scrapes the season schedule.
func (c *Client) FetchFixtures(ctx context.Context) ([]league.Fixture, error) {
	doc, err := c.fetch(ctx, c.cfg.FixturesURL)
	if err != nil {
		return nil, err
	}
	return ParseFixtures(doc, c.cfg.Location)
}

// FetchRecent scrapes the last results from team's overview page.
func (c *Client) FetchRecent(ctx context.Context, team string) (league.TeamForm, error) {
	slug, ok := league.Slug(team)
	if !ok {
		return league.TeamForm{}, fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	doc, err := c.fetch(ctx, c.TeamURL(slug))
	if err != nil {
		return league.TeamForm{}, err
	}
	return ParseRecent(doc, team)
}

// ParseStandings reads the first table of the page. Header labels are
// trimmed; the Team column is whitespace-cleaned.
func ParseStandings(doc *html.Node) (league.Table, error) {
	tables := parseTables(doc)
	if len(tables) == 0 {
		return league.Table{}, fmt.Errorf("%w on standings page", ErrNoTable)
	}
	src := tables[0]

	columns := src.Header
	if len(columns) == 0 {
		for i := 0; i < src.width(); i++ {
			columns = append(columns, fmt.Sprint(i))
		}
	}

	out := league.Table{Columns: columns, Rows: make([]league.Row, 0, len(src.Rows))}
	for _, r := range src.Rows {
		row := make(league.Row, len(columns))
		for i, col := range columns {
			row[col] = r.cell(i)
		}
		if _, ok := row["Team"]; ok {
			row["Team"] = league.Clean(row["Team"])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// ParseFixtures reads every table that looks like a schedule: a Datum
// column plus Heim or Gast. Rows need home, away and a parseable date.
// Duplicates are merged by (date, time, home, away).
func ParseFixtures(doc *html.Node, loc *time.Location) ([]league.Fixture, error) {
	tables := parseTables(doc)
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w on fixtures page", ErrNoTable)
	}
	if loc == nil {
		loc = time.Local
	}

	var games []league.Fixture
	for _, t := range tables {
		colDate := t.column("Datum")
		colTime := t.column("Uhrzeit")
		colDay := t.column("Spieltag")
		colHome := t.column("Heim")
		colAway := t.column("Gast")
		if colDate < 0 || (colHome < 0 && colAway < 0) {
			continue
		}

		for _, r := range t.Rows {
			d, ok := league.ParseGermanDate(r.cell(colDate))
			if !ok {
				continue
			}
			home := league.Clean(r.cell(colHome))
			away := league.Clean(r.cell(colAway))
			if home == "" || away == "" {
				continue
			}
			f := league.Fixture{Date: d.Format(league.DateLayout), Home: home, Away: away}
			if clock, ok := league.ParseClock(r.cell(colTime)); ok {
				f.Time = clock
				f.Faceoff, _ = league.Faceoff(d, clock, loc)
			}
			if colDay >= 0 {
				f.Matchday = league.ParseMatchday(r.cell(colDay))
			}
			games = append(games, f)
		}
	}
	return league.DedupeFixtures(games), nil
}

// ParseRecent finds the results table on a team page: at least three
// columns, five rows, and a dd.mm.yyyy date in the first cell. Home and
// away come from the alt text of the row's team-meta logos; scores read
// home first. At most league.RecentLimit games are kept.
func ParseRecent(doc *html.Node, team string) (league.TeamForm, error) {
	var results *htmlTable
	for _, t := range parseTables(doc) {
		if t.width() < 3 || len(t.Rows) < 5 {
			continue
		}
		if league.LooksLikeGermanDate(t.Rows[0].cell(0)) {
			tt := t
			results = &tt
			break
		}
	}

	var games []league.RecentGame
	if results != nil {
		for _, r := range results.Rows {
			g, ok := parseResultRow(r, team)
			if ok {
				games = append(games, g)
			}
		}
	}
	return league.FormOf(team, games), nil
}

func parseResultRow(r htmlRow, team string) (league.RecentGame, bool) {
	d, ok := league.ParseGermanDate(r.cell(0))
	if !ok {
		return league.RecentGame{}, false
	}
	scoreText := r.cell(1)
	score, ok := league.ParseScore(scoreText)
	if !ok {
		return league.RecentGame{}, false
	}
	teams := logoTeams(r.Node)
	if len(teams) < 2 {
		return league.RecentGame{}, false
	}
	home, away := teams[0], teams[1]

	var teamScore, oppScore int
	switch team {
	case home:
		teamScore, oppScore = score.Home, score.Away
	case away:
		teamScore, oppScore = score.Away, score.Home
	default:
		return league.RecentGame{}, false
	}

	g := league.RecentGame{
		Date:          d.Format(league.DateLayout),
		Score:         scoreText,
		Home:          home,
		Away:          away,
		TeamScore:     teamScore,
		OpponentScore: oppScore,
		Result:        league.ResultFor(teamScore, oppScore, score.Extra()),
		Matchday:      league.ParseMatchday(r.cell(2)),
	}
	if score.Extra() {
		g.OTSO = league.OTSOMarker
	}
	return g, true
}

// logoTeams returns the alt texts of figure.team-meta__logo images in row order.
func logoTeams(row *html.Node) []string {
	var names []string
	walk(row, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "figure" || !hasClass(n, "team-meta__logo") {
			return true
		}
		found := false
		walk(n, func(img *html.Node) bool {
			if found {
				return false
			}
			if img.Type == html.ElementNode && img.Data == "img" && attr(img, "alt") != "" {
				names = append(names, attr(img, "alt"))
				found = true
				return false
			}
			return true
		})
		return false
	})
	return names
}
