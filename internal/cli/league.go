package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cacheStore "matchhub/internal/adapters/storage/cache"
	"matchhub/internal/application/orchestrators"
	"matchhub/internal/application/projections"
	"matchhub/internal/domain/cache"
	"matchhub/internal/domain/league"
)

var recentTeam string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Scrape standings, fixtures and recent results into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := orchestrators.ExecuteRefreshLeague(cmd.Context(), orchestrators.RefreshLeagueInput{
			TriggeredBy: "cli",
			FocusTeam:   cfg.FocusTeam,
		}, orchestrators.RefreshLeagueDeps{
			Fetcher:    newFetcher(cfg),
			Cache:      a.stores.CacheStore,
			RefreshLog: a.stores.RefreshLogStore,
			GenerateID: uuid.NewString,
			Now:        time.Now,
			Location:   cfg.Location(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatReport(report))
		return nil
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the cached league table",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := projections.QueryGetStandings(cmd.Context(), projections.GetStandingsDeps{Cache: a.stores.CacheStore})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatStandings(result, cfg.FocusTeam))
		return nil
	},
}

var nextGameCmd = &cobra.Command{
	Use:   "next-game",
	Short: "Print the next game of the focus team with both teams' form",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := projections.QueryGetMatchOverview(cmd.Context(), projections.GetMatchOverviewQuery{
			FocusTeam: cfg.FocusTeam,
			Today:     time.Now().In(cfg.Location()),
		}, projections.GetMatchOverviewDeps{
			Cache:      a.stores.CacheStore,
			Moods:      a.stores.SubmissionStore,
			Accounts:   a.stores.AccountStore,
			RefreshLog: a.stores.RefreshLogStore,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatOverview(result))
		return nil
	},
}

var recentOTSOCmd = &cobra.Command{
	Use:   "recent-otso",
	Short: "List the cached recent games decided in overtime or shootout",
	Long: `Recent-otso prints the games from a team's recent-results cache that
went past regulation, with the OT/OTW split used by the overview page.

Examples:
  matchhub recent-otso
  matchhub recent-otso --team "Kölner Haie"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		team := recentTeam
		if team == "" {
			team = cfg.FocusTeam
		}
		entry, err := cacheStore.Get[league.TeamForm](cmd.Context(), a.stores.CacheStore, league.RecentCacheKey(team))
		if errors.Is(err, cache.ErrNotFound) {
			return fmt.Errorf("no recent results cached for %s; run matchhub refresh", team)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatOTSO(team, entry))
		return nil
	},
}

func init() {
	recentOTSOCmd.Flags().StringVarP(&recentTeam, "team", "t", "", "full team name (default is the focus team)")
}

func formatReport(r orchestrators.RefreshLeagueReport) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Refresh") + "\n")
	fmt.Fprintf(&b, "standings rows: %d\nfixtures:       %d\n", r.Standings, r.Fixtures)
	if r.NextGame != nil {
		fmt.Fprintf(&b, "next game:      %s %s vs %s\n", r.NextGame.Date, r.NextGame.Home, r.NextGame.Away)
	}
	for _, at := range r.Attempts {
		status := okStyle.Render("ok")
		if !at.OK {
			status = warnStyle.Render("failed")
		}
		fmt.Fprintf(&b, "  %-28s %s %s\n", at.Source, status, mutedStyle.Render(at.Duration.Round(time.Millisecond).String()))
	}
	for _, w := range r.Warnings {
		b.WriteString(warnStyle.Render("! "+w) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStandings(r projections.StandingsResult, focusTeam string) string {
	if !r.Available {
		return mutedStyle.Render("No standings cached yet; run matchhub refresh.")
	}
	rows := make([][]string, 0, len(r.Table.Rows))
	highlight := make(map[int]bool)
	for i, row := range r.Table.Rows {
		cells := make([]string, len(r.Table.Columns))
		for j, col := range r.Table.Columns {
			cells[j] = row[col]
		}
		rows = append(rows, cells)
		if row.Team() == focusTeam {
			highlight[i] = true
		}
	}
	return renderTable(r.Table.Columns, rows, highlight) + "\n" + mutedStyle.Render("Stand: "+r.UpdatedAt)
}

func formatOverview(r projections.MatchOverviewResult) string {
	var b strings.Builder
	if r.NextGame == nil {
		b.WriteString(mutedStyle.Render("No upcoming game for "+r.FocusTeam+" in the cached schedule.") + "\n")
	} else {
		g := r.NextGame
		when := g.Date
		if g.Time != "" {
			when += " " + g.Time
		}
		b.WriteString(boxStyle.Render(titleStyle.Render(g.Home+" vs "+g.Away)+"\n"+when) + "\n")
		b.WriteString(formatSnapshot(r.Focus))
		if r.Opponent != nil {
			b.WriteString(formatSnapshot(*r.Opponent))
		}
		for _, m := range r.Moods {
			if m.Mood == nil {
				fmt.Fprintf(&b, "%s: %s\n", m.Name, mutedStyle.Render("no survey yet"))
				continue
			}
			fmt.Fprintf(&b, "%s: mood %d/5, nervousness %d/5, expects %s\n", m.Name, m.Mood.Mood, m.Mood.Nervousness, m.Mood.Expectation)
		}
	}
	for _, w := range r.Warnings {
		b.WriteString(warnStyle.Render("! "+w) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSnapshot(s projections.TeamSnapshot) string {
	line := titleStyle.Render(s.Team)
	if s.Row != nil {
		line += fmt.Sprintf("  #%s, %s pts", s.Row["Platz"], s.Row["Punkte"])
	}
	if s.Form != nil {
		line += fmt.Sprintf("  last 10: %s (OT %s)", s.Form.Last10Form, s.Form.Last10OT)
	}
	return line + "\n"
}

func formatOTSO(team string, entry cache.Entry[league.TeamForm]) string {
	games := entry.Data.OvertimeGames()
	var b strings.Builder
	b.WriteString(titleStyle.Render(team+": OT/SO games") + "\n")
	if len(games) == 0 {
		b.WriteString(mutedStyle.Render("none in the last "+fmt.Sprint(len(entry.Data.RecentGames))+" games") + "\n")
	}
	for _, g := range games {
		fmt.Fprintf(&b, "%s  %-7s %s %s\n", g.Date, g.Score, resultStyle(g.Result), mutedStyle.Render(g.OTSO))
	}
	fmt.Fprintf(&b, "last 10: %s, OT %s\n", entry.Data.Last10Form, entry.Data.Last10OT)
	b.WriteString(mutedStyle.Render("Stand: " + entry.UpdatedAt))
	return b.String()
}
