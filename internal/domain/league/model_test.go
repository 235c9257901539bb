package league_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"matchhub/internal/domain/league"
)

func TestClean(t *testing.T) {
	if got := league.Clean("  ERC \n  Ingolstadt\t"); got != "ERC Ingolstadt" {
		t.Errorf("Clean() = %q", got)
	}
}

func TestParseGermanDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "Freitag, 02.01.2026", want: "2026-01-02", wantOK: true},
		{in: "02.01.2026", want: "2026-01-02", wantOK: true},
		{in: " 28.12.2025 ", want: "2025-12-28", wantOK: true},
		{in: "2026-01-02", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, ok := league.ParseGermanDate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseGermanDate(%q) ok = %v", tt.in, ok)
			}
			if ok && d.Format(league.DateLayout) != tt.want {
				t.Errorf("ParseGermanDate(%q) = %s, want %s", tt.in, d.Format(league.DateLayout), tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	for in, want := range map[string]bool{"19:30": true, " 14:00 ": true, "9:30": false, "19:30 Uhr": false, "": false} {
		if _, ok := league.ParseClock(in); ok != want {
			t.Errorf("ParseClock(%q) ok = %v, want %v", in, ok, want)
		}
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in   string
		want league.Score
		ok   bool
	}{
		{in: "3 - 2", want: league.Score{Home: 3, Away: 2}, ok: true},
		{in: "2-3 (OT)", want: league.Score{Home: 2, Away: 3, Overtime: true}, ok: true},
		{in: "4 - 3 n.P.", want: league.Score{Home: 4, Away: 3, Shootout: true}, ok: true},
		{in: "1 - 2 n.V.", want: league.Score{Home: 1, Away: 2, Overtime: true}, ok: true},
		{in: "-:-", ok: false},
	}
	for _, tt := range tests {
		got, ok := league.ParseScore(tt.in)
		if ok != tt.ok {
			t.Fatalf("ParseScore(%q) ok = %v", tt.in, ok)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseScore(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestFaceoff(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	d, _ := league.ParseGermanDate("02.01.2026")
	got, ok := league.Faceoff(d, "19:30", berlin)
	if !ok || got != "2026-01-02T19:30+01:00" {
		t.Errorf("Faceoff() = %q, %v", got, ok)
	}
}

func TestResultFor(t *testing.T) {
	tests := []struct {
		team, opp int
		ot        bool
		want      string
	}{
		{3, 1, false, league.ResultWin},
		{1, 3, false, league.ResultLoss},
		{4, 3, true, league.ResultOvertimeWin},
		{2, 3, true, league.ResultOvertimeLoss},
		{2, 2, false, league.ResultTie},
	}
	for _, tt := range tests {
		if got := league.ResultFor(tt.team, tt.opp, tt.ot); got != tt.want {
			t.Errorf("ResultFor(%d, %d, %v) = %s, want %s", tt.team, tt.opp, tt.ot, got, tt.want)
		}
	}
}

func TestFormOf(t *testing.T) {
	results := []string{"W", "W", "OTL", "L", "OTW", "W", "L", "W", "OTL", "W", "L", "L"}
	games := make([]league.RecentGame, len(results))
	for i, r := range results {
		games[i] = league.RecentGame{Result: r}
	}
	form := league.FormOf("ERC Ingolstadt", games)
	if form.Last10Form != "5-2" {
		t.Errorf("Last10Form = %q, want 5-2", form.Last10Form)
	}
	if form.Last10OT != "1-2" {
		t.Errorf("Last10OT = %q, want 1-2", form.Last10OT)
	}
	if len(form.RecentGames) != league.RecentLimit {
		t.Errorf("len(RecentGames) = %d", len(form.RecentGames))
	}
	if empty := league.FormOf("X", nil); empty.Last10Form != "0-0" || empty.RecentGames == nil {
		t.Errorf("FormOf(nil) = %+v", empty)
	}
}

func TestPickNextGame(t *testing.T) {
	today := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	fixtures := []league.Fixture{
		{Date: "2026-01-01", Time: "19:30", Home: "ERC Ingolstadt", Away: "Kölner Haie"},
		{Date: "2026-01-04", Time: "14:00", Home: "Adler Mannheim", Away: "ERC Ingolstadt"},
		{Date: "2026-01-02", Home: "ERC Ingolstadt", Away: "Eisbären Berlin"},
		{Date: "2026-01-02", Time: "19:30", Home: "Straubing Tigers", Away: "ERC Ingolstadt"},
		{Date: "2026-01-02", Time: "16:30", Home: "Kölner Haie", Away: "Adler Mannheim"},
		{Date: "kaputt", Home: "ERC Ingolstadt", Away: "X"},
	}
	got, ok := league.PickNextGame(fixtures, "ERC Ingolstadt", today)
	if !ok {
		t.Fatal("PickNextGame() found nothing")
	}
	if got.Home != "Straubing Tigers" {
		t.Errorf("PickNextGame() = %+v, want timed game of today first", got)
	}
	if got.Opponent("ERC Ingolstadt") != "Straubing Tigers" {
		t.Errorf("Opponent() = %q", got.Opponent("ERC Ingolstadt"))
	}
	if _, ok := league.PickNextGame(fixtures, "Dresdner Eislöwen", today); ok {
		t.Error("expected no game for team without fixtures")
	}
}

func TestFindTeamRow(t *testing.T) {
	table := league.Table{
		Columns: []string{"Platz", "Team", "Punkte"},
		Rows: []league.Row{
			{"Platz": "1", "Team": "KEC", "Punkte": "60"},
			{"Platz": "2", "Team": " ERC  Ingolstadt ", "Punkte": "58"},
		},
	}
	row, ok := league.FindTeamRow(table, "ERC Ingolstadt")
	if !ok || row["Punkte"] != "58" {
		t.Errorf("FindTeamRow(full name) = %v, %v", row, ok)
	}
	row, ok = league.FindTeamRow(table, "Kölner Haie")
	if !ok || row["Platz"] != "1" {
		t.Errorf("FindTeamRow(short code) = %v, %v", row, ok)
	}
	if _, ok := league.FindTeamRow(table, "Dresdner Eislöwen"); ok {
		t.Error("expected no row")
	}
}

func TestDedupeFixtures(t *testing.T) {
	md := 5
	in := []league.Fixture{
		{Date: "2026-01-02", Time: "19:30", Home: "A", Away: "B"},
		{Date: "2026-01-03", Time: "19:30", Home: "C", Away: "D"},
		{Date: "2026-01-02", Time: "19:30", Home: "A", Away: "B", Matchday: &md},
	}
	got := league.DedupeFixtures(in)
	if len(got) != 2 || got[0].Matchday == nil || *got[0].Matchday != 5 || got[1].Home != "C" {
		t.Errorf("DedupeFixtures() = %+v", got)
	}
}

func TestTeams(t *testing.T) {
	if code, _ := league.ShortCode("Red Bull München"); code != "RBM" {
		t.Errorf("ShortCode() = %q", code)
	}
	if slug, _ := league.Slug("Dresdner Eislöwen"); slug != "dresdner-eislowen" {
		t.Errorf("Slug() = %q", slug)
	}
	if key := league.RecentCacheKey("ERC Ingolstadt"); key != "recent_ing" {
		t.Errorf("RecentCacheKey() = %q", key)
	}
	if key := league.RecentCacheKey("Düsseldorfer EG"); key != "recent_düsseldorfer_eg" {
		t.Errorf("RecentCacheKey(unmapped) = %q", key)
	}
	if len(league.TeamNames()) != 13 {
		t.Errorf("TeamNames() = %d teams", len(league.TeamNames()))
	}
}
