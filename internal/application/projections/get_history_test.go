package projections

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"matchhub/internal/application/listutil"
	"matchhub/internal/domain/session"
)

func historySessions() *mockSessions {
	return &mockSessions{sessions: []session.Session{
		testSession("s4", "martin", "A1", session.StateActive, 0),
		testSession("s3", "christoph", "B1", session.StateDone, 5),
		testSession("s2", "martin", "A1", session.StateDone, 4),
		testSession("s1", "martin", "A1", session.StateDone, 1),
		testSession("s0", "martin", "Z9", session.StateCancelled, 0),
	}}
}

func TestQueryGetHistory_Filters(t *testing.T) {
	deps := GetHistoryDeps{Sessions: historySessions(), Curriculum: staticCurriculum{cur: testCurriculum()}}
	q := url.Values{"user": {"martin"}, "state": {"done"}}

	got, err := QueryGetHistory(context.Background(), GetHistoryQuery{
		Filters: listutil.ParseFilters(q, HistoryFilterKeys...),
		Page:    listutil.ParsePageParams(q),
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []string
	for _, s := range got.Sessions {
		ids = append(ids, s.SessionID)
	}
	if diff := cmp.Diff([]string{"s2", "s1"}, ids); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}
	if got.Sessions[0].ModuleTitle != "Defensive Zone" {
		t.Errorf("ModuleTitle = %q", got.Sessions[0].ModuleTitle)
	}
	if got.Matched != 2 || got.Total != 5 {
		t.Errorf("Matched=%d Total=%d", got.Matched, got.Total)
	}

	wantOptions := HistoryOptions{
		Users:   []string{"alle", "christoph", "martin"},
		Modules: []string{"alle", "A1", "B1", "Z9"},
		States:  []string{"alle", "active", "cancelled", "done"},
	}
	if diff := cmp.Diff(wantOptions, got.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if got.Filters["module"] != listutil.All {
		t.Errorf("module filter = %q, want alle", got.Filters["module"])
	}
}

func TestQueryGetHistory_NoFilters(t *testing.T) {
	deps := GetHistoryDeps{Sessions: historySessions(), Curriculum: staticCurriculum{cur: testCurriculum()}}
	got, err := QueryGetHistory(context.Background(), GetHistoryQuery{Page: listutil.PageParams{Page: 1, PerPage: 10}}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Sessions) != 5 || got.Sessions[0].SessionID != "s4" {
		t.Errorf("expected all sessions newest first, got %d", len(got.Sessions))
	}
	if got.Sessions[4].ModuleTitle != "" {
		t.Errorf("unknown module should have no title, got %q", got.Sessions[4].ModuleTitle)
	}
}

func TestQueryGetProgress(t *testing.T) {
	deps := GetProgressDeps{Sessions: historySessions(), Curriculum: staticCurriculum{cur: testCurriculum()}}
	got, err := QueryGetProgress(context.Background(), GetProgressQuery{User: "martin"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Total != 4 || got.Completed != 2 || got.Active != 1 || got.Cancelled != 1 || got.ModulesTouched != 2 {
		t.Errorf("unexpected totals: %+v", got)
	}

	want := []ModuleProgress{
		{ModuleID: "A1", ModuleTitle: "Defensive Zone", Sessions: 3, AvgHelpfulness: 2.5, Stars: "⭐⭐"},
		{ModuleID: "Z9", Sessions: 1},
	}
	if diff := cmp.Diff(want, got.Modules); diff != "" {
		t.Errorf("modules mismatch (-want +got):\n%s", diff)
	}

	if len(got.Tracks) != 1 {
		t.Fatalf("expected only track A, got %+v", got.Tracks)
	}
	track := got.Tracks[0]
	if track.TrackID != "A" || track.Touched != 1 || track.Total != 2 || track.Percent != 50 {
		t.Errorf("unexpected track: %+v", track)
	}
}

func TestQueryGetProgress_StarsRoundHalfToEven(t *testing.T) {
	tests := []struct {
		ratings []int
		want    string
	}{
		{[]int{2, 3}, "⭐⭐"},
		{[]int{3, 4}, "⭐⭐⭐⭐"},
		{[]int{4, 5}, "⭐⭐⭐⭐"},
		{[]int{2, 3, 3}, "⭐⭐⭐"},
	}
	for _, tt := range tests {
		var sessions []session.Session
		for i, r := range tt.ratings {
			sessions = append(sessions, testSession(string(rune('a'+i)), "martin", "A1", session.StateDone, r))
		}
		deps := GetProgressDeps{Sessions: &mockSessions{sessions: sessions}, Curriculum: staticCurriculum{cur: testCurriculum()}}
		got, err := QueryGetProgress(context.Background(), GetProgressQuery{User: "martin"}, deps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Modules) != 1 || got.Modules[0].Stars != tt.want {
			t.Errorf("ratings %v: modules = %+v, want stars %q", tt.ratings, got.Modules, tt.want)
		}
	}
}

func TestQueryGetProgress_NoSessions(t *testing.T) {
	deps := GetProgressDeps{Sessions: &mockSessions{}, Curriculum: staticCurriculum{cur: testCurriculum()}}
	got, err := QueryGetProgress(context.Background(), GetProgressQuery{User: "martin"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Total != 0 || len(got.Modules) != 0 || len(got.Tracks) != 0 {
		t.Errorf("expected empty progress, got %+v", got)
	}
}
