package orchestrators

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/drill"
	"matchhub/internal/domain/session"
)

var testGame = session.Game{Date: "2026-01-02", League: "DEL", Home: "ERC Ingolstadt", Away: "Kölner Haie"}

func startDeps(store *mockSessionStore) StartSessionDeps {
	return StartSessionDeps{
		SessionStore: store,
		Curriculum:   staticCurriculum{cur: testCurriculum()},
		Now:          fixedNow,
	}
}

func checkInDeps(store *mockSessionStore) RecordCheckInDeps {
	return RecordCheckInDeps{
		SessionStore: store,
		Curriculum:   staticCurriculum{cur: testCurriculum()},
		Registry:     drill.DefaultRegistry(),
		GenerateID:   fixedID,
		Now:          fixedNow,
	}
}

func mustStart(t *testing.T, store *mockSessionStore, user, drillID string) session.Session {
	t.Helper()
	s, err := ExecuteStartSession(context.Background(), StartSessionInput{
		User: user, Game: testGame, ModuleID: "A1", DrillID: drillID, Goal: "Dreiecke erkennen", Confidence: 4,
	}, startDeps(store))
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return s
}

func TestExecuteStartSession_Valid(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")

	wantID := "2026-01-02_ERC_Ingolstadt_vs_Kölner_Haie_martin_A1_A1_D1"
	if s.SessionID != wantID {
		t.Errorf("SessionID = %q, want %q", s.SessionID, wantID)
	}
	if s.State != session.StateActive || s.Pre.Confidence != 4 {
		t.Errorf("unexpected session: %+v", s)
	}
	if _, ok := store.sessions[wantID]; !ok {
		t.Error("expected session persisted")
	}
}

func TestExecuteStartSession_CustomGoal(t *testing.T) {
	store := newMockSessionStore()
	s, err := ExecuteStartSession(context.Background(), StartSessionInput{
		User: "martin", Game: testGame, ModuleID: "A1", DrillID: "A1_D1",
		Goal: curriculum.CustomGoal, CustomGoal: "  Gap Control beobachten ",
	}, startDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Pre.Goal != "Gap Control beobachten" {
		t.Errorf("Goal = %q", s.Pre.Goal)
	}
	if s.Pre.Confidence != session.DefaultRating {
		t.Errorf("Confidence = %d, want default", s.Pre.Confidence)
	}
}

func TestExecuteStartSession_RejectsSecondActive(t *testing.T) {
	store := newMockSessionStore()
	mustStart(t, store, "martin", "A1_D1")

	_, err := ExecuteStartSession(context.Background(), StartSessionInput{
		User: "martin", Game: testGame, ModuleID: "A1", DrillID: "A1_Q1",
	}, startDeps(store))
	if !errors.Is(err, session.ErrActiveSessionExists) {
		t.Fatalf("expected ErrActiveSessionExists, got %v", err)
	}

	// The other user is not affected.
	mustStart(t, store, "christoph", "A1_D1")
}

func TestExecuteStartSession_SuffixesTakenID(t *testing.T) {
	store := newMockSessionStore()
	first := mustStart(t, store, "martin", "A1_D1")
	if _, err := ExecuteCancelSession(context.Background(), CancelSessionInput{User: "martin", SessionID: first.SessionID}, SessionLifecycleDeps{SessionStore: store, Now: fixedNow}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	second := mustStart(t, store, "martin", "A1_D1")
	if second.SessionID != first.SessionID+"_2" {
		t.Errorf("SessionID = %q, want suffix _2", second.SessionID)
	}
	if store.sessions[first.SessionID].State != session.StateCancelled {
		t.Error("expected first session untouched")
	}
}

func TestExecuteStartSession_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input StartSessionInput
		want  error
	}{
		{"unknown drill", StartSessionInput{User: "martin", Game: testGame, ModuleID: "A1", DrillID: "A1_X"}, ErrDrillNotFound},
		{"unknown module", StartSessionInput{User: "martin", Game: testGame, ModuleID: "Z9", DrillID: "A1_D1"}, ErrDrillNotFound},
		{"same teams", StartSessionInput{User: "martin", Game: session.Game{Date: "2026-01-02", Home: "ERC Ingolstadt", Away: "ERC Ingolstadt"}, ModuleID: "A1", DrillID: "A1_D1"}, ErrSameTeams},
		{"no user", StartSessionInput{Game: testGame, ModuleID: "A1", DrillID: "A1_D1"}, session.ErrEmptyUser},
		{"bad confidence", StartSessionInput{User: "martin", Game: testGame, ModuleID: "A1", DrillID: "A1_D1", Confidence: 9}, session.ErrInvalidRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockSessionStore()
			_, err := ExecuteStartSession(context.Background(), tt.input, startDeps(store))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if len(store.sessions) != 0 {
				t.Error("expected nothing persisted")
			}
		})
	}
}

func TestExecuteRecordCheckIn_PeriodCheckIn(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")

	form := url.Values{}
	form.Set(drill.FieldName("triangles"), "2")
	form.Set(drill.FieldName("zone"), "Man")
	form.Set(drill.FieldName("note"), "Viel Druck im Slot")

	got, err := ExecuteRecordCheckIn(context.Background(), RecordCheckInInput{
		User: "martin", SessionID: s.SessionID, Phase: session.PhaseP1, Form: form,
	}, checkInDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAnswers := map[string]any{"triangles": 2, "zone": "Man", "note": "Viel Druck im Slot"}
	if diff := cmp.Diff(wantAnswers, got.Result.Answers); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
	if got.Result.Feedback != "Achte auf den Slot." {
		t.Errorf("Feedback = %q", got.Result.Feedback)
	}
	if got.Result.NextTask != "In P2 auf den Center schauen" {
		t.Errorf("NextTask = %q", got.Result.NextTask)
	}

	saved := store.sessions[s.SessionID]
	ci, ok := saved.CheckIn(session.PhaseP1)
	if !ok {
		t.Fatal("expected P1 check-in persisted")
	}
	if ci.ID != "test-id-001" || !ci.Timestamp.Equal(fixedTime) {
		t.Errorf("unexpected check-in: %+v", ci)
	}
	if saved.NextPhase() != session.PhaseP2 {
		t.Errorf("NextPhase = %s, want P2", saved.NextPhase())
	}
}

func TestExecuteRecordCheckIn_UserFilterByDisplayName(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")
	cur := testCurriculum()
	d := &cur.Tracks[0].Modules[0].Drills[0]
	d.Config.Questions = append(d.Config.Questions, curriculum.Question{
		ID: "coach", Type: curriculum.QuestionText, Label: "Nur für Martin", UserFilter: []string{"Martin K."}, Required: true,
	})
	deps := checkInDeps(store)
	deps.Curriculum = staticCurriculum{cur: cur}

	form := url.Values{}
	form.Set(drill.FieldName("zone"), "Box")
	form.Set(drill.FieldName("coach"), "gesehen")

	got, err := ExecuteRecordCheckIn(context.Background(), RecordCheckInInput{
		User: "martin", Name: "Martin K.", SessionID: s.SessionID, Phase: session.PhaseP1, Form: form,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Result.Answers["coach"] != "gesehen" {
		t.Errorf("coach = %v, want the filtered question answered", got.Result.Answers["coach"])
	}
}

func TestExecuteRecordCheckIn_ResubmitReplaces(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")
	deps := checkInDeps(store)

	for _, v := range []string{"1", "5"} {
		form := url.Values{}
		form.Set(drill.FieldName("triangles"), v)
		if _, err := ExecuteRecordCheckIn(context.Background(), RecordCheckInInput{
			User: "martin", SessionID: s.SessionID, Phase: session.PhaseP2, Form: form,
		}, deps); err != nil {
			t.Fatalf("check-in %s: %v", v, err)
		}
	}

	saved := store.sessions[s.SessionID]
	if len(saved.CheckIns) != 1 {
		t.Fatalf("expected one check-in, got %d", len(saved.CheckIns))
	}
	if saved.CheckIns[0].Answers["triangles"] != 5 {
		t.Errorf("expected latest answer, got %v", saved.CheckIns[0].Answers["triangles"])
	}
	if saved.CheckIns[0].Feedback != "" {
		t.Errorf("expected no feedback for 5, got %q", saved.CheckIns[0].Feedback)
	}
}

func TestExecuteRecordCheckIn_MicroQuiz(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_Q1")

	form := url.Values{}
	form.Set(drill.FieldName("q1"), "A")
	form.Set(drill.FieldName("q2"), "A")

	got, err := ExecuteRecordCheckIn(context.Background(), RecordCheckInInput{
		User: "martin", SessionID: s.SessionID, Phase: session.PhaseP3, Form: form,
		StartedAt: fixedTime.Add(-90 * time.Second),
	}, checkInDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Result.Score != 50 || !got.Result.Expired {
		t.Errorf("unexpected result: score=%d expired=%v", got.Result.Score, got.Result.Expired)
	}
	if got.Result.Feedback != "Quiz abgeschlossen: 1/2 richtig (50%)" {
		t.Errorf("Feedback = %q", got.Result.Feedback)
	}
	if !strings.Contains(got.Result.NextTask, "Wiederhole") {
		t.Errorf("NextTask = %q", got.Result.NextTask)
	}
}

func TestExecuteRecordCheckIn_Errors(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")
	deps := checkInDeps(store)
	ctx := context.Background()

	if _, err := ExecuteRecordCheckIn(ctx, RecordCheckInInput{User: "christoph", SessionID: s.SessionID, Phase: session.PhaseP1}, deps); !errors.Is(err, ErrNotSessionOwner) {
		t.Errorf("other user: error = %v", err)
	}
	if _, err := ExecuteRecordCheckIn(ctx, RecordCheckInInput{User: "martin", SessionID: s.SessionID, Phase: session.PhasePost}, deps); !errors.Is(err, session.ErrInvalidPhase) {
		t.Errorf("POST phase: error = %v", err)
	}
	if _, err := ExecuteRecordCheckIn(ctx, RecordCheckInInput{User: "martin", SessionID: "missing", Phase: session.PhaseP1}, deps); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("missing session: error = %v", err)
	}

	bad := url.Values{}
	bad.Set(drill.FieldName("zone"), "Zonen-Mix")
	if _, err := ExecuteRecordCheckIn(ctx, RecordCheckInInput{User: "martin", SessionID: s.SessionID, Phase: session.PhaseP1, Form: bad}, deps); !errors.Is(err, drill.ErrInvalidOption) {
		t.Errorf("invalid option: error = %v", err)
	}

	unknown := store.sessions[s.SessionID]
	unknown.DrillID = "A1_GONE"
	store.sessions[s.SessionID] = unknown
	if _, err := ExecuteRecordCheckIn(ctx, RecordCheckInInput{User: "martin", SessionID: s.SessionID, Phase: session.PhaseP1}, deps); !errors.Is(err, ErrDrillNotFound) {
		t.Errorf("removed drill: error = %v", err)
	}
}

func TestExecuteCompleteSession(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")
	deps := SessionLifecycleDeps{SessionStore: store, Now: fixedNow}

	done, err := ExecuteCompleteSession(context.Background(), CompleteSessionInput{
		User: "martin", SessionID: s.SessionID, Summary: " Dreiecke gesehen ", NextModule: "A2",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.State != session.StateDone || done.Post == nil {
		t.Fatalf("unexpected session: %+v", done)
	}
	if done.Post.Summary != "Dreiecke gesehen" || done.Post.Helpfulness != session.DefaultRating {
		t.Errorf("unexpected post: %+v", done.Post)
	}

	if _, err := ExecuteCompleteSession(context.Background(), CompleteSessionInput{User: "martin", SessionID: s.SessionID}, deps); !errors.Is(err, session.ErrNotActive) {
		t.Errorf("second completion: error = %v", err)
	}
	if _, err := ExecuteCancelSession(context.Background(), CancelSessionInput{User: "martin", SessionID: s.SessionID}, deps); !errors.Is(err, session.ErrNotActive) {
		t.Errorf("cancel after done: error = %v", err)
	}
}

func TestExecuteCompleteSession_InvalidHelpfulness(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")

	_, err := ExecuteCompleteSession(context.Background(), CompleteSessionInput{
		User: "martin", SessionID: s.SessionID, Helpfulness: 7,
	}, SessionLifecycleDeps{SessionStore: store, Now: fixedNow})
	if !errors.Is(err, session.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	stored := store.sessions[s.SessionID]
	if !stored.IsActive() {
		t.Error("expected session to stay active")
	}
}

func TestExecuteCancelSession_SaveError(t *testing.T) {
	store := newMockSessionStore()
	s := mustStart(t, store, "martin", "A1_D1")
	store.saveErr = errors.New("disk full")

	if _, err := ExecuteCancelSession(context.Background(), CancelSessionInput{User: "martin", SessionID: s.SessionID}, SessionLifecycleDeps{SessionStore: store, Now: fixedNow}); err == nil {
		t.Fatal("expected save error")
	}
	stored := store.sessions[s.SessionID]
	if !stored.IsActive() {
		t.Error("expected stored session unchanged")
	}
}
