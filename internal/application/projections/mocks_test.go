package projections

import (
	"context"
	"time"

	sessionStore "matchhub/internal/adapters/storage/session"
	"matchhub/internal/domain/account"
	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/glossary"
	"matchhub/internal/domain/refresh"
	"matchhub/internal/domain/session"
	"matchhub/internal/domain/submission"
)

var fixedTime = time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

type staticCurriculum struct{ cur curriculum.Curriculum }

func (s staticCurriculum) Curriculum(context.Context) (curriculum.Curriculum, error) {
	return s.cur, nil
}

type staticGlossary struct {
	g      glossary.Glossary
	exists bool
}

func (s staticGlossary) Glossary(context.Context) (glossary.Glossary, bool, error) {
	return s.g, s.exists, nil
}

// mockSessions keeps sessions in list order (newest first).
type mockSessions struct {
	sessions []session.Session
}

func (m *mockSessions) List(_ context.Context, f sessionStore.ListFilter) ([]session.Session, error) {
	var out []session.Session
	for _, s := range m.sessions {
		if (f.User == "" || s.User == f.User) && (f.ModuleID == "" || s.ModuleID == f.ModuleID) && (f.State == "" || s.State == f.State) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessions) Active(_ context.Context, user string) (session.Session, bool, error) {
	for _, s := range m.sessions {
		if s.User == user && s.IsActive() {
			return s, true, nil
		}
	}
	return session.Session{}, false, nil
}

type mockAccounts struct{ accounts []account.Account }

func (m mockAccounts) List(context.Context) ([]account.Account, error) { return m.accounts, nil }

type mockMoods struct {
	moods map[string]submission.Mood // keyed by FileName
}

func (m mockMoods) GetMood(_ context.Context, user string, g submission.Game) (submission.Mood, bool, error) {
	mood, ok := m.moods[submission.FileName(user, g)]
	return mood, ok, nil
}

type mockSubmissions struct {
	moods        []submission.Mood
	observations []submission.Observation
}

func (m mockSubmissions) ListMoods(context.Context) ([]submission.Mood, error) { return m.moods, nil }

func (m mockSubmissions) ListObservations(context.Context) ([]submission.Observation, error) {
	return m.observations, nil
}

type mockRefreshLog struct{ attempts []refresh.Attempt }

func (m mockRefreshLog) ListRecent(_ context.Context, limit int) ([]refresh.Attempt, error) {
	if len(m.attempts) > limit {
		return m.attempts[:limit], nil
	}
	return m.attempts, nil
}

func testCurriculum() curriculum.Curriculum {
	return curriculum.Curriculum{Tracks: []curriculum.Track{
		{ID: "A", Title: "Grundlagen", Modules: []curriculum.Module{
			{ID: "A1", Title: "Defensive Zone", Drills: []curriculum.Drill{
				{ID: "A1_D1", Title: "Dreiecke", DrillType: curriculum.DrillTypePeriodCheckIn, Config: curriculum.DrillConfig{
					Questions: []curriculum.Question{
						{ID: "triangles", Type: curriculum.QuestionSlider, Label: "Dreiecke"},
						{ID: "coach", Type: curriculum.QuestionText, Label: "Nur für Christoph", UserFilter: []string{"christoph"}},
					},
				}},
				{ID: "A1_Q1", Title: "Quiz", DrillType: curriculum.DrillTypeMicroQuiz, Config: curriculum.DrillConfig{
					TimeLimit: 45,
					Questions: []curriculum.Question{{Question: "Icing?", Options: []string{"A", "B"}, Correct: "A"}},
				}},
			}},
			{ID: "A2", Title: "Breakout"},
		}},
		{ID: "B", Title: "Special Teams", Modules: []curriculum.Module{
			{ID: "B1", Title: "Powerplay", Drills: []curriculum.Drill{
				{ID: "B1_D1", Title: "Umbrella", DrillType: curriculum.DrillTypePeriodCheckIn},
			}},
		}},
	}}
}

func testSession(id, user, module, state string, helpfulness int) session.Session {
	s := session.Session{
		SessionID: id, User: user, ModuleID: module, DrillID: module + "_D1", State: state,
		Game:      session.Game{Date: "2026-01-02", League: "DEL", Home: "ERC Ingolstadt", Away: "Kölner Haie"},
		Pre:       session.Pre{Confidence: 3},
		CheckIns:  []session.CheckIn{},
		CreatedAt: fixedTime,
	}
	if state == session.StateDone {
		s.Post = &session.Post{Helpfulness: helpfulness}
	}
	return s
}

type mockSubmissionReader struct {
	mockMoods
	observations map[string]submission.Observation // keyed by FileName
}

func (m mockSubmissionReader) GetObservation(_ context.Context, user string, g submission.Game) (submission.Observation, bool, error) {
	o, ok := m.observations[submission.FileName(user, g)]
	return o, ok, nil
}
