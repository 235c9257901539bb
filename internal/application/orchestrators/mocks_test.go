package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	accountStore "matchhub/internal/adapters/storage/account"
	"matchhub/internal/domain/account"
	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/league"
	"matchhub/internal/domain/refresh"
	"matchhub/internal/domain/session"
	"matchhub/internal/domain/submission"
)

var fixedTime = time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// sequentialIDs returns a goroutine-safe id generator: id-1, id-2, ...
func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

// --- accounts ---

type mockAccountStore struct {
	accounts map[string]account.Account
	saves    int
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: make(map[string]account.Account)}
	for _, a := range accts {
		m.accounts[a.Username] = a
	}
	return m
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	a, ok := m.accounts[username]
	if !ok {
		return account.Account{}, accountStore.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.saves++
	m.accounts[a.Username] = a
	return nil
}

func (m *mockAccountStore) List(_ context.Context) ([]account.Account, error) {
	out := make([]account.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// --- sessions ---

type mockSessionStore struct {
	sessions map[string]session.Session
	saveErr  error
}

func newMockSessionStore(sessions ...session.Session) *mockSessionStore {
	m := &mockSessionStore{sessions: make(map[string]session.Session)}
	for _, s := range sessions {
		m.sessions[s.SessionID] = s
	}
	return m
}

func (m *mockSessionStore) Get(_ context.Context, id string) (session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockSessionStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.sessions[id]
	return ok, nil
}

func (m *mockSessionStore) Save(_ context.Context, s session.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.SessionID] = s
	return nil
}

func (m *mockSessionStore) Active(_ context.Context, user string) (session.Session, bool, error) {
	for _, s := range m.sessions {
		if s.User == user && s.IsActive() {
			return s, true, nil
		}
	}
	return session.Session{}, false, nil
}

// --- curriculum ---

type staticCurriculum struct {
	cur curriculum.Curriculum
	err error
}

func (s staticCurriculum) Curriculum(context.Context) (curriculum.Curriculum, error) {
	return s.cur, s.err
}

func intPtr(v int) *int { return &v }

func testCurriculum() curriculum.Curriculum {
	return curriculum.Curriculum{Tracks: []curriculum.Track{{
		ID:    "A",
		Title: "Grundlagen",
		Modules: []curriculum.Module{{
			ID:    "A1",
			Title: "Defensive Zone",
			Drills: []curriculum.Drill{
				{
					ID:        "A1_D1",
					Title:     "Dreiecke erkennen",
					DrillType: curriculum.DrillTypePeriodCheckIn,
					Config: curriculum.DrillConfig{
						Questions: []curriculum.Question{
							{ID: "triangles", Type: curriculum.QuestionSlider, Label: "Wie oft Dreiecke?", Min: intPtr(1), Max: intPtr(5), Default: intPtr(3)},
							{ID: "zone", Type: curriculum.QuestionRadio, Label: "Welche Zone?", Options: []string{"Box", "Man"}},
							{ID: "note", Type: curriculum.QuestionText, Label: "Notiz"},
						},
						CoachingRules: []curriculum.CoachingRule{{
							Condition: curriculum.Condition{Field: "triangles", Operator: "<=", Value: 2},
							Feedback:  "Achte auf den Slot.",
							NextTask:  "In P{next_period} auf den Center schauen",
						}},
					},
				},
				{
					ID:        "A1_Q1",
					Title:     "Begriffe",
					DrillType: curriculum.DrillTypeMicroQuiz,
					Config: curriculum.DrillConfig{
						Questions: []curriculum.Question{
							{ID: "q1", Question: "Was ist ein Icing?", Options: []string{"A", "B"}, Correct: "A"},
							{ID: "q2", Question: "Was ist ein Offside?", Options: []string{"A", "B"}, Correct: "B"},
						},
					},
				},
			},
		}},
	}}}
}

// --- submissions ---

type mockSubmissionStore struct {
	moods        map[string]submission.Mood
	observations map[string]submission.Observation
}

func newMockSubmissionStore() *mockSubmissionStore {
	return &mockSubmissionStore{
		moods:        make(map[string]submission.Mood),
		observations: make(map[string]submission.Observation),
	}
}

func (m *mockSubmissionStore) SaveMood(_ context.Context, mood submission.Mood) (string, error) {
	name := submission.FileName(mood.User, mood.Game)
	m.moods[name] = mood
	return name, nil
}

func (m *mockSubmissionStore) GetObservation(_ context.Context, user string, g submission.Game) (submission.Observation, bool, error) {
	o, ok := m.observations[submission.FileName(user, g)]
	return o, ok, nil
}

func (m *mockSubmissionStore) SaveObservation(_ context.Context, o submission.Observation) (string, error) {
	name := submission.FileName(o.User, o.Game)
	m.observations[name] = o
	return name, nil
}

// --- league ---

type mockFetcher struct {
	standings    league.Table
	standingsErr error
	fixtures     []league.Fixture
	fixturesErr  error
	recent       map[string]league.TeamForm
	recentErr    map[string]error

	mu           sync.Mutex
	recentCalled []string
}

func (m *mockFetcher) FetchStandings(context.Context) (league.Table, error) {
	return m.standings, m.standingsErr
}

func (m *mockFetcher) FetchFixtures(context.Context) ([]league.Fixture, error) {
	return m.fixtures, m.fixturesErr
}

func (m *mockFetcher) FetchRecent(_ context.Context, team string) (league.TeamForm, error) {
	m.mu.Lock()
	m.recentCalled = append(m.recentCalled, team)
	m.mu.Unlock()
	if err := m.recentErr[team]; err != nil {
		return league.TeamForm{}, err
	}
	form, ok := m.recent[team]
	if !ok {
		return league.TeamForm{}, errors.New("no page")
	}
	return form, nil
}

type mockRefreshLog struct {
	mu       sync.Mutex
	attempts []refresh.Attempt
	err      error
}

func (m *mockRefreshLog) Save(_ context.Context, a refresh.Attempt) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *mockRefreshLog) bySource() map[string]refresh.Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]refresh.Attempt, len(m.attempts))
	for _, a := range m.attempts {
		out[a.Source] = a
	}
	return out
}
