package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"matchhub/internal/adapters/email"
	"matchhub/internal/adapters/http/middleware"
	accountStore "matchhub/internal/adapters/storage/account"
	cacheStore "matchhub/internal/adapters/storage/cache"
	sessionStore "matchhub/internal/adapters/storage/session"
	submissionStore "matchhub/internal/adapters/storage/submission"
	"matchhub/internal/domain/account"
	"matchhub/internal/domain/cache"
	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/glossary"
	"matchhub/internal/domain/league"
	"matchhub/internal/domain/refresh"
)

// --- Mock stores ---

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]account.Account
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[username]; ok {
		return a, nil
	}
	return account.Account{}, accountStore.ErrNotFound
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.Username] = a
	return nil
}

func (m *mockAccountStore) List(_ context.Context) ([]account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []account.Account
	for _, a := range m.accounts {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

type mockRefreshLog struct {
	mu       sync.Mutex
	attempts []refresh.Attempt
}

func (m *mockRefreshLog) Save(_ context.Context, a refresh.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append([]refresh.Attempt{a}, m.attempts...)
	return nil
}

func (m *mockRefreshLog) ListRecent(_ context.Context, limit int) ([]refresh.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > 0 && limit < len(m.attempts) {
		return m.attempts[:limit], nil
	}
	return m.attempts, nil
}

func (m *mockRefreshLog) LastSuccess(_ context.Context, source string) (refresh.Attempt, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.Source == source && a.OK {
			return a, true, nil
		}
	}
	return refresh.Attempt{}, false, nil
}

type mockContent struct {
	cur      curriculum.Curriculum
	glossary glossary.Glossary // nil means the file is missing
}

func (m mockContent) Curriculum(context.Context) (curriculum.Curriculum, error) {
	return m.cur, nil
}

func (m mockContent) Glossary(context.Context) (glossary.Glossary, bool, error) {
	return m.glossary, m.glossary != nil, nil
}

type mockFetcher struct {
	table    league.Table
	fixtures []league.Fixture
}

func (m mockFetcher) FetchStandings(context.Context) (league.Table, error) {
	return m.table, nil
}

func (m mockFetcher) FetchFixtures(context.Context) ([]league.Fixture, error) {
	return m.fixtures, nil
}

func (m mockFetcher) FetchRecent(_ context.Context, team string) (league.TeamForm, error) {
	return league.FormOf(team, nil), nil
}

type mockSender struct {
	mu   sync.Mutex
	sent []email.Message
}

func (m *mockSender) Send(_ context.Context, msg email.Message) (email.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return email.Receipt{MessageID: "msg-1"}, nil
}

// --- Fixtures ---

const testPassword = "geheim123"

var martinSession = middleware.Session{Username: "martin", Name: "Martin", Role: account.RoleUser}

var christophSession = middleware.Session{Username: "christoph", Name: "Christoph", Role: account.RoleAdmin}

var nextGame = league.Fixture{Date: "2099-01-04", Time: "14:00", Home: "Kölner Haie", Away: league.FocusTeam}

var testTable = league.Table{
	Columns: []string{"Platz", "Team", "Punkte"},
	Rows: []league.Row{
		{"Platz": "1", "Team": "Kölner Haie", "Punkte": "68"},
		{"Platz": "2", "Team": league.FocusTeam, "Punkte": "64"},
	},
}

func testCurriculum() curriculum.Curriculum {
	return curriculum.Curriculum{Tracks: []curriculum.Track{
		{ID: "A", Title: "Grundlagen", Modules: []curriculum.Module{
			{ID: "A1", Title: "Defensive Zone", Summary: "**Dreiecke** bilden", Drills: []curriculum.Drill{
				{ID: "A1_D1", Title: "Dreiecke", DrillType: curriculum.DrillTypePeriodCheckIn, Config: curriculum.DrillConfig{
					Questions: []curriculum.Question{
						{ID: "triangles", Type: curriculum.QuestionSlider, Label: "Dreiecke gesehen"},
						{ID: "note", Type: curriculum.QuestionText, Label: "Notiz"},
					},
				}},
				{ID: "A1_Q1", Title: "Quiz", DrillType: curriculum.DrillTypeMicroQuiz, Config: curriculum.DrillConfig{
					TimeLimit: 45,
					Questions: []curriculum.Question{{ID: "icing", Question: "Icing?", Options: []string{"A", "B"}, Correct: "A"}},
				}},
			}},
		}},
	}}
}

// newTestStores wires fresh stores into the package globals.
func newTestStores(t *testing.T) *Stores {
	t.Helper()
	dir := t.TempDir()

	martin := account.Account{Username: "martin", Name: "Martin", Role: account.RoleUser}
	if err := martin.SetPassword(testPassword); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	christoph := account.Account{Username: "christoph", Name: "Christoph", Email: "christoph@example.com", Role: account.RoleAdmin}
	if err := christoph.SetPassword(testPassword); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	s := &Stores{
		AccountStore:    &mockAccountStore{accounts: map[string]account.Account{"martin": martin, "christoph": christoph}},
		SessionStore:    sessionStore.NewJSONStore(filepath.Join(dir, "sessions")),
		SubmissionStore: submissionStore.NewJSONStore(filepath.Join(dir, "submissions")),
		CacheStore:      cacheStore.NewJSONStore(filepath.Join(dir, "cache")),
		RefreshLogStore: &mockRefreshLog{},
		Content:         mockContent{cur: testCurriculum()},
	}
	stores = s
	opts = withDefaults(Options{Location: time.UTC})
	sessions = middleware.NewSessionStore(time.Hour)
	perfCollector = nil
	return s
}

// seedLeague writes standings and fixtures into the cache.
func seedLeague(t *testing.T, s *Stores) {
	t.Helper()
	fixtures := []league.Fixture{
		{Date: "2020-12-30", Time: "19:30", Home: league.FocusTeam, Away: "Adler Mannheim"},
		nextGame,
	}
	now := time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)
	for key, data := range map[string]any{cache.KeyStandings: testTable, cache.KeyFixtures: fixtures} {
		if err := s.CacheStore.Write(context.Background(), key, cache.NewEntry(data, now, time.UTC)); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx)
}

// htmlRequest is authRequest for a browser.
func htmlRequest(method, url string, body string, sess middleware.Session) *http.Request {
	req := authRequest(method, url, body, sess)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return req
}
