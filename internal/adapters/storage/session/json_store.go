package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"matchhub/internal/adapters/storage"
	domain "matchhub/internal/domain/session"
)

// ErrInvalidID is returned for ids that cannot be used as file names.
var ErrInvalidID = errors.New("invalid session id")

// JSONStore keeps one <session_id>.json file per session in a directory.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore creates a store rooted at dir. The directory is created on first write.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Get loads a session by id.
// PRE: id is a session id
// POST: Returns the session or domain.ErrSessionNotFound
func (s *JSONStore) Get(_ context.Context, id string) (domain.Session, error) {
	p, err := s.path(id)
	if err != nil {
		return domain.Session{}, err
	}
	var sess domain.Session
	if err := storage.ReadJSON(p, &sess); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return domain.Session{}, err
	}
	return sess, nil
}

// Exists reports whether a file for id exists.
func (s *JSONStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Save writes the session, replacing any earlier version.
// PRE: sess has been validated
// POST: <dir>/<session_id>.json holds sess
func (s *JSONStore) Save(_ context.Context, sess domain.Session) error {
	p, err := s.path(sess.SessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.WriteJSON(p, sess)
}

// List returns matching sessions, newest first. Unreadable files are skipped.
func (s *JSONStore) List(_ context.Context, filter ListFilter) ([]domain.Session, error) {
	files, err := storage.ListJSON(s.dir)
	if err != nil {
		return nil, err
	}
	sessions := []domain.Session{}
	for _, f := range files {
		var sess domain.Session
		if err := storage.ReadJSON(f, &sess); err != nil {
			slog.Warn("session_event", "event", "session_file_skipped", "file", filepath.Base(f), "error", err)
			continue
		}
		if filter.User != "" && sess.User != filter.User {
			continue
		}
		if filter.ModuleID != "" && sess.ModuleID != filter.ModuleID {
			continue
		}
		if filter.State != "" && sess.State != filter.State {
			continue
		}
		sessions = append(sessions, sess)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Active returns the newest active session of user.
func (s *JSONStore) Active(ctx context.Context, user string) (domain.Session, bool, error) {
	sessions, err := s.List(ctx, ListFilter{User: user, State: domain.StateActive})
	if err != nil {
		return domain.Session{}, false, err
	}
	if len(sessions) == 0 {
		return domain.Session{}, false, nil
	}
	return sessions[0], true, nil
}
