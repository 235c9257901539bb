package submission

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
	domain "matchhub/internal/domain/submission"
)

// JSONStore keeps moods and observations in <base>/mood and <base>/observation.
type JSONStore struct {
	base string
	mu   sync.Mutex
}

// NewJSONStore creates a store rooted at base.
func NewJSONStore(base string) *JSONStore {
	return &JSONStore{base: base}
}

// ErrInvalidFileName is returned when a user or game would leave the kind directory.
var ErrInvalidFileName = errors.New("invalid submission file name")

func (s *JSONStore) path(kind, user string, g domain.Game) (string, error) {
	name := domain.FileName(user, g)
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return filepath.Join(s.base, kind, name), nil
}

// SaveMood writes m, overwriting an earlier survey for the same user and game.
// PRE: m has been validated and SubmittedAt is set
// POST: Returns the file name
func (s *JSONStore) SaveMood(_ context.Context, m domain.Mood) (string, error) {
	p, err := s.path(domain.KindMood, m.User, m.Game)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.WriteJSON(p, m); err != nil {
		return "", err
	}
	return filepath.Base(p), nil
}

// GetMood loads the survey of user for game.
func (s *JSONStore) GetMood(_ context.Context, user string, g domain.Game) (domain.Mood, bool, error) {
	var m domain.Mood
	p, err := s.path(domain.KindMood, user, g)
	if err != nil {
		return m, false, err
	}
	ok, err := readOptional(p, &m)
	return m, ok, err
}

// ListMoods returns every survey, file names descending (newest game first).
func (s *JSONStore) ListMoods(_ context.Context) ([]domain.Mood, error) {
	return listKind[domain.Mood](filepath.Join(s.base, domain.KindMood))
}

// SaveObservation writes o, overwriting an earlier file for the same user and game.
// PRE: o has been validated and SubmittedAt is set
// POST: Returns the file name
func (s *JSONStore) SaveObservation(_ context.Context, o domain.Observation) (string, error) {
	p, err := s.path(domain.KindObservation, o.User, o.Game)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.WriteJSON(p, o); err != nil {
		return "", err
	}
	return filepath.Base(p), nil
}

// GetObservation loads the observation of user for game.
func (s *JSONStore) GetObservation(_ context.Context, user string, g domain.Game) (domain.Observation, bool, error) {
	var o domain.Observation
	p, err := s.path(domain.KindObservation, user, g)
	if err != nil {
		return o, false, err
	}
	ok, err := readOptional(p, &o)
	return o, ok, err
}

// ListObservations returns every observation, file names descending.
func (s *JSONStore) ListObservations(_ context.Context) ([]domain.Observation, error) {
	return listKind[domain.Observation](filepath.Join(s.base, domain.KindObservation))
}

func readOptional(path string, v any) (bool, error) {
	err := storage.ReadJSON(path, v)
	if errors.Is(err, storage.ErrFileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func listKind[T any](dir string) ([]T, error) {
	files, err := storage.ListJSON(dir)
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	out := make([]T, 0, len(files))
	for _, f := range files {
		var v T
		if err := storage.ReadJSON(f, &v); err != nil {
			slog.Warn("submission_event", "event", "submission_file_skipped", "file", filepath.Base(f), "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
