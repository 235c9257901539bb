package cache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"matchhub/internal/adapters/storage"
	domain "matchhub/internal/domain/cache"
)

// Store reads and writes cache envelopes by key. entry is a *domain.Entry[T].
type Store interface {
	Write(ctx context.Context, key string, entry any) error
	Read(ctx context.Context, key string, entry any) (bool, error)
}

// JSONStore keeps each key in <dir>/<key>.json.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore creates a cache store rooted at dir.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

func (s *JSONStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Write replaces the entry stored under key.
func (s *JSONStore) Write(_ context.Context, key string, entry any) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.WriteJSON(p, entry)
}

// Read decodes the entry under key; false when it was never written.
func (s *JSONStore) Read(_ context.Context, key string, entry any) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	if err := storage.ReadJSON(p, entry); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Put stamps data and writes it under key.
func Put[T any](ctx context.Context, s Store, key string, data T, now time.Time, loc *time.Location) (domain.Entry[T], error) {
	e := domain.NewEntry(data, now, loc)
	if err := s.Write(ctx, key, &e); err != nil {
		return domain.Entry[T]{}, fmt.Errorf("write cache %s: %w", key, err)
	}
	return e, nil
}

// Get reads the entry under key; domain.ErrNotFound when it was never written.
func Get[T any](ctx context.Context, s Store, key string) (domain.Entry[T], error) {
	var e domain.Entry[T]
	ok, err := s.Read(ctx, key, &e)
	if err != nil {
		return domain.Entry[T]{}, fmt.Errorf("read cache %s: %w", key, err)
	}
	if !ok {
		return domain.Entry[T]{}, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return e, nil
}
