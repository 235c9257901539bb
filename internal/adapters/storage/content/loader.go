// Package content loads the read-only curriculum and glossary files.
package content

import (
	"context"
	"errors"
	"sync"

	"matchhub/internal/adapters/storage"
	"matchhub/internal/domain/curriculum"
	"matchhub/internal/domain/glossary"
)

// Source provides the curriculum and glossary.
type Source interface {
	Curriculum(ctx context.Context) (curriculum.Curriculum, error)
	// Glossary returns false when the glossary file does not exist.
	Glossary(ctx context.Context) (glossary.Glossary, bool, error)
}

// FileLoader reads both files from disk on every call.
type FileLoader struct {
	CurriculumPath string
	GlossaryPath   string
}

// Curriculum loads the curriculum; a missing file yields an empty curriculum.
func (l FileLoader) Curriculum(_ context.Context) (curriculum.Curriculum, error) {
	var c curriculum.Curriculum
	err := storage.ReadJSON(l.CurriculumPath, &c)
	if errors.Is(err, storage.ErrFileNotFound) {
		return curriculum.Curriculum{Tracks: []curriculum.Track{}}, nil
	}
	if err != nil {
		return curriculum.Curriculum{}, err
	}
	if c.Tracks == nil {
		c.Tracks = []curriculum.Track{}
	}
	return c, nil
}

// Glossary loads the glossary terms.
func (l FileLoader) Glossary(_ context.Context) (glossary.Glossary, bool, error) {
	g := glossary.Glossary{}
	err := storage.ReadJSON(l.GlossaryPath, &g)
	if errors.Is(err, storage.ErrFileNotFound) {
		return glossary.Glossary{}, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return g, true, nil
}

// CachedLoader memoises a FileLoader until Invalidate is called.
type CachedLoader struct {
	files FileLoader

	mu         sync.RWMutex
	curriculum *curriculum.Curriculum
	glossary   glossary.Glossary
	hasGloss   bool
	glossOK    bool
}

// NewCachedLoader wraps files.
func NewCachedLoader(files FileLoader) *CachedLoader {
	return &CachedLoader{files: files}
}

// Curriculum returns the cached curriculum, loading it on first use.
func (c *CachedLoader) Curriculum(ctx context.Context) (curriculum.Curriculum, error) {
	c.mu.RLock()
	cached := c.curriculum
	c.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}
	cur, err := c.files.Curriculum(ctx)
	if err != nil {
		return curriculum.Curriculum{}, err
	}
	c.mu.Lock()
	c.curriculum = &cur
	c.mu.Unlock()
	return cur, nil
}

// Glossary returns the cached glossary, loading it on first use.
func (c *CachedLoader) Glossary(ctx context.Context) (glossary.Glossary, bool, error) {
	c.mu.RLock()
	if c.hasGloss {
		g, ok := c.glossary, c.glossOK
		c.mu.RUnlock()
		return g, ok, nil
	}
	c.mu.RUnlock()

	g, ok, err := c.files.Glossary(ctx)
	if err != nil {
		return nil, ok, err
	}
	c.mu.Lock()
	c.glossary, c.glossOK, c.hasGloss = g, ok, true
	c.mu.Unlock()
	return g, ok, nil
}

// Invalidate drops the cached copies so the next call reads from disk.
func (c *CachedLoader) Invalidate() {
	c.mu.Lock()
	c.curriculum = nil
	c.glossary, c.glossOK, c.hasGloss = nil, false, false
	c.mu.Unlock()
}

// Paths returns the watched file paths.
func (c *CachedLoader) Paths() []string {
	return []string{c.files.CurriculumPath, c.files.GlossaryPath}
}
