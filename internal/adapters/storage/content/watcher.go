package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a CachedLoader whenever one of its files changes.
// Directories are watched rather than files so editor rename-on-save is seen.
type Watcher struct {
	loader   *CachedLoader
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for loader's files.
func NewWatcher(loader *CachedLoader) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool)
	for _, p := range loader.Paths() {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			files[abs] = true
		}
	}
	return &Watcher{
		loader:   loader,
		watcher:  fw,
		files:    files,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start adds the parent directories and begins the event loop. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Warn("content_event", "event", "watch_dir_create_failed", "dir", dir, "error", err)
		}
		if err := w.watcher.Add(dir); err != nil {
			slog.Warn("content_event", "event", "watch_failed", "dir", dir, "error", err)
			continue
		}
		slog.Info("content_event", "event", "watching", "dir", dir)
	}

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		slog.Error("content_event", "event", "watcher_close_failed", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var pending bool
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if !pending {
				pending = true
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("content_event", "event", "watch_error", "error", err)
		case <-timer.C:
			pending = false
			w.loader.Invalidate()
			slog.Info("content_event", "event", "content_reloaded")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
