package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hmans/moviegraph/internal/movie"
)

const debounceDelay = 100 * time.Millisecond

// Watcher follows a catalog file and reports movies appended to it. The
// store is append-only, so edits to entries it has already seen are ignored.
type Watcher struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	known int
	done  chan struct{}
	onAdd func([]*movie.Movie)
}

// NewWatcher creates a watcher for path that treats the first known movies
// of the file as already loaded.
func NewWatcher(path string, known int, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, known: known, logger: logger}
}

// Start begins watching. onAdd receives each batch of new movies, in file
// order, after changes have settled.
func (w *Watcher) Start(onAdd func([]*movie.Movie)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done != nil {
		return nil // Already watching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	w.done = make(chan struct{})
	w.onAdd = onAdd

	go w.watchLoop(watcher, w.done)

	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done == nil {
		return
	}
	close(w.done)
	w.done = nil
	w.onAdd = nil
}

// Known returns how many movies of the file have been reported so far.
func (w *Watcher) Known() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.known
}

func (w *Watcher) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	defer watcher.Close()

	var debounceTimer *time.Timer
	target := filepath.Clean(w.path)

	for {
		select {
		case <-done:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", "path", w.path, "error", err)
		}
	}
}

// reload re-reads the file and reports entries past the known count.
func (w *Watcher) reload() {
	if _, err := os.Stat(w.path); err != nil {
		return
	}

	c, err := Load(w.path)
	if err != nil {
		w.logger.Warn("failed to reload catalog", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	if w.done == nil {
		w.mu.Unlock()
		return
	}
	if len(c.Movies) < w.known {
		w.logger.Warn("catalog shrank; removed movies stay loaded", "path", w.path, "known", w.known, "now", len(c.Movies))
		w.known = len(c.Movies)
	}
	added := c.Movies[w.known:]
	w.known = len(c.Movies)
	callback := w.onAdd
	w.mu.Unlock()

	if len(added) == 0 {
		return
	}
	w.logger.Info("catalog entries appended", "path", w.path, "count", len(added))
	if callback != nil {
		callback(added)
	}
}
