package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce delays handling after the last write event for a
// file, so partially copied PDFs are not picked up mid-transfer.
const DefaultDebounce = 2 * time.Second

// Watcher observes a drop directory and hands newly arrived source
// files (.pdf or pre-rendered .xml) to a handler.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Logger   *slog.Logger

	// Handle is called once per settled file.
	Handle func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Watch blocks until the context is cancelled, dispatching the handler
// for each file that settles in the drop directory.
func (w *Watcher) Watch(ctx context.Context) error {
	if w.Handle == nil {
		return fmt.Errorf("watcher has no handler")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}
	logger.Info("watching drop directory", "dir", w.Dir)

	w.mu.Lock()
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watchable(event.Name) {
				continue
			}
			w.schedule(event.Name, debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// schedule arms or rewinds the debounce timer for one path.
func (w *Watcher) schedule(path string, debounce time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Reset(debounce)
		return
	}
	w.timers[path] = time.AfterFunc(debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.Handle(path)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// watchable reports whether the file is source material the pipeline
// can consume.
func watchable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".xml":
		return true
	}
	return false
}
