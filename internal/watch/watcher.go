// Package watch re-runs the conversion pipeline whenever the extractor XML
// tree changes. Rebuilds are debounced and always full passes; there is no
// incremental regeneration.
package watch

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

// RunFunc performs one full rebuild.
type RunFunc func(ctx context.Context) error

// Watcher monitors the extractor XML directory and triggers rebuilds.
type Watcher struct {
	dir          string
	run          RunFunc
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	rebuildChan  chan struct{}
	debounceTime time.Duration
}

// New creates a watcher over dir. run is invoked after each debounced batch
// of changes.
func New(dir string, run RunFunc) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve watch directory: %w", err)
	}

	return &Watcher{
		dir:          absDir,
		run:          run,
		watcher:      watcher,
		rebuildChan:  make(chan struct{}, 1),
		debounceTime: 2 * time.Second, // Debounce rapid extractor rewrites
	}, nil
}

// Start runs an initial build and then blocks, rebuilding on changes, until
// ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.mu.Unlock()

	slog.Info("Watching extractor output", "dir", w.dir)

	if err := w.run(ctx); err != nil {
		slog.Error("Initial build failed", "error", err)
	}

	go w.watchLoop(ctx)
	w.rebuildLoop(ctx)

	return w.watcher.Close()
}

// watchLoop collapses file system events into rebuild requests.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".xml") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Extractor file changed", "file", event.Name, "op", event.Op.String())
			select {
			case w.rebuildChan <- struct{}{}:
			default: // rebuild already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// rebuildLoop debounces rebuild requests and runs full builds.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.rebuildChan:
			timer := time.NewTimer(w.debounceTime)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			slog.Info("Extractor output changed, rebuilding")
			if err := w.run(ctx); err != nil {
				slog.Error("Rebuild failed", "error", err)
			}
		}
	}
}
