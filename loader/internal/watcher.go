package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Watcher polls a drop directory and emits files that have sat
// unmodified for the settle window, so half-copied files are never
// picked up. Processed files are moved either to the archive or to
// the bad directory, keeping the source directory as the work queue.
type Watcher struct {
	sourceDir  string
	archiveDir string
	badDir     string
	poll       time.Duration
	settle     time.Duration
	logger     *slog.Logger

	mu         sync.Mutex
	firstSeen  map[string]time.Time
	processing map[string]bool
}

func NewWatcher(sourceDir, archiveDir, badDir string, poll, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	for _, dir := range []string{sourceDir, archiveDir, badDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		sourceDir:  sourceDir,
		archiveDir: archiveDir,
		badDir:     badDir,
		poll:       poll,
		settle:     settle,
		logger:     logger,
		firstSeen:  make(map[string]time.Time),
		processing: make(map[string]bool),
	}, nil
}

// Watch scans until ctx is cancelled, sending settled file paths on
// fileChan. The channel is not closed here; the caller owns it.
func (w *Watcher) Watch(ctx context.Context, fileChan chan<- string) {
	w.logger.Info("watching source directory", "dir", w.sourceDir)

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped")
			return
		case <-ticker.C:
			w.scan(ctx, fileChan)
		}
	}
}

func (w *Watcher) scan(ctx context.Context, fileChan chan<- string) {
	entries, err := os.ReadDir(w.sourceDir)
	if err != nil {
		w.logger.Error("read source directory", "error", err)
		return
	}

	current := make(map[string]bool)
	now := time.Now()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.sourceDir, entry.Name())
		current[path] = true

		w.mu.Lock()
		if w.processing[path] {
			w.mu.Unlock()
			continue
		}
		seen, ok := w.firstSeen[path]
		if !ok {
			w.firstSeen[path] = now
			w.mu.Unlock()
			w.logger.Info("new file detected", "path", path)
			continue
		}
		if now.Sub(seen) < w.settle {
			w.mu.Unlock()
			continue
		}
		w.processing[path] = true
		w.mu.Unlock()

		select {
		case fileChan <- path:
		case <-ctx.Done():
			return
		}
	}

	// drop tracking for files that disappeared between scans
	w.mu.Lock()
	for path := range w.firstSeen {
		if !current[path] {
			delete(w.firstSeen, path)
			delete(w.processing, path)
		}
	}
	w.mu.Unlock()
}

// Done clears tracking state after a file has been handled.
func (w *Watcher) Done(path string) {
	w.mu.Lock()
	delete(w.firstSeen, path)
	delete(w.processing, path)
	w.mu.Unlock()
}

func (w *Watcher) MoveToArchive(path string) error {
	return w.move(path, w.archiveDir)
}

func (w *Watcher) MoveToBad(path string) error {
	return w.move(path, w.badDir)
}

func (w *Watcher) move(path, dir string) error {
	dst := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Stat(dst); err == nil {
		// keep both copies distinguishable instead of overwriting
		dst = filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(path)))
	}
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", path, dir, err)
	}
	return nil
}
