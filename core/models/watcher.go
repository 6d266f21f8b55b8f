package models

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce coalesces the burst of write events a snapshot
// save produces into a single reload.
const DefaultReloadDebounce = 500 * time.Millisecond

// ErrWatcherClosed indicates the watcher was already stopped.
var ErrWatcherClosed = errors.New("model watcher closed")

// Watcher monitors a model directory and invokes a callback when any
// snapshot file changes, so a serving process can pick up snapshots
// written by a separate trainer without restarting.
type Watcher struct {
	dir      string
	debounce time.Duration
	onReload func()
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped bool
}

// NewWatcher creates a watcher for dir. onReload runs on the watcher
// goroutine after the debounce window closes.
func NewWatcher(dir string, onReload func(), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		debounce: DefaultReloadDebounce,
		onReload: onReload,
		logger:   logger,
		watcher:  fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSnapshotFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("model watcher error", "dir", w.dir, "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	w.logger.Debug("snapshot change detected", "file", filepath.Base(path))
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onReload)
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}

func isSnapshotFile(path string) bool {
	switch filepath.Base(path) {
	case CollaborativeSnapshotFile, ContentSnapshotFile, HybridSnapshotFile:
		return true
	}
	return false
}
