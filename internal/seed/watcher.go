package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ocmhub/internal/core"
	"ocmhub/pkg/domain"
)

// ApplyFunc receives every valid revision of the watched seed file.
type ApplyFunc func(ctx context.Context, snap domain.Snapshot) error

// Watcher re-reads a seed file whenever it changes on disk.
type Watcher struct {
	path     string
	apply    ApplyFunc
	logger   core.Logger
	debounce time.Duration
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the logger used for reload outcomes.
func WithWatchLogger(l core.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce coalesces bursts of filesystem events.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher watches path and passes each valid revision to apply.
func NewWatcher(path string, apply ApplyFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{path: filepath.Clean(path), apply: apply, logger: nopLogger{}, debounce: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled. The parent directory is watched so
// editors that replace the file by rename are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create seed watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching seed file", "path", w.path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("seed watcher error", "error", err)
		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	snap, err := LoadFile(w.path)
	if err != nil {
		w.logger.Error("seed reload rejected", "path", w.path, "error", err)
		return
	}
	if err := w.apply(ctx, snap); err != nil {
		w.logger.Error("seed reload failed", "path", w.path, "error", err)
		return
	}
	w.logger.Info("seed reloaded", "path", w.path)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
