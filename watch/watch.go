// Package watch re-runs a function whenever one of a set of files changes.
//
// The stache command uses it to re-render templates as their template,
// data or rules files are edited. Changes are detected with fsnotify,
// falling back to polling modification times when fsnotify is unavailable.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for a Watcher.
const (
	DefaultDebounce     = 100 * time.Millisecond
	DefaultPollInterval = 500 * time.Millisecond
)

// Watcher triggers a callback after any watched file changes.
type Watcher struct {
	files    map[string]struct{}
	debounce time.Duration
	poll     time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for further changes before
// running the callback.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithPollInterval sets the polling interval used when fsnotify cannot be
// started.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.poll = d
		}
	}
}

// WithLogger sets the logger for callback failures and watch errors.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher for the given files.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}
	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		debounce: DefaultDebounce,
		poll:     DefaultPollInterval,
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Watcher) log() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return slog.Default()
}

// Run calls fn once, then again after each batch of changes, until ctx is
// done, and then returns ctx.Err(). Errors from fn are logged and do not
// stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	w.invoke(ctx, fn)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.log().Debug("fsnotify unavailable, polling", slog.Any("error", err))
		return w.runPolling(ctx, fn)
	}
	defer watcher.Close()

	// Watch directories: editors often replace files by renaming.
	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			w.log().Debug("cannot watch directory, polling", slog.String("dir", dir), slog.Any("error", err))
			watcher.Close()
			return w.runPolling(ctx, fn)
		}
	}

	return w.runWatcher(ctx, fn, watcher)
}

// runWatcher consumes fsnotify events.
func (w *Watcher) runWatcher(ctx context.Context, fn func(context.Context) error, watcher *fsnotify.Watcher) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant == 0 || !w.tracked(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.invoke(ctx, fn)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log().Warn("file watch error", slog.Any("error", err))
		}
	}
}

// runPolling compares modification times every poll interval.
func (w *Watcher) runPolling(ctx context.Context, fn func(context.Context) error) error {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	last := w.snapshot()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			current := w.snapshot()
			if changed(last, current) {
				last = current
				w.invoke(ctx, fn)
			}
		}
	}
}

func (w *Watcher) tracked(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) invoke(ctx context.Context, fn func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	if err := fn(ctx); err != nil {
		w.log().Warn("render failed", slog.Any("error", err))
	}
}

// fileState is what polling compares between ticks.
type fileState struct {
	modTime time.Time
	size    int64
	exists  bool
}

func (w *Watcher) snapshot() map[string]fileState {
	out := make(map[string]fileState, len(w.files))
	for f := range w.files {
		info, err := os.Stat(f)
		if err != nil {
			out[f] = fileState{}
			continue
		}
		out[f] = fileState{modTime: info.ModTime(), size: info.Size(), exists: true}
	}
	return out
}

func changed(a, b map[string]fileState) bool {
	for k, v := range b {
		if a[k] != v {
			return true
		}
	}
	return false
}
