// Package watch observes an experts directory and runs an action when the
// collection actually changes. Filesystem events are noisy — editors fire
// several per save — so events only arm a debounce window; when the
// window goes quiet the detector recomputes the collection fingerprint
// and the action fires only on a real change.
//
// Typical usage:
//
//	w, err := watch.New(dir, detector, watch.Options{Debounce: 500 * time.Millisecond})
//	go w.OnChange(ctx, func(old, current string) error { ... })
//
// The core registry stays cache-free; this package exists for serving
// processes that want to log or announce collection changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeDetector computes the current version token of the collection.
// Two calls that return different values mean "something changed".
type ChangeDetector func(ctx context.Context) (string, error)

// Options tunes the watcher behaviour.
type Options struct {
	// Debounce is the quiet period after a filesystem event before the
	// detector runs. More events during the window reset the timer.
	// Default: 500ms.
	Debounce time.Duration

	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Debounce <= 0 {
		o.Debounce = 500 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Watcher runs the event → debounce → detect → act loop.
type Watcher struct {
	dir      string
	detector ChangeDetector
	opts     Options
	fs       *fsnotify.Watcher

	// Counters for observability (exported via Stats).
	events  atomic.Int64
	checks  atomic.Int64
	changes atomic.Int64
	errs    atomic.Int64
}

// Stats are point-in-time counters.
type Stats struct {
	Events          int64 `json:"events"`
	Checks          int64 `json:"checks"`
	ChangesDetected int64 `json:"changes_detected"`
	Errors          int64 `json:"errors"`
}

// New creates a Watcher on dir. Call OnChange to start the loop.
func New(dir string, detector ChangeDetector, opts Options) (*Watcher, error) {
	opts.defaults()

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{dir: dir, detector: detector, opts: opts, fs: fs}, nil
}

// Stats returns the current counters.
func (w *Watcher) Stats() Stats {
	return Stats{
		Events:          w.events.Load(),
		Checks:          w.checks.Load(),
		ChangesDetected: w.changes.Load(),
		Errors:          w.errs.Load(),
	}
}

// OnChange blocks until ctx is cancelled. When a debounced burst of
// filesystem events settles and the detector reports a new version,
// action is called with the old and new versions.
//
// If action returns an error the version is NOT advanced — the next
// event burst retries it.
func (w *Watcher) OnChange(ctx context.Context, action func(old, current string) error) error {
	defer w.fs.Close()
	log := w.opts.Logger

	last, err := w.detector(ctx)
	if err != nil {
		log.Warn("watch: initial version check failed", "error", err)
	}

	var debounce *time.Timer
	var fire <-chan time.Time

	log.Info("watch: started", "dir", w.dir, "debounce", w.opts.Debounce, "version", last)

	for {
		select {
		case <-ctx.Done():
			log.Info("watch: stopped")
			if debounce != nil {
				debounce.Stop()
			}
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.events.Add(1)
			log.Debug("watch: event", "op", ev.Op.String(), "path", ev.Name)
			if debounce == nil {
				debounce = time.NewTimer(w.opts.Debounce)
				fire = debounce.C
			} else {
				debounce.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.errs.Add(1)
			log.Warn("watch: fsnotify error", "error", err)

		case <-fire:
			w.checks.Add(1)
			cur, err := w.detector(ctx)
			if err != nil {
				w.errs.Add(1)
				log.Warn("watch: version check failed", "error", err)
				continue
			}
			if cur == last {
				continue
			}
			w.changes.Add(1)
			if err := action(last, cur); err != nil {
				w.errs.Add(1)
				log.Warn("watch: action failed", "error", err)
				continue
			}
			last = cur
		}
	}
}
