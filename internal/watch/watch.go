// Package watch re-analyses a pending folder after uploads settle.
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
	"github.com/gofrs/flock"

	"contentprep/internal/listing"
	"contentprep/internal/logging"
	"contentprep/internal/services"
)

// ErrAlreadyWatching reports that another process holds the folder lock.
var ErrAlreadyWatching = errors.New("folder is already being watched")

const defaultDebounce = 2 * time.Second

// Handler is called once the folder has been quiet for the debounce window.
type Handler func(ctx context.Context, folder string) error

// Options tune a Watcher.
type Options struct {
	Debounce time.Duration
	// LockPath guards against two watchers on one folder; empty disables it.
	LockPath string
	// RunOnStart invokes the handler once before waiting for events.
	RunOnStart bool
	Logger     *slog.Logger
}

// Watcher debounces filesystem events on one folder.
type Watcher struct {
	folder   string
	handler  Handler
	debounce time.Duration
	lockPath string
	onStart  bool
	logger   *slog.Logger
}

// New creates a watcher for folder.
func New(folder string, handler Handler, opts Options) *Watcher {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		folder:   folder,
		handler:  handler,
		debounce: debounce,
		lockPath: opts.LockPath,
		onStart:  opts.RunOnStart,
		logger:   logging.NewComponentLogger(logger, "watch"),
	}
}

// Run blocks until ctx is cancelled. Handler failures are logged and the
// watch continues.
func (w *Watcher) Run(ctx context.Context) error {
	if w.handler == nil {
		return errors.New("watch: handler is nil")
	}
	info, err := os.Stat(w.folder)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "watch", "run", "folder "+w.folder, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrValidation, "watch", "run", w.folder+" is not a directory", nil)
	}

	if w.lockPath != "" {
		if err := os.MkdirAll(filepath.Dir(w.lockPath), 0o755); err != nil {
			return fmt.Errorf("create lock dir: %w", err)
		}
		lock := flock.New(w.lockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire watch lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("%w: %s", ErrAlreadyWatching, w.folder)
		}
		defer func() { _ = lock.Unlock() }()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.folder); err != nil {
		return fmt.Errorf("watch %s: %w", w.folder, err)
	}

	ctx = services.WithFolder(ctx, w.folder)
	logger := logging.WithContext(ctx, w.logger)
	logger.Info("watching folder", logging.Duration("debounce", w.debounce))

	if w.onStart {
		w.fire(ctx, logger)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("folder changed", logging.String("path", event.Name), logging.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.ErrorWithContext(logger, "filesystem watcher error", "watch_fsnotify_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "events may have been dropped; restart watch if sets stop updating"),
			)
		case <-timer.C:
			w.fire(ctx, logger)
		}
	}
}

func (w *Watcher) fire(ctx context.Context, logger *slog.Logger) {
	if err := w.handler(ctx, w.folder); err != nil {
		logging.WarnWithContext(logger, "folder analysis failed", "watch_handler_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "changes will be picked up on the next event"),
		)
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return !listing.Skip(filepath.Base(event.Name))
}
