// Package watch turns changes to the command file into dispatch passes.
package watch

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rowantrollope/handycmd/internal/cmd"
	"github.com/rowantrollope/handycmd/internal/logger"
)

// Dispatcher executes the statements of one document.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) cmd.Summary
}

// Options configures a Watcher.
type Options struct {
	Debounce   time.Duration
	CallNow    bool
	RunOnStart bool
	Logger     *logger.ConsoleLogger

	// OnPass is called after every completed pass.
	OnPass func(id string, sum cmd.Summary)
}

// Watcher runs a dispatch pass whenever the command file changes.
type Watcher struct {
	path       string
	dispatcher Dispatcher
	opts       Options
	log        *logger.ConsoleLogger
	lock       *Lock

	passMu sync.Mutex
}

// New creates a watcher for the command file at path.
func New(path string, d Dispatcher, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Watcher{
		path:       abs,
		dispatcher: d,
		opts:       opts,
		log:        log,
		lock:       NewLock(abs),
	}, nil
}

// Path returns the absolute path of the command file.
func (w *Watcher) Path() string {
	return w.path
}

// Run holds the single-instance lock and watches until ctx is cancelled. The
// command file's directory is watched rather than the file, so editors that
// save by replacing the file keep working.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := w.lock.Release(); err != nil {
			w.log.Warnf("%v", err)
		}
	}()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debouncer := NewDebouncer(w.opts.Debounce, w.opts.CallNow, func() {
		w.Pass(ctx)
	})
	defer func() {
		debouncer.Stop()
		// wait for an in-flight pass
		w.passMu.Lock()
		w.passMu.Unlock()
	}()

	w.log.Infof("watching %s", w.path)
	if _, err := os.Stat(w.path); errors.Is(err, iofs.ErrNotExist) {
		w.log.Warnf("%s does not exist yet, waiting for it to be created", w.path)
	}

	if w.opts.RunOnStart {
		w.Pass(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debugf("stopped watching %s", w.path)
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.handleEvent(event, debouncer)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Errorf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, debouncer *Debouncer) {
	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.log.Debugf("%s: %s", event.Op, event.Name)
		debouncer.Trigger()
	case event.Has(fsnotify.Rename), event.Has(fsnotify.Remove):
		w.log.Warnf("%s was renamed or removed, changes are ignored until it is back", w.path)
	}
}

// Pass reads the command file and dispatches its content. Passes never overlap.
// A missing file is logged and skipped.
func (w *Watcher) Pass(ctx context.Context) (cmd.Summary, error) {
	w.passMu.Lock()
	defer w.passMu.Unlock()

	if err := ctx.Err(); err != nil {
		return cmd.Summary{}, err
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warnf("cannot read %s: %v", w.path, err)
		return cmd.Summary{}, err
	}

	id := uuid.NewString()
	start := time.Now()
	w.log.Debugf("pass %s: dispatching %d bytes", id, len(data))

	sum := w.dispatcher.Dispatch(ctx, string(data))

	w.log.Debugf("pass %s: %s in %s", id, sum, time.Since(start).Round(time.Millisecond))
	if sum.Failed > 0 {
		w.log.Warnf("%d of %d statements failed", sum.Failed, sum.Total())
	}
	if w.opts.OnPass != nil {
		w.opts.OnPass(id, sum)
	}
	return sum, nil
}
