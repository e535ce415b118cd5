package cmd

import (
	"context"
	"fmt"

	"github.com/rowantrollope/handycmd/internal/statement"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many occurrences of one kind run at once.
const DefaultConcurrency = 8

// Filesystem is the set of effects statements are executed with.
type Filesystem interface {
	// Exists reports (false, nil) for a missing path and an error for any
	// other access failure.
	Exists(ctx context.Context, path string) (bool, error)
	CreateFile(ctx context.Context, path string) error
	MkdirAll(ctx context.Context, path string) error
	Remove(ctx context.Context, path string) error
	Rmdir(ctx context.Context, path string) error
	// RemoveAll succeeds when path does not exist.
	RemoveAll(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path, content string) error
	AppendFile(ctx context.Context, path, content string) error
	Rename(ctx context.Context, oldPath, newPath string) error
}

// Reporter receives the outcomes of one handler invocation, in extraction order.
type Reporter interface {
	Report(kind statement.Kind, outcomes []Outcome)
}

// Handler executes one extracted occurrence.
type Handler func(ctx context.Context, c statement.Command) Outcome

// Dispatcher routes the statements of a document to their handlers.
type Dispatcher struct {
	FS          Filesystem
	Reporter    Reporter
	Concurrency int
	handlers    map[statement.Kind]Handler
}

// NewDispatcher creates a dispatcher with all statement handlers registered.
func NewDispatcher(fsys Filesystem, reporter Reporter, concurrency int) *Dispatcher {
	d := &Dispatcher{
		FS:          fsys,
		Reporter:    reporter,
		Concurrency: concurrency,
		handlers:    make(map[statement.Kind]Handler),
	}
	d.registerHandlers()
	return d
}

func (d *Dispatcher) registerHandlers() {
	d.handlers[statement.CreateFile] = d.handleCreateFile
	d.handlers[statement.CreateFolder] = d.handleCreateFolder
	d.handlers[statement.DeleteFile] = d.handleDeleteFile
	d.handlers[statement.DeleteFolder] = d.handleDeleteFolder
	d.handlers[statement.DeleteForce] = d.handleDeleteForce
	d.handlers[statement.Write] = d.handleWrite
	d.handlers[statement.Append] = d.handleAppend
	d.handlers[statement.Rename] = d.handleRename
}

// Dispatch executes every statement in text. Kinds whose markers are absent are
// skipped without scanning; the rest run one kind after another in table order.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) Summary {
	var sum Summary
	for _, p := range statement.Patterns() {
		if !p.Markers.Present(text) {
			continue
		}
		sum.add(p.Kind, d.Run(ctx, p, text))
	}
	return sum
}

// Run extracts the occurrences of p, executes them concurrently, waits for all of
// them to settle and reports the batch. A malformed document produces a single
// Failed outcome and executes nothing.
func (d *Dispatcher) Run(ctx context.Context, p statement.Pattern, text string) []Outcome {
	commands, err := statement.Extract(p, text)
	if err != nil {
		outcomes := []Outcome{failed(statement.Command{Kind: p.Kind}, err)}
		d.report(p.Kind, outcomes)
		return outcomes
	}
	if len(commands) == 0 {
		return nil
	}

	handler, ok := d.handlers[p.Kind]
	if !ok {
		handler = unsupported
	}

	outcomes := make([]Outcome, len(commands))
	var g errgroup.Group
	g.SetLimit(d.concurrency())
	for i, c := range commands {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = execute(ctx, handler, c)
			return nil
		})
	}
	_ = g.Wait()

	d.report(p.Kind, outcomes)
	return outcomes
}

// IsSupported returns true if kind has a registered handler.
func (d *Dispatcher) IsSupported(kind statement.Kind) bool {
	_, ok := d.handlers[kind]
	return ok
}

func (d *Dispatcher) concurrency() int {
	if d.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return d.Concurrency
}

func (d *Dispatcher) report(kind statement.Kind, outcomes []Outcome) {
	if d.Reporter != nil {
		d.Reporter.Report(kind, outcomes)
	}
}

func execute(ctx context.Context, h Handler, c statement.Command) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = failed(c, fmt.Errorf("panic: %v", r))
		}
	}()
	return h(ctx, c)
}

func unsupported(_ context.Context, c statement.Command) Outcome {
	return failed(c, fmt.Errorf("no handler for %s", c.Kind))
}
