package cmd

import (
	"context"
	"fmt"
	iofs "io/fs"
	"strings"
	"sync"
	"time"

	"github.com/rowantrollope/handycmd/internal/statement"
)

// call records one effect invocation.
type call struct {
	Op   string
	Args []string
}

// spyFS is an in-memory Filesystem that records every effect.
type spyFS struct {
	mu     sync.Mutex
	calls  []call
	exists map[string]bool
	fail   map[string]error
	delay  map[string]time.Duration
}

func newSpyFS() *spyFS {
	return &spyFS{
		exists: make(map[string]bool),
		fail:   make(map[string]error),
		delay:  make(map[string]time.Duration),
	}
}

func (s *spyFS) record(op string, args ...string) error {
	s.mu.Lock()
	d := s.delay[args[0]]
	s.mu.Unlock()
	if d > 0 {
		time.Sleep(d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{Op: op, Args: args})
	if err, ok := s.fail[args[0]]; ok {
		return err
	}
	return nil
}

func (s *spyFS) Calls(op string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *spyFS) Exists(_ context.Context, path string) (bool, error) {
	if err := s.record("exists", path); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists[path], nil
}

func (s *spyFS) create(op, path string) error {
	if err := s.record(op, path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exists[path] = true
	return nil
}

func (s *spyFS) CreateFile(_ context.Context, path string) error { return s.create("create", path) }
func (s *spyFS) MkdirAll(_ context.Context, path string) error   { return s.create("mkdir", path) }

func (s *spyFS) Remove(_ context.Context, path string) error {
	if err := s.record("remove", path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists[path] {
		return &iofs.PathError{Op: "remove", Path: path, Err: iofs.ErrNotExist}
	}
	delete(s.exists, path)
	return nil
}

func (s *spyFS) Rmdir(ctx context.Context, path string) error {
	if err := s.record("rmdir", path); err != nil {
		return err
	}
	return nil
}

func (s *spyFS) RemoveAll(_ context.Context, path string) error {
	if err := s.record("removeall", path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.exists, path)
	return nil
}

func (s *spyFS) WriteFile(_ context.Context, path, content string) error {
	return s.record("write", path, content)
}

func (s *spyFS) AppendFile(_ context.Context, path, content string) error {
	return s.record("append", path, content)
}

func (s *spyFS) Rename(_ context.Context, oldPath, newPath string) error {
	return s.record("rename", oldPath, newPath)
}

// recorder is a Reporter that keeps every batch.
type recorder struct {
	mu      sync.Mutex
	batches []batch
}

type batch struct {
	Kind     statement.Kind
	Outcomes []Outcome
}

func (r *recorder) Report(kind statement.Kind, outcomes []Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch{Kind: kind, Outcomes: outcomes})
}

// Lines renders every reported outcome as "category: message".
func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []string
	for _, b := range r.batches {
		for _, o := range b.Outcomes {
			lines = append(lines, fmt.Sprintf("%s: %s", o.Category(), o.Message()))
		}
	}
	return lines
}

func (r *recorder) Kinds() []statement.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []statement.Kind
	for _, b := range r.batches {
		kinds = append(kinds, b.Kind)
	}
	return kinds
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
