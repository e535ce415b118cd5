package watch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another watcher already holds the command file.
var ErrLocked = errors.New("command file is already being watched")

// Lock is an exclusive, process-wide lock on one command file.
type Lock struct {
	flock *flock.Flock
	path  string
}

// LockPath returns the lock file used for commandFile: ".<name>.lock" next to it.
func LockPath(commandFile string) string {
	dir, name := filepath.Split(commandFile)
	return filepath.Join(dir, "."+name+".lock")
}

// NewLock creates a lock for commandFile. Nothing is acquired yet.
func NewLock(commandFile string) *Lock {
	path := LockPath(commandFile)
	return &Lock{flock: flock.New(path), path: path}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. It returns ErrLocked if another
// process holds it.
func (l *Lock) Acquire() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !acquired {
		return fmt.Errorf("%w (lock %s)", ErrLocked, l.path)
	}
	return nil
}

// Release unlocks. The lock file is left in place.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
