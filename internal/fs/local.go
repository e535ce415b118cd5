package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// Local performs effects on the host filesystem.
// Relative paths are resolved against Root; an empty Root means the process
// working directory.
type Local struct {
	Root string
}

// NewLocal creates a Local filesystem rooted at root.
func NewLocal(root string) *Local {
	return &Local{Root: root}
}

// Resolve returns the host path for a statement path.
func (l *Local) Resolve(p string) string {
	if l.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Root, p)
}

// Exists reports whether p is accessible. A missing path is (false, nil); any
// other access error is returned.
func (l *Local) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(l.Resolve(p))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// CreateFile creates an empty file. It fails if p already exists.
func (l *Local) CreateFile(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(l.Resolve(p), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// MkdirAll creates a directory along with any missing parents.
func (l *Local) MkdirAll(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(l.Resolve(p), 0o755)
}

// Remove removes a file. Directories are refused.
func (l *Local) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := l.Resolve(p)
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &iofs.PathError{Op: "remove", Path: path, Err: ErrIsDir}
	}
	return os.Remove(path)
}

// Rmdir removes an empty directory.
func (l *Local) Rmdir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := l.Resolve(p)
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &iofs.PathError{Op: "rmdir", Path: path, Err: ErrNotDir}
	}
	return os.Remove(path)
}

// RemoveAll removes p and anything below it. A missing path is not an error.
func (l *Local) RemoveAll(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(l.Resolve(p))
}

// WriteFile truncates or creates p with content.
func (l *Local) WriteFile(ctx context.Context, p, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(l.Resolve(p), []byte(content), 0o644)
}

// AppendFile appends content to p, creating it if needed.
func (l *Local) AppendFile(ctx context.Context, p, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(l.Resolve(p), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Rename moves oldPath to newPath.
func (l *Local) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(l.Resolve(oldPath), l.Resolve(newPath))
}

// IsDir reports whether p is an existing directory.
func (l *Local) IsDir(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(l.Resolve(p))
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// ReadDir returns the sorted entry names of directory p.
func (l *Local) ReadDir(ctx context.Context, p string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == "" {
		p = "."
	}
	entries, err := os.ReadDir(l.Resolve(p))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}
