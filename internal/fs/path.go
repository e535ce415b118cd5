package fs

import (
	"path"
	"strings"
)

// NormalizePath converts a volume path to a clean, absolute form.
// Statement paths are usually relative ("tmp/test.txt"); on a volume they are
// anchored at the root.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return "/"
	}
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	// Clean only collapses ".." below an absolute root.
	return path.Clean(cleaned)
}

// ParentPath returns the parent directory of the given path.
// Returns "/" for root and first-level paths.
func ParentPath(p string) string {
	p = NormalizePath(p)
	if p == "/" {
		return "/"
	}
	return path.Dir(p)
}

// BaseName returns the final component of the path.
func BaseName(p string) string {
	p = NormalizePath(p)
	if p == "/" {
		return "/"
	}
	return path.Base(p)
}

// SplitPath returns the parent directory and the base name.
func SplitPath(p string) (string, string) {
	return ParentPath(p), BaseName(p)
}

// JoinPath joins path components into a normalized path.
func JoinPath(parts ...string) string {
	return NormalizePath(strings.Join(parts, "/"))
}

// IsRoot returns true if the path is the root directory.
func IsRoot(p string) bool {
	return NormalizePath(p) == "/"
}
