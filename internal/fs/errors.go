package fs

import "errors"

// Errors returned by both backends in addition to the io/fs sentinels.
var (
	ErrIsDir    = errors.New("is a directory")
	ErrNotDir   = errors.New("not a directory")
	ErrNotEmpty = errors.New("directory not empty")
	ErrRoot     = errors.New("cannot operate on root directory")
)
