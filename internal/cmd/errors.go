package cmd

import (
	"errors"
	iofs "io/fs"

	"github.com/rowantrollope/handycmd/internal/statement"
)

// Failure classes carried by Failed outcomes.
var (
	ErrMalformedStatement = statement.ErrMalformed
	ErrTargetMissing      = errors.New("target missing")
	ErrTargetExists       = errors.New("target already exists")
	ErrPermission         = errors.New("permission denied")
	ErrIO                 = errors.New("i/o failure")
)

// Classify maps an effect error to its failure class.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMalformedStatement):
		return ErrMalformedStatement
	case errors.Is(err, iofs.ErrNotExist):
		return ErrTargetMissing
	case errors.Is(err, iofs.ErrExist):
		return ErrTargetExists
	case errors.Is(err, iofs.ErrPermission):
		return ErrPermission
	default:
		return ErrIO
	}
}
