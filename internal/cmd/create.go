package cmd

import (
	"context"

	"github.com/rowantrollope/handycmd/internal/statement"
)

func (d *Dispatcher) handleCreateFile(ctx context.Context, c statement.Command) Outcome {
	return d.createIfMissing(ctx, c, d.FS.CreateFile)
}

// handleCreateFolder creates intermediate folders as needed.
func (d *Dispatcher) handleCreateFolder(ctx context.Context, c statement.Command) Outcome {
	return d.createIfMissing(ctx, c, d.FS.MkdirAll)
}

// createIfMissing checks existence first: an accessible path is AlreadyExists, a
// missing one is created, and any other access error fails the occurrence.
func (d *Dispatcher) createIfMissing(ctx context.Context, c statement.Command, create func(context.Context, string) error) Outcome {
	path := c.Arg(statement.SlotPath)

	exists, err := d.FS.Exists(ctx, path)
	if err != nil {
		return failed(c, err)
	}
	if exists {
		return alreadyExists(c)
	}

	if err := create(ctx, path); err != nil {
		return failed(c, err)
	}
	return succeeded(c)
}
