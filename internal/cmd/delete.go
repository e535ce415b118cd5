package cmd

import (
	"context"

	"github.com/rowantrollope/handycmd/internal/statement"
)

func (d *Dispatcher) handleDeleteFile(ctx context.Context, c statement.Command) Outcome {
	if err := d.FS.Remove(ctx, c.Arg(statement.SlotPath)); err != nil {
		return failed(c, err)
	}
	return succeeded(c)
}

// handleDeleteFolder only removes empty folders.
func (d *Dispatcher) handleDeleteFolder(ctx context.Context, c statement.Command) Outcome {
	if err := d.FS.Rmdir(ctx, c.Arg(statement.SlotPath)); err != nil {
		return failed(c, err)
	}
	return succeeded(c)
}

// handleDeleteForce removes a file or a whole tree; a missing target succeeds.
func (d *Dispatcher) handleDeleteForce(ctx context.Context, c statement.Command) Outcome {
	if err := d.FS.RemoveAll(ctx, c.Arg(statement.SlotPath)); err != nil {
		return failed(c, err)
	}
	return succeeded(c)
}
