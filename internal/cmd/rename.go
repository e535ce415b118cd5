package cmd

import (
	"context"

	"github.com/rowantrollope/handycmd/internal/statement"
)

func (d *Dispatcher) handleRename(ctx context.Context, c statement.Command) Outcome {
	if err := d.FS.Rename(ctx, c.Arg(statement.SlotPath), c.Arg(statement.SlotNewPath)); err != nil {
		return failed(c, err)
	}
	return succeeded(c)
}
