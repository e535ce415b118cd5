package cmd

import (
	"context"

	"github.com/rowantrollope/handycmd/internal/statement"
)

func (d *Dispatcher) handleWrite(ctx context.Context, c statement.Command) Outcome {
	if err := d.FS.WriteFile(ctx, c.Arg(statement.SlotPath), c.Arg(statement.SlotBody)); err != nil {
		return failed(c, err)
	}
	return succeeded(c)
}

func (d *Dispatcher) handleAppend(ctx context.Context, c statement.Command) Outcome {
	if err := d.FS.AppendFile(ctx, c.Arg(statement.SlotPath), c.Arg(statement.SlotBody)); err != nil {
		return failed(c, err)
	}
	return succeeded(c)
}
