package actions

import (
	"context"

	"github.com/carson-networks/wallet-server/internal/service"
)

// CommitDraft appends a confirmed draft. Result is set once Perform succeeds.
type CommitDraft struct {
	Draft  service.Draft
	Result service.Transaction

	IAction
}

func (c *CommitDraft) Perform(ctx context.Context, ledger Ledger) error {
	tx, err := ledger.Append(ctx, c.Draft)
	if err != nil {
		return err
	}

	c.Result = tx
	return nil
}
