package actions

import (
	"context"

	"github.com/carson-networks/wallet-server/internal/service"
)

// Ledger is the write side of the ledger an action runs against.
type Ledger interface {
	Append(ctx context.Context, draft service.Draft) (service.Transaction, error)
}

type IAction interface {
	Perform(ctx context.Context, ledger Ledger) error
}
