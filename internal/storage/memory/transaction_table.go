package memory

import (
	"context"
	"sync"

	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

var _ transaction.ITransactionTable = (*TransactionsTable)(nil)

// TransactionsTable keeps ledger records in process memory. Records are
// copied on the way in and out so callers never share them.
type TransactionsTable struct {
	mu      sync.RWMutex
	byOwner map[string][]transaction.Transaction
}

func NewTransactionsTable() *TransactionsTable {
	return &TransactionsTable{byOwner: make(map[string][]transaction.Transaction)}
}

func (t *TransactionsTable) Insert(ctx context.Context, record *transaction.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.byOwner[record.OwnerID] = append(t.byOwner[record.OwnerID], *record)
	return nil
}

func (t *TransactionsTable) ListByOwner(ctx context.Context, ownerID string) ([]*transaction.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	rows := t.byOwner[ownerID]
	result := make([]*transaction.Transaction, len(rows))
	for i := range rows {
		row := rows[i]
		result[i] = &row
	}
	return result, nil
}
