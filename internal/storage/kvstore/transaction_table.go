package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

var _ transaction.ITransactionTable = (*TransactionsTable)(nil)

// TransactionsTable keeps one Redis list of JSON records per owner.
type TransactionsTable struct {
	client redis.Cmdable
}

func NewTransactionsTable(client redis.Cmdable) *TransactionsTable {
	return &TransactionsTable{client: client}
}

func OwnerKey(ownerID string) string {
	return "wallet:ledger:" + ownerID + ":transactions"
}

func (t *TransactionsTable) Insert(ctx context.Context, record *transaction.Transaction) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode transaction %s: %w", record.ID, err)
	}
	return t.client.RPush(ctx, OwnerKey(record.OwnerID), string(payload)).Err()
}

func (t *TransactionsTable) ListByOwner(ctx context.Context, ownerID string) ([]*transaction.Transaction, error) {
	items, err := t.client.LRange(ctx, OwnerKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*transaction.Transaction, 0, len(items))
	for i, item := range items {
		record := &transaction.Transaction{}
		if err := json.Unmarshal([]byte(item), record); err != nil {
			return nil, fmt.Errorf("decode transaction at index %d: %w", i, err)
		}
		result = append(result, record)
	}
	return result, nil
}
