package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction is the persisted ledger record. Optional attributes are stored
// as empty strings when absent.
type Transaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	OwnerID       string          `db:"owner_id" json:"ownerId"`
	Title         string          `db:"title" json:"title"`
	Category      string          `db:"category" json:"category"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod string          `db:"payment_method" json:"paymentMethod"`
	Network       string          `db:"network" json:"network,omitempty"`
	Recipient     string          `db:"recipient" json:"recipient,omitempty"`
	Plan          string          `db:"plan" json:"plan,omitempty"`
	Note          string          `db:"note" json:"note,omitempty"`
	OccurredAt    time.Time       `db:"occurred_at" json:"date"`
}

// ITransactionTable is the persistent store for ledger records, partitioned by owner.
// ListByOwner returns records in the order they were inserted.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	Insert(ctx context.Context, record *Transaction) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Transaction, error)
}
