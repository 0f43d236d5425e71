package sqlconfig

import (
	"context"
	"database/sql"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

const transactionsTableName = "transactions"

var transactionColumns = []string{
	"id",
	"owner_id",
	"title",
	"category",
	"amount",
	"payment_method",
	"network",
	"recipient",
	"plan",
	"note",
	"occurred_at",
}

var _ transaction.ITransactionTable = (*TransactionsTable)(nil)

// TransactionsTable stores ledger records in Postgres.
type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(db *sql.DB) *TransactionsTable {
	return &TransactionsTable{exec: bob.NewDB(db)}
}

// Insert appends a single record. The seq column keeps commit order.
func (t *TransactionsTable) Insert(ctx context.Context, record *transaction.Transaction) error {
	values := make([]bob.Expression, 0, len(transactionColumns))
	for _, value := range recordValues(record) {
		values = append(values, psql.Arg(value))
	}

	query := psql.Insert(
		im.Into(transactionsTableName, transactionColumns...),
		im.Values(values...),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// ListByOwner returns every record for the owner in commit order.
func (t *TransactionsTable) ListByOwner(ctx context.Context, ownerID string) ([]*transaction.Transaction, error) {
	query := psql.Select(
		sm.Columns(selectColumns()...),
		sm.From(transactionsTableName),
		sm.Where(psql.Quote("owner_id").EQ(psql.Arg(ownerID))),
		sm.OrderBy(psql.Quote("seq")).Asc(),
	)

	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[transaction.Transaction]())
	if err != nil {
		return nil, err
	}
	return toRecordPointers(rows), nil
}

func recordValues(record *transaction.Transaction) []any {
	return []any{
		record.ID,
		record.OwnerID,
		record.Title,
		record.Category,
		record.Amount,
		record.PaymentMethod,
		record.Network,
		record.Recipient,
		record.Plan,
		record.Note,
		record.OccurredAt,
	}
}

func selectColumns() []any {
	columns := make([]any, len(transactionColumns))
	for i, column := range transactionColumns {
		columns[i] = column
	}
	return columns
}

func toRecordPointers(rows []transaction.Transaction) []*transaction.Transaction {
	result := make([]*transaction.Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result
}
