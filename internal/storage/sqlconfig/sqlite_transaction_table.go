package sqlconfig

import (
	"context"
	"database/sql"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

var _ transaction.ITransactionTable = (*SQLiteTransactionsTable)(nil)

// SQLiteTransactionsTable is the on-device variant of TransactionsTable.
// Amounts are kept as TEXT so they round-trip exactly.
type SQLiteTransactionsTable struct {
	exec bob.Executor
}

func NewSQLiteTransactionsTable(db *sql.DB) *SQLiteTransactionsTable {
	return &SQLiteTransactionsTable{exec: bob.NewDB(db)}
}

func (t *SQLiteTransactionsTable) Insert(ctx context.Context, record *transaction.Transaction) error {
	values := make([]bob.Expression, 0, len(transactionColumns))
	for _, value := range recordValues(record) {
		values = append(values, sqlite.Arg(value))
	}

	query := sqlite.Insert(
		im.Into(transactionsTableName, transactionColumns...),
		im.Values(values...),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

func (t *SQLiteTransactionsTable) ListByOwner(ctx context.Context, ownerID string) ([]*transaction.Transaction, error) {
	query := sqlite.Select(
		sm.Columns(selectColumns()...),
		sm.From(transactionsTableName),
		sm.Where(sqlite.Quote("owner_id").EQ(sqlite.Arg(ownerID))),
		sm.OrderBy("rowid").Asc(),
	)

	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[transaction.Transaction]())
	if err != nil {
		return nil, err
	}
	return toRecordPointers(rows), nil
}
