package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

func newRecord(owner string, category string, amount string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:            uuid.Must(uuid.NewV7()),
		OwnerID:       owner,
		Title:         "Data Purchase - MTN",
		Category:      category,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: "Wallet",
		Network:       "mtn",
		Recipient:     "08012345678",
		Plan:          "1GB – ₦500",
		OccurredAt:    time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}
}

// -- Postgres table tests --

func TestTransactionsTable_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	record := newRecord("owner-1", "Data", "500")
	mock.ExpectExec(`(?s)INSERT INTO .*transactions.*VALUES`).
		WithArgs(sqlmock.AnyArg(), "owner-1", "Data Purchase - MTN", "Data", sqlmock.AnyArg(),
			"Wallet", "mtn", "08012345678", "1GB – ₦500", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewTransactionsTable(db).Insert(context.Background(), record)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionsTable_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT INTO .*transactions`).
		WillReturnError(errors.New("connection refused"))

	err = NewTransactionsTable(db).Insert(context.Background(), newRecord("owner-1", "Data", "500"))
	assert.EqualError(t, err, "connection refused")
}

func TestTransactionsTable_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.Must(uuid.NewV7())
	occurredAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(transactionColumns).
		AddRow(id.String(), "owner-1", "Wallet Top-up", "AddMoney", "1000.00", "Card", "", "", "", "", occurredAt)

	mock.ExpectQuery(`(?s)SELECT .*FROM .*transactions.*owner_id.*ORDER BY`).
		WithArgs("owner-1").
		WillReturnRows(rows)

	result, err := NewTransactionsTable(db).ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, id, result[0].ID)
	assert.Equal(t, "AddMoney", result[0].Category)
	assert.True(t, result[0].Amount.Equal(decimal.RequireFromString("1000")))
	assert.True(t, result[0].OccurredAt.Equal(occurredAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionsTable_ListByOwnerError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .*FROM .*transactions`).
		WillReturnError(errors.New("relation does not exist"))

	result, err := NewTransactionsTable(db).ListByOwner(context.Background(), "owner-1")
	assert.EqualError(t, err, "relation does not exist")
	assert.Nil(t, result)
}

// -- SQLite table tests --

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../migrations/sqlite/000001_create_transactions.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	return db
}

func TestSQLiteTransactionsTable_RoundTrip(t *testing.T) {
	table := NewSQLiteTransactionsTable(newSQLiteDB(t))
	ctx := context.Background()

	first := newRecord("owner-1", "AddMoney", "1000.50")
	second := newRecord("owner-1", "Data", "500")
	other := newRecord("owner-2", "Data", "250")
	require.NoError(t, table.Insert(ctx, first))
	require.NoError(t, table.Insert(ctx, other))
	require.NoError(t, table.Insert(ctx, second))

	rows, err := table.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, first.ID, rows[0].ID)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("1000.50")))
	assert.True(t, rows[0].OccurredAt.Equal(first.OccurredAt))
	assert.Equal(t, "1GB – ₦500", rows[0].Plan)
	assert.Equal(t, second.ID, rows[1].ID)
}

func TestSQLiteTransactionsTable_DuplicateID(t *testing.T) {
	table := NewSQLiteTransactionsTable(newSQLiteDB(t))
	ctx := context.Background()

	record := newRecord("owner-1", "AddMoney", "10")
	require.NoError(t, table.Insert(ctx, record))
	assert.Error(t, table.Insert(ctx, record))
}
