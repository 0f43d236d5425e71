package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

type LedgerEventKind int

const (
	LedgerEventInitialized LedgerEventKind = iota
	LedgerEventCommitted
	LedgerEventClosed
)

func (k LedgerEventKind) String() string {
	switch k {
	case LedgerEventInitialized:
		return "initialized"
	case LedgerEventCommitted:
		return "committed"
	case LedgerEventClosed:
		return "closed"
	}
	return fmt.Sprintf("LedgerEventKind(%d)", int(k))
}

// LedgerEvent describes a change of the current snapshot. Transaction is only
// set for commits and Snapshot is nil once the session is closed.
type LedgerEvent struct {
	Kind        LedgerEventKind
	Transaction Transaction
	Snapshot    *Snapshot
}

// Subscriber is called synchronously by the writer, in commit order. It must
// not call back into Append, Initialize or Close.
type Subscriber func(event LedgerEvent)

type LedgerOption func(*LedgerStore)

// WithClock replaces time.Now as the source of commit timestamps.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *LedgerStore) {
		l.now = now
	}
}

// LedgerStore is the append-only ledger of the signed-in owner. Writes are
// serialized; reads load the current snapshot and never block.
type LedgerStore struct {
	table  transaction.ITransactionTable
	logger logrus.FieldLogger
	now    func() time.Time

	current atomic.Pointer[Snapshot]
	writeMu sync.Mutex

	subscribersMu sync.Mutex
	subscribers   map[uint64]Subscriber
	nextSubID     uint64
}

func NewLedgerStore(table transaction.ITransactionTable, logger logrus.FieldLogger, opts ...LedgerOption) *LedgerStore {
	l := &LedgerStore{
		table:       table,
		logger:      logger,
		now:         time.Now,
		subscribers: make(map[uint64]Subscriber),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Initialize starts a session for ownerID, replacing any previous one. When the
// store cannot be read the session still starts, with an empty ledger, and the
// read failure is returned as a *PersistenceError.
func (l *LedgerStore) Initialize(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return ErrNotAuthenticated
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	logger := l.logger.WithField("ownerID", ownerID)
	records, err := l.table.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.WithError(err).Error("LedgerStore.Initialize.read error, starting with an empty ledger")
		snapshot := newSnapshot(ownerID, nil)
		l.current.Store(snapshot)
		l.notify(LedgerEvent{Kind: LedgerEventInitialized, Snapshot: snapshot})
		return &PersistenceError{Op: "initialize", Cause: err}
	}

	transactions := make([]Transaction, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, fromRecord(record))
	}
	snapshot := newSnapshot(ownerID, transactions)
	l.current.Store(snapshot)

	logger.WithFields(logrus.Fields{
		"transactionCount": snapshot.Len(),
		"balance":          snapshot.Balance().String(),
	}).Info("LedgerStore.Initialize.loaded")
	l.notify(LedgerEvent{Kind: LedgerEventInitialized, Snapshot: snapshot})
	return nil
}

// Close ends the session and discards the snapshot. Subscribers stay registered.
func (l *LedgerStore) Close() {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	previous := l.current.Swap(nil)
	if previous == nil {
		return
	}
	l.logger.WithField("ownerID", previous.OwnerID()).Info("LedgerStore.Close.session ended")
	l.notify(LedgerEvent{Kind: LedgerEventClosed})
}

// Append commits a draft. The new snapshot is published only after the record
// is persisted; on a failed write the previous snapshot stays current and a
// *PersistenceError is returned, so the draft can be retried.
func (l *LedgerStore) Append(ctx context.Context, draft Draft) (Transaction, error) {
	if err := draft.Validate(); err != nil {
		return Transaction{}, err
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	previous := l.current.Load()
	if previous == nil {
		return Transaction{}, ErrNotAuthenticated
	}
	if draft.OwnerID != "" && draft.OwnerID != previous.OwnerID() {
		l.logger.WithFields(logrus.Fields{
			"ownerID":      previous.OwnerID(),
			"draftOwnerID": draft.OwnerID,
		}).Warn("LedgerStore.Append.owner mismatch")
		return Transaction{}, ErrOwnerMismatch
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}

	date := draft.Date
	if date.IsZero() {
		date = l.now()
	}

	tx := Transaction{
		ID:            id,
		OwnerID:       previous.OwnerID(),
		Title:         draft.Title,
		Category:      draft.Category,
		Amount:        draft.Amount,
		PaymentMethod: draft.PaymentMethod,
		Network:       draft.Network(),
		Recipient:     draft.Recipient(),
		Plan:          draft.Plan(),
		Note:          draft.Note,
		Date:          NormalizeDate(date),
	}
	next := previous.with(tx)

	logger := l.logger.WithFields(logrus.Fields{
		"ownerID":       tx.OwnerID,
		"transactionID": tx.ID.String(),
		"category":      tx.Category,
	})
	if err := l.table.Insert(ctx, toRecord(tx)); err != nil {
		logger.WithError(err).Error("LedgerStore.Append.persist error, rolled back")
		return Transaction{}, &PersistenceError{Op: "append", Cause: err}
	}

	l.current.Store(next)
	logger.WithField("balance", next.Balance().String()).Info("LedgerStore.Append.committed")
	l.notify(LedgerEvent{Kind: LedgerEventCommitted, Transaction: tx, Snapshot: next})
	return tx, nil
}

// Commit appends the draft directly, without going through a queue.
func (l *LedgerStore) Commit(ctx context.Context, draft Draft) (Transaction, error) {
	return l.Append(ctx, draft)
}

// Snapshot returns the current snapshot or ErrNotAuthenticated without a session.
func (l *LedgerStore) Snapshot() (*Snapshot, error) {
	snapshot := l.current.Load()
	if snapshot == nil {
		return nil, ErrNotAuthenticated
	}
	return snapshot, nil
}

func (l *LedgerStore) Balance() (decimal.Decimal, error) {
	snapshot, err := l.Snapshot()
	if err != nil {
		return decimal.Zero, err
	}
	return snapshot.Balance(), nil
}

func (l *LedgerStore) All() ([]Transaction, error) {
	snapshot, err := l.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Transactions(), nil
}

func (l *LedgerStore) Find(id uuid.UUID) (Transaction, error) {
	snapshot, err := l.Snapshot()
	if err != nil {
		return Transaction{}, err
	}
	tx, ok := snapshot.Find(id)
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return tx, nil
}

// OwnerID is empty when no session is active.
func (l *LedgerStore) OwnerID() string {
	snapshot := l.current.Load()
	if snapshot == nil {
		return ""
	}
	return snapshot.OwnerID()
}

// Subscribe registers fn for every later snapshot change and returns a func
// that removes it.
func (l *LedgerStore) Subscribe(fn Subscriber) func() {
	l.subscribersMu.Lock()
	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = fn
	l.subscribersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.subscribersMu.Lock()
			delete(l.subscribers, id)
			l.subscribersMu.Unlock()
		})
	}
}

// notify runs with writeMu held, which is what keeps delivery in commit order.
func (l *LedgerStore) notify(event LedgerEvent) {
	l.subscribersMu.Lock()
	ids := make([]uint64, 0, len(l.subscribers))
	for id := range l.subscribers {
		ids = append(ids, id)
	}
	l.subscribersMu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		l.subscribersMu.Lock()
		fn, ok := l.subscribers[id]
		l.subscribersMu.Unlock()
		if ok {
			fn(event)
		}
	}
}

// NormalizeDate is the canonical timestamp form: UTC with microsecond
// precision, which every backend can store without loss.
func NormalizeDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func toRecord(tx Transaction) *transaction.Transaction {
	return &transaction.Transaction{
		ID:            tx.ID,
		OwnerID:       tx.OwnerID,
		Title:         tx.Title,
		Category:      string(tx.Category),
		Amount:        tx.Amount,
		PaymentMethod: tx.PaymentMethod,
		Network:       tx.Network,
		Recipient:     tx.Recipient,
		Plan:          tx.Plan,
		Note:          tx.Note,
		OccurredAt:    tx.Date,
	}
}

func fromRecord(record *transaction.Transaction) Transaction {
	return Transaction{
		ID:            record.ID,
		OwnerID:       record.OwnerID,
		Title:         record.Title,
		Category:      Category(record.Category),
		Amount:        record.Amount,
		PaymentMethod: record.PaymentMethod,
		Network:       record.Network,
		Recipient:     record.Recipient,
		Plan:          record.Plan,
		Note:          record.Note,
		Date:          NormalizeDate(record.OccurredAt),
	}
}
