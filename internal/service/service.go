package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service is the entry point the handlers use: drafts are built by the
// factory, held by gates and committed into the ledger.
type Service struct {
	Factory *TransactionFactory
	Ledger  *LedgerStore
	Gates   *Gates
	logger  logrus.FieldLogger
}

// NewService wires the ledger with the committer gates use, usually the
// operator queue in front of the same ledger.
func NewService(ledger *LedgerStore, committer Committer, logger logrus.FieldLogger) *Service {
	return &Service{
		Factory: NewTransactionFactory(),
		Ledger:  ledger,
		Gates:   NewGates(committer, logger),
		logger:  logger,
	}
}

// StartSession loads the owner's ledger. Pending drafts of a previous owner
// are discarded. A *PersistenceError means the session started degraded.
func (s *Service) StartSession(ctx context.Context, ownerID string) error {
	if previous := s.Ledger.OwnerID(); previous != "" && previous != ownerID {
		s.Gates.Reset()
	}
	return s.Ledger.Initialize(ctx, ownerID)
}

func (s *Service) EndSession() {
	s.Gates.Reset()
	s.Ledger.Close()
}

// CreateDraft builds a draft and opens a gate for it.
func (s *Service) CreateDraft(category Category, fields Fields) (uuid.UUID, Summary, error) {
	ownerID := s.Ledger.OwnerID()
	if ownerID == "" {
		return uuid.Nil, Summary{}, ErrNotAuthenticated
	}

	draft, err := s.Factory.Build(category, fields)
	if err != nil {
		return uuid.Nil, Summary{}, err
	}
	draft.OwnerID = ownerID

	gate, summary, err := s.Gates.Open(draft)
	if err != nil {
		return uuid.Nil, Summary{}, err
	}
	return gate.ID(), summary, nil
}

func (s *Service) ConfirmDraft(ctx context.Context, draftID uuid.UUID) (Transaction, error) {
	return s.Gates.Confirm(ctx, draftID)
}

func (s *Service) CancelDraft(draftID uuid.UUID) error {
	return s.Gates.Cancel(draftID)
}

// History projects the current ledger for the history screen.
func (s *Service) History(mode FilterMode, now time.Time) (Buckets, error) {
	transactions, err := s.Ledger.All()
	if err != nil {
		return Buckets{}, err
	}
	return Project(transactions, mode, now), nil
}

func (s *Service) Recent(n int) ([]Transaction, error) {
	transactions, err := s.Ledger.All()
	if err != nil {
		return nil, err
	}
	return Recent(transactions, n), nil
}

func (s *Service) FindTransaction(id uuid.UUID) (Transaction, error) {
	return s.Ledger.Find(id)
}

func (s *Service) Snapshot() (*Snapshot, error) {
	return s.Ledger.Snapshot()
}

func (s *Service) Balance() (decimal.Decimal, error) {
	return s.Ledger.Balance()
}

func (s *Service) TransactionCount() (int, error) {
	snapshot, err := s.Ledger.Snapshot()
	if err != nil {
		return 0, err
	}
	return snapshot.Len(), nil
}

// OwnerID is empty when no session is active.
func (s *Service) OwnerID() string {
	return s.Ledger.OwnerID()
}

func (s *Service) DataPlans() []DataPlan {
	return s.Factory.DataPlans()
}

// IsDegraded reports whether err only means the ledger could not be read.
func IsDegraded(err error) bool {
	var persistenceErr *PersistenceError
	return errors.As(err, &persistenceErr) && persistenceErr.Op == "initialize"
}
