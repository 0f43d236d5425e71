package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Committer appends a confirmed draft to the ledger.
type Committer interface {
	Commit(ctx context.Context, draft Draft) (Transaction, error)
}

type GateState int

const (
	GateStateDraft GateState = iota
	GateStatePendingConfirmation
	GateStateCommitted
	GateStateCancelled
)

func (s GateState) String() string {
	switch s {
	case GateStateDraft:
		return "Draft"
	case GateStatePendingConfirmation:
		return "PendingConfirmation"
	case GateStateCommitted:
		return "Committed"
	case GateStateCancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("GateState(%d)", int(s))
}

func (s GateState) Terminal() bool {
	return s == GateStateCommitted || s == GateStateCancelled
}

// Summary is what the user reviews before confirming.
type Summary struct {
	Category        Category
	Title           string
	Recipient       string
	Network         string
	Plan            string
	Amount          decimal.Decimal
	FormattedAmount string
}

func SummarizeDraft(draft Draft) Summary {
	return Summary{
		Category:        draft.Category,
		Title:           draft.Title,
		Recipient:       draft.Recipient(),
		Network:         draft.Network(),
		Plan:            draft.Plan(),
		Amount:          draft.Amount,
		FormattedAmount: FormatSigned(draft.Amount, draft.Category.IsIncome()),
	}
}

// ConfirmationGate holds one draft until the user confirms or cancels it.
// Confirm and Cancel are serialized, so a draft reaches exactly one terminal
// state and is committed at most once.
type ConfirmationGate struct {
	mu        sync.Mutex
	id        uuid.UUID
	draft     Draft
	state     GateState
	committed Transaction
	committer Committer
	logger    logrus.FieldLogger
}

func NewConfirmationGate(id uuid.UUID, draft Draft, committer Committer, logger logrus.FieldLogger) *ConfirmationGate {
	return &ConfirmationGate{
		id:        id,
		draft:     draft,
		state:     GateStateDraft,
		committer: committer,
		logger:    logger.WithField("draftID", id.String()),
	}
}

func (g *ConfirmationGate) ID() uuid.UUID {
	return g.id
}

func (g *ConfirmationGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Committed returns the ledger entry once the gate is committed.
func (g *ConfirmationGate) Committed() (Transaction, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.committed, g.state == GateStateCommitted
}

// Present moves the gate to PendingConfirmation and returns the summary to
// show. Presenting again while pending just returns the summary.
func (g *ConfirmationGate) Present() (Summary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case GateStateDraft:
		g.state = GateStatePendingConfirmation
		g.logger.WithField("draft", spew.Sdump(g.draft)).Debug("ConfirmationGate.Present.pending")
	case GateStatePendingConfirmation:
	default:
		return Summary{}, fmt.Errorf("%w: gate is %s", ErrInvalidState, g.state)
	}
	return SummarizeDraft(g.draft), nil
}

// Confirm commits the draft. A failed commit leaves the gate pending so the
// caller can retry.
func (g *ConfirmationGate) Confirm(ctx context.Context) (Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GateStatePendingConfirmation {
		return Transaction{}, fmt.Errorf("%w: gate is %s", ErrInvalidState, g.state)
	}

	tx, err := g.committer.Commit(ctx, g.draft)
	if err != nil {
		g.logger.WithError(err).Warn("ConfirmationGate.Confirm.commit failed, still pending")
		return Transaction{}, err
	}

	g.state = GateStateCommitted
	g.committed = tx
	g.logger.WithField("transactionID", tx.ID.String()).Info("ConfirmationGate.Confirm.committed")
	return tx, nil
}

// Cancel discards the draft without touching the ledger.
func (g *ConfirmationGate) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GateStatePendingConfirmation {
		return fmt.Errorf("%w: gate is %s", ErrInvalidState, g.state)
	}
	g.state = GateStateCancelled
	g.logger.Info("ConfirmationGate.Cancel.cancelled")
	return nil
}

// Gates tracks the drafts currently awaiting confirmation, keyed by draft id.
// Gates leave the registry once they reach a terminal state.
type Gates struct {
	mu        sync.Mutex
	open      map[uuid.UUID]*ConfirmationGate
	committer Committer
	logger    logrus.FieldLogger
}

func NewGates(committer Committer, logger logrus.FieldLogger) *Gates {
	return &Gates{
		open:      make(map[uuid.UUID]*ConfirmationGate),
		committer: committer,
		logger:    logger,
	}
}

// Open registers a new gate for the draft and presents it.
func (g *Gates) Open(draft Draft) (*ConfirmationGate, Summary, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("generate draft id: %w", err)
	}

	gate := NewConfirmationGate(id, draft, g.committer, g.logger)
	summary, err := gate.Present()
	if err != nil {
		return nil, Summary{}, err
	}

	g.mu.Lock()
	g.open[id] = gate
	g.mu.Unlock()
	return gate, summary, nil
}

func (g *Gates) Get(id uuid.UUID) (*ConfirmationGate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	gate, ok := g.open[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return gate, nil
}

func (g *Gates) Confirm(ctx context.Context, id uuid.UUID) (Transaction, error) {
	gate, err := g.Get(id)
	if err != nil {
		return Transaction{}, err
	}

	tx, err := gate.Confirm(ctx)
	g.forgetIfTerminal(gate)
	return tx, err
}

func (g *Gates) Cancel(id uuid.UUID) error {
	gate, err := g.Get(id)
	if err != nil {
		return err
	}

	err = gate.Cancel()
	g.forgetIfTerminal(gate)
	return err
}

// Reset drops every pending draft, as happens on logout.
func (g *Gates) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.open) > 0 {
		g.logger.WithField("discarded", len(g.open)).Info("Gates.Reset.discarded pending drafts")
	}
	g.open = make(map[uuid.UUID]*ConfirmationGate)
}

func (g *Gates) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.open)
}

func (g *Gates) forgetIfTerminal(gate *ConfirmationGate) {
	if !gate.State().Terminal() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open[gate.ID()] == gate {
		delete(g.open, gate.ID())
	}
}
