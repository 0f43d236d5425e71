package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated    = errors.New("no active ledger session")
	ErrInvalidState        = errors.New("draft is not awaiting confirmation")
	ErrDraftNotFound       = errors.New("draft not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrOwnerMismatch is returned when a draft is committed after the
	// session moved to another owner.
	ErrOwnerMismatch = fmt.Errorf("%w: draft belongs to another owner", ErrInvalidState)
)

// ValidationError reports a draft field that failed validation. It never
// reaches the persistent store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed read or write against the persistent store.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
