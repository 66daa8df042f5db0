package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines transaction persistence operations
type Repository interface {
	// CreateBatch stores imported statement lines in one round trip per row,
	// all rows sharing the caller's import batch ID
	CreateBatch(ctx context.Context, txns []*Transaction) error

	// GetByID retrieves a transaction scoped to its owner.
	// Returns ErrTransactionNotFound when absent or owned by another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)

	// ListByUser returns a user's transactions, newest first.
	// reconciled filters on the reconciliation flag when non-nil.
	ListByUser(ctx context.Context, userID uuid.UUID, reconciled *bool) ([]*Transaction, error)

	// ListUnreconciled returns the current ledger pool for a user.
	// Callers re-fetch this per invoice during a batch; the pool shrinks as
	// matches commit.
	ListUnreconciled(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)

	// HasReconciledForInvoice reports whether any reconciled transaction
	// already points at the given invoice
	HasReconciledForInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (bool, error)

	// Reconcile atomically flips the transaction from unreconciled to
	// reconciled, setting the invoice back-reference, confidence and details.
	// The check-and-set is a single conditional UPDATE; if the row was already
	// reconciled it returns ErrAlreadyReconciled and changes nothing.
	Reconcile(ctx context.Context, id, invoiceID uuid.UUID, confidence float64, details *ReconciliationDetails) error

	Delete(ctx context.Context, userID, id uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing or foreign-owned transaction
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// ErrAlreadyReconciled indicates the transaction-level uniqueness guard fired:
// the target row was reconciled by the time of commit
type ErrAlreadyReconciled struct {
	TransactionID uuid.UUID
}

func (e ErrAlreadyReconciled) Error() string {
	return "transaction already reconciled: " + e.TransactionID.String()
}
