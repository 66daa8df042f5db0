package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines invoice persistence operations
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error

	// GetByID retrieves an invoice scoped to its owner.
	// Returns ErrInvoiceNotFound when absent or owned by another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)

	// ListByUser returns all of a user's invoices in creation order
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Invoice, error)

	Delete(ctx context.Context, userID, id uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ErrInvoiceNotFound indicates a missing or foreign-owned invoice
type ErrInvoiceNotFound struct {
	InvoiceID uuid.UUID
}

func (e ErrInvoiceNotFound) Error() string {
	return "invoice not found: " + e.InvoiceID.String()
}
