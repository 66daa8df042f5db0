// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the accounting assistant.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL
type InvoiceRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewInvoiceRepository(logger *slog.Logger, db *persistence.PostgresDB) invoice.Repository {
	return &InvoiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls
func (r *InvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	return &InvoiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const invoiceColumns = `id, user_id, invoice_number, invoice_date, due_date, supplier, client, amounts,
		category, anomalies, confidence, direction, file_name, email_id, email_subject,
		is_validated, is_paid, created_at, updated_at`

// Create stores a new invoice in the database
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, invoice_date, due_date, supplier, client, amounts,
			category, anomalies, confidence, direction, file_name, email_id, email_subject,
			is_validated, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.querier.Exec(ctx, query,
		inv.ID,
		inv.UserID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Supplier,
		inv.Client,
		inv.Amounts,
		inv.Category,
		inv.Anomalies,
		inv.Confidence,
		inv.Direction,
		inv.FileName,
		inv.EmailID,
		inv.EmailSubject,
		inv.Validated,
		inv.Paid,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", "error", err)
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice by its ID, scoped to the owning user
func (r *InvoiceRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*invoice.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1 AND user_id = $2
	`

	inv, err := r.scanInvoice(r.querier.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrInvoiceNotFound{InvoiceID: id}
		}
		r.logger.Error("Failed to get invoice", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return inv, nil
}

// ListByUser retrieves all invoices for a user in creation order.
// The ordering is the batch orchestrator's processing order, so it is pinned
// to (created_at, id) to stay deterministic.
func (r *InvoiceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*invoice.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list invoices", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			r.logger.Error("Failed to scan invoice row", "user_id", userID.String(), "error", err)
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice rows: %w", err)
	}

	return invoices, nil
}

// Delete removes an invoice owned by the user, releasing any ledger rows
// reconciled against it back to the unreconciled pool in the same statement.
// Returns ErrInvoiceNotFound if no invoice row was deleted.
func (r *InvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		WITH released AS (
			UPDATE transactions
			SET is_reconciled = FALSE, invoice_id = NULL,
				reconciliation_confidence = NULL, reconciliation_details = NULL
			WHERE invoice_id = $1 AND user_id = $2
		)
		DELETE FROM invoices WHERE id = $1 AND user_id = $2
	`

	result, err := r.querier.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete invoice", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if result.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound{InvoiceID: id}
	}

	return nil
}

func (r *InvoiceRepository) scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.InvoiceNumber,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.Supplier,
		&inv.Client,
		&inv.Amounts,
		&inv.Category,
		&inv.Anomalies,
		&inv.Confidence,
		&inv.Direction,
		&inv.FileName,
		&inv.EmailID,
		&inv.EmailSubject,
		&inv.Validated,
		&inv.Paid,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
