package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
	"github.com/FaridBenamara/Bill-z/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const transactionColumns = `id, user_id, date, amount, vendor, description, category, source_file,
		import_batch_id, is_reconciled, invoice_id, reconciliation_confidence, reconciliation_details, created_at`

// CreateBatch stores a set of imported statement lines
func (r *TransactionRepository) CreateBatch(ctx context.Context, txns []*transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, date, amount, vendor, description, category, source_file,
			import_batch_id, is_reconciled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, txn := range txns {
		_, err := r.querier.Exec(ctx, query,
			txn.ID,
			txn.UserID,
			txn.Date,
			txn.Amount,
			txn.Vendor,
			txn.Description,
			txn.Category,
			txn.SourceFile,
			txn.ImportBatchID,
			txn.Reconciled,
			txn.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create transaction", "id", txn.ID.String(), "error", err)
			return fmt.Errorf("failed to create transaction: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a transaction by its ID, scoped to the owning user
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`

	txn, err := r.scanTransaction(r.querier.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// ListByUser retrieves a user's transactions, newest first, optionally
// filtered on the reconciliation flag
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, reconciled *bool) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	if reconciled != nil {
		query += ` AND is_reconciled = $2`
		args = append(args, *reconciled)
	}
	query += ` ORDER BY date DESC, id`

	return r.queryTransactions(ctx, query, args...)
}

// ListUnreconciled returns the current ledger pool for a user in import order.
// Resolver strategies take the first structural match, so the order is pinned
// to (created_at, id) to keep resolution deterministic.
func (r *TransactionRepository) ListUnreconciled(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND is_reconciled = FALSE
		ORDER BY created_at, id
	`

	return r.queryTransactions(ctx, query, userID)
}

// HasReconciledForInvoice reports whether any reconciled transaction already
// points at the given invoice
func (r *TransactionRepository) HasReconciledForInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND invoice_id = $2 AND is_reconciled = TRUE
		)
	`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, userID, invoiceID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check reconciled transactions for invoice", "invoice_id", invoiceID.String(), "error", err)
		return false, fmt.Errorf("failed to check reconciled transactions for invoice: %w", err)
	}

	return exists, nil
}

// Reconcile atomically flips a transaction from unreconciled to reconciled.
// The WHERE clause re-checks the reconciliation flag so that concurrent
// commits against the same row cannot double-book it; the loser observes
// zero affected rows and gets ErrAlreadyReconciled.
func (r *TransactionRepository) Reconcile(ctx context.Context, id, invoiceID uuid.UUID, confidence float64, details *transaction.ReconciliationDetails) error {
	query := `
		UPDATE transactions
		SET is_reconciled = TRUE, invoice_id = $2, reconciliation_confidence = $3, reconciliation_details = $4
		WHERE id = $1 AND is_reconciled = FALSE
	`

	result, err := r.querier.Exec(ctx, query, id, invoiceID, confidence, details)
	if err != nil {
		r.logger.Error("Failed to reconcile transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to reconcile transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrAlreadyReconciled{TransactionID: id}
	}

	return nil
}

// Delete removes a transaction owned by the user. Deletion is the only path
// that releases a reconciled row back out of the ledger.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	result, err := r.querier.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*transaction.Transaction, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query transactions", "error", err)
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		txn, err := r.scanTransaction(rows)
		if err != nil {
			r.logger.Error("Failed to scan transaction row", "error", err)
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return txns, nil
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Date,
		&txn.Amount,
		&txn.Vendor,
		&txn.Description,
		&txn.Category,
		&txn.SourceFile,
		&txn.ImportBatchID,
		&txn.Reconciled,
		&txn.InvoiceID,
		&txn.MatchConfidence,
		&txn.MatchDetails,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
