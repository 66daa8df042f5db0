// Package reconciliation implements the reconciliation decision engine: it
// asks the matching oracle which ledger lines could settle an invoice, picks
// the strongest candidate, resolves it back to a concrete transaction row and
// commits the pairing when confidence clears the auto-confirm threshold.
// It also owns the shared wire shapes of the matching oracle and the audit
// trail of committed reconciliations.
package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FaridBenamara/Bill-z/internal/config"
	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
	"github.com/FaridBenamara/Bill-z/internal/platform/messaging/producers"
)

// MatchOracle proposes ledger lines that could settle an invoice
type MatchOracle interface {
	ProposeMatches(ctx context.Context, inv InvoiceSummary, lines []TransactionSummary, direction invoice.Direction) (*MatchResult, error)
}

// Engine drives reconciliation decisions for invoices against the ledger.
// Commits are immediate and independent: each confirmed pairing is durable
// before the next invoice is considered.
type Engine struct {
	logger    *slog.Logger
	oracle    MatchOracle
	invoices  invoice.Repository
	txns      transaction.Repository
	audits    AuditRepository
	publisher producers.MessagePublisher
	threshold float64
	timeout   time.Duration
}

// NewEngine creates a reconciliation engine. publisher may be nil when the
// event stream is disabled.
func NewEngine(
	logger *slog.Logger,
	cfg *config.ReconciliationConfig,
	oracle MatchOracle,
	invoices invoice.Repository,
	txns transaction.Repository,
	audits AuditRepository,
	publisher producers.MessagePublisher,
) *Engine {
	return &Engine{
		logger:    logger,
		oracle:    oracle,
		invoices:  invoices,
		txns:      txns,
		audits:    audits,
		publisher: publisher,
		threshold: cfg.AutoConfirmThreshold,
		timeout:   cfg.OracleTimeout,
	}
}

// ConfirmManual commits a user-chosen invoice/transaction pairing. Both rows
// must exist and belong to userID; a transaction that is already reconciled
// surfaces transaction.ErrAlreadyReconciled untouched.
func (e *Engine) ConfirmManual(ctx context.Context, userID, invoiceID, transactionID uuid.UUID, confidence float64) (*AuditRecord, error) {
	inv, err := e.invoices.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := e.txns.GetByID(ctx, userID, transactionID); err != nil {
		return nil, err
	}

	if confidence <= 0 {
		confidence = 1.0
	}
	now := time.Now().UTC()
	details := &transaction.ReconciliationDetails{
		InvoiceNumber: inv.InvoiceNumber,
		AutoConfirmed: false,
		ConfirmedBy:   "user",
		ConfirmedAt:   now,
	}
	if err := e.txns.Reconcile(ctx, transactionID, invoiceID, confidence, details); err != nil {
		return nil, err
	}

	record := e.recordCommit(ctx, commitInfo{
		userID:        userID,
		invoiceID:     invoiceID,
		transactionID: transactionID,
		invoiceNumber: inv.InvoiceNumber,
		confidence:    confidence,
		autoConfirmed: false,
		confirmedBy:   "user",
		confirmedAt:   now,
	})
	return record, nil
}

// commitInfo carries everything recorded about one committed pairing
type commitInfo struct {
	userID        uuid.UUID
	invoiceID     uuid.UUID
	transactionID uuid.UUID
	invoiceNumber string
	confidence    float64
	autoConfirmed bool
	confirmedBy   string
	confirmedAt   time.Time
	details       map[string]interface{}
}

// recordCommit writes the audit trail and publishes the reconciliation event.
// Both are best-effort: the database commit already happened and is never
// unwound for observability failures.
func (e *Engine) recordCommit(ctx context.Context, info commitInfo) *AuditRecord {
	record := &AuditRecord{
		ID:            uuid.New(),
		UserID:        info.userID,
		InvoiceID:     info.invoiceID,
		TransactionID: info.transactionID,
		InvoiceNumber: info.invoiceNumber,
		Confidence:    info.confidence,
		AutoConfirmed: info.autoConfirmed,
		ConfirmedBy:   info.confirmedBy,
		ConfirmedAt:   info.confirmedAt,
		Details:       info.details,
	}
	if err := e.audits.Create(ctx, record); err != nil {
		e.logger.Error("Failed to persist reconciliation audit record",
			"invoice_id", info.invoiceID,
			"transaction_id", info.transactionID,
			"error", err,
		)
	}

	if e.publisher != nil {
		event := Event{
			UserID:        info.userID,
			InvoiceID:     info.invoiceID,
			TransactionID: info.transactionID,
			Confidence:    info.confidence,
			AutoConfirmed: info.autoConfirmed,
			ConfirmedAt:   info.confirmedAt,
		}
		if err := e.publisher.Publish(ctx, info.transactionID.String(), event); err != nil {
			e.logger.Error("Failed to publish reconciliation event",
				"invoice_id", info.invoiceID,
				"transaction_id", info.transactionID,
				"error", err,
			)
		}
	}

	e.logger.Info("Reconciliation committed",
		"invoice_id", info.invoiceID,
		"transaction_id", info.transactionID,
		"confidence", info.confidence,
		"auto_confirmed", info.autoConfirmed,
		"confirmed_by", info.confirmedBy,
	)
	return record
}

// ListAudit returns a user's committed reconciliations, newest first
func (e *Engine) ListAudit(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*AuditRecord, error) {
	records, err := e.audits.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation audit records: %w", err)
	}
	return records, nil
}
