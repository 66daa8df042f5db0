package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

// RunBatch reconciles every eligible invoice of a user against the current
// unreconciled ledger pool, committing each confident pairing before moving
// on. Invoices that already own a reconciled transaction are skipped, and the
// pool is re-fetched per invoice so earlier commits shrink it. Oracle
// failures never abort the batch; only database failures do.
func (e *Engine) RunBatch(ctx context.Context, userID uuid.UUID) (*BatchReport, error) {
	invoices, err := e.invoices.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for batch reconciliation: %w", err)
	}

	report := &BatchReport{
		Success: true,
		Results: []InvoiceResult{},
	}
	report.Stats.TotalInvoices = len(invoices)

	for _, inv := range invoices {
		already, err := e.txns.HasReconciledForInvoice(ctx, userID, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check reconciliation state for invoice %s: %w", inv.ID, err)
		}
		if already {
			e.logger.Debug("Invoice already reconciled, skipping", "invoice_id", inv.ID)
			continue
		}

		pool, err := e.txns.ListUnreconciled(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch unreconciled transactions: %w", err)
		}
		if len(pool) == 0 {
			e.logger.Info("No unreconciled transactions left, stopping batch", "user_id", userID)
			break
		}

		result, err := e.reconcileOne(ctx, inv, pool)
		if err != nil {
			return nil, err
		}

		report.Stats.Processed++
		switch result.Outcome {
		case OutcomeAutoConfirmed:
			report.Stats.Matched++
			report.Stats.AutoConfirmed++
		case OutcomePendingReview:
			report.Stats.Matched++
			report.Stats.ManualReview++
		case OutcomeNoMatch:
			report.Stats.NoMatch++
		}
		report.Results = append(report.Results, result)
	}

	report.Message = fmt.Sprintf("%d invoice(s) processed: %d auto-confirmed, %d pending review, %d without match",
		report.Stats.Processed,
		report.Stats.AutoConfirmed,
		report.Stats.ManualReview,
		report.Stats.NoMatch,
	)
	e.logger.Info("Batch reconciliation finished",
		"user_id", userID,
		"total_invoices", report.Stats.TotalInvoices,
		"processed", report.Stats.Processed,
		"auto_confirmed", report.Stats.AutoConfirmed,
		"manual_review", report.Stats.ManualReview,
		"no_match", report.Stats.NoMatch,
	)
	return report, nil
}

// reconcileOne decides the outcome for a single invoice against the given
// pool. A non-nil error means a database failure; every oracle or resolution
// problem degrades to a review or no-match outcome instead.
func (e *Engine) reconcileOne(ctx context.Context, inv *invoice.Invoice, pool []*transaction.Transaction) (InvoiceResult, error) {
	result := InvoiceResult{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Outcome:       OutcomeNoMatch,
	}

	octx, cancel := context.WithTimeout(ctx, e.timeout)
	matches, err := e.oracle.ProposeMatches(octx, summarizeInvoice(inv), summarizeLedger(pool), inv.Direction)
	cancel()
	if err != nil {
		e.logger.Warn("Matching oracle failed, counting invoice as unmatched",
			"invoice_id", inv.ID,
			"error", err,
		)
		return result, nil
	}

	candidate := selectBestCandidate(matches)
	if candidate == nil {
		return result, nil
	}
	result.Confidence = candidate.Confidence
	result.Details = candidate.Details

	txn, err := resolveTransaction(candidate, pool)
	if err != nil {
		e.logger.Warn("Could not resolve oracle candidate to a ledger row",
			"invoice_id", inv.ID,
			"candidate_date", candidate.Date,
			"candidate_amount", candidate.Amount,
		)
		result.Outcome = OutcomePendingReview
		return result, nil
	}
	result.TransactionID = &txn.ID

	if candidate.Confidence < e.threshold {
		result.Outcome = OutcomePendingReview
		return result, nil
	}

	now := time.Now().UTC()
	details := &transaction.ReconciliationDetails{
		InvoiceNumber: inv.InvoiceNumber,
		AutoConfirmed: true,
		ConfirmedBy:   "system",
		ConfirmedAt:   now,
	}
	if err := e.txns.Reconcile(ctx, txn.ID, inv.ID, candidate.Confidence, details); err != nil {
		var already transaction.ErrAlreadyReconciled
		if errors.As(err, &already) {
			e.logger.Warn("Transaction reconciled concurrently, flagging invoice for review",
				"invoice_id", inv.ID,
				"transaction_id", txn.ID,
			)
			result.Outcome = OutcomePendingReview
			return result, nil
		}
		return result, fmt.Errorf("failed to commit reconciliation for invoice %s: %w", inv.ID, err)
	}

	e.recordCommit(ctx, commitInfo{
		userID:        inv.UserID,
		invoiceID:     inv.ID,
		transactionID: txn.ID,
		invoiceNumber: inv.InvoiceNumber,
		confidence:    candidate.Confidence,
		autoConfirmed: true,
		confirmedBy:   "system",
		confirmedAt:   now,
		details:       candidate.Details,
	})
	result.Outcome = OutcomeAutoConfirmed
	result.AutoConfirmed = true
	return result, nil
}

// summarizeInvoice builds the oracle-facing view of an invoice. The
// counterparty is the supplier for incoming invoices and the client for
// outgoing ones.
func summarizeInvoice(inv *invoice.Invoice) InvoiceSummary {
	counterparty := inv.Supplier.Name
	if inv.Direction == invoice.DirectionOutgoing {
		counterparty = inv.Client.Name
	}
	summary := InvoiceSummary{
		Supplier:      counterparty,
		Total:         inv.Amounts.Total,
		InvoiceNumber: inv.InvoiceNumber,
	}
	if inv.InvoiceDate != nil {
		summary.Date = inv.InvoiceDate.Format("2006-01-02")
	}
	return summary
}

func summarizeLedger(pool []*transaction.Transaction) []TransactionSummary {
	lines := make([]TransactionSummary, 0, len(pool))
	for _, txn := range pool {
		lines = append(lines, TransactionSummary{
			Date:          txn.Date.Format("2006-01-02"),
			Amount:        txn.Amount,
			Vendor:        txn.Vendor,
			Description:   txn.Description,
			TransactionID: txn.ID.String(),
		})
	}
	return lines
}
