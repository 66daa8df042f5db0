// Package optimisation produces the financial advice report: a digest of the
// user's invoices and reconciliation state is sent to the analysis oracle,
// which returns spending insights and recommendations.
package optimisation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

// AnalysisOracle turns invoice and reconciliation digests into a report
type AnalysisOracle interface {
	Analyze(ctx context.Context, invoices interface{}, reconciliations interface{}) (map[string]interface{}, error)
}

// ErrNoInvoices indicates the user has nothing to analyze yet
type ErrNoInvoices struct{}

func (e ErrNoInvoices) Error() string {
	return "no invoices available for analysis"
}

// invoiceDigest is the trimmed invoice view sent to the oracle
type invoiceDigest struct {
	InvoiceNumber string  `json:"invoice_number"`
	Date          string  `json:"date,omitempty"`
	Counterparty  string  `json:"counterparty"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency,omitempty"`
	Category      string  `json:"category,omitempty"`
	Direction     string  `json:"direction"`
	Paid          bool    `json:"is_paid"`
}

// reconciliationDigest is the trimmed reconciled-transaction view sent to the oracle
type reconciliationDigest struct {
	InvoiceID  string  `json:"invoice_id,omitempty"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Vendor     string  `json:"vendor,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Service builds optimisation reports for users
type Service struct {
	logger   *slog.Logger
	oracle   AnalysisOracle
	invoices invoice.Repository
	txns     transaction.Repository
	timeout  time.Duration
}

// NewService creates an optimisation service. timeout bounds each oracle call.
func NewService(logger *slog.Logger, oracle AnalysisOracle, invoices invoice.Repository, txns transaction.Repository, timeout time.Duration) *Service {
	return &Service{
		logger:   logger,
		oracle:   oracle,
		invoices: invoices,
		txns:     txns,
		timeout:  timeout,
	}
}

// GenerateReport asks the analysis oracle for an optimisation report over the
// user's invoices and committed reconciliations
func (s *Service) GenerateReport(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	invs, err := s.invoices.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for analysis: %w", err)
	}
	if len(invs) == 0 {
		return nil, ErrNoInvoices{}
	}

	reconciled := true
	txns, err := s.txns.ListByUser(ctx, userID, &reconciled)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciled transactions for analysis: %w", err)
	}

	octx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	report, err := s.oracle.Analyze(octx, digestInvoices(invs), digestReconciliations(txns))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Optimisation report generated",
		"user_id", userID,
		"invoices", len(invs),
		"reconciliations", len(txns),
	)
	return report, nil
}

func digestInvoices(invs []*invoice.Invoice) []invoiceDigest {
	digests := make([]invoiceDigest, 0, len(invs))
	for _, inv := range invs {
		counterparty := inv.Supplier.Name
		if inv.Direction == invoice.DirectionOutgoing {
			counterparty = inv.Client.Name
		}
		d := invoiceDigest{
			InvoiceNumber: inv.InvoiceNumber,
			Counterparty:  counterparty,
			Total:         inv.Amounts.Total,
			Currency:      inv.Amounts.Currency,
			Category:      inv.Category,
			Direction:     string(inv.Direction),
			Paid:          inv.Paid,
		}
		if inv.InvoiceDate != nil {
			d.Date = inv.InvoiceDate.Format("2006-01-02")
		}
		digests = append(digests, d)
	}
	return digests
}

func digestReconciliations(txns []*transaction.Transaction) []reconciliationDigest {
	digests := make([]reconciliationDigest, 0, len(txns))
	for _, txn := range txns {
		d := reconciliationDigest{
			Date:   txn.Date.Format("2006-01-02"),
			Amount: txn.Amount,
			Vendor: txn.Vendor,
		}
		if txn.InvoiceID != nil {
			d.InvoiceID = txn.InvoiceID.String()
		}
		if txn.MatchConfidence != nil {
			d.Confidence = *txn.MatchConfidence
		}
		digests = append(digests, d)
	}
	return digests
}
