package handler

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/FaridBenamara/Bill-z/internal/ledgerimport"
	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
	"github.com/FaridBenamara/Bill-z/internal/scanner"
)

// ScannerService extracts invoices from raw documents
type ScannerService interface {
	ScanBatch(ctx context.Context, userID uuid.UUID, docs []scanner.Document) (*scanner.ScanReport, error)
}

// ImportService parses bank statements into ledger transactions
type ImportService interface {
	Import(ctx context.Context, userID uuid.UUID, fileName string, r io.Reader) (*ledgerimport.ImportResult, error)
}

// ReconciliationService drives batch and manual reconciliation
type ReconciliationService interface {
	RunBatch(ctx context.Context, userID uuid.UUID) (*reconciliation.BatchReport, error)
	ConfirmManual(ctx context.Context, userID, invoiceID, transactionID uuid.UUID, confidence float64) (*reconciliation.AuditRecord, error)
	ListAudit(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*reconciliation.AuditRecord, error)
}

// ReportService produces optimisation reports
type ReportService interface {
	GenerateReport(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error)
}
