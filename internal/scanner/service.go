// Package scanner runs invoice documents through the extraction oracle and
// persists the results. Documents are processed concurrently on a bounded
// worker pool; one failed document never fails the batch.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/FaridBenamara/Bill-z/internal/config"
	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
)

// ExtractionOracle structures one raw invoice document
type ExtractionOracle interface {
	Extract(ctx context.Context, documentText string) (*invoice.Extraction, map[string]interface{}, error)
}

// Document is one raw invoice submitted for extraction
type Document struct {
	FileName     string
	Text         string
	Direction    invoice.Direction
	EmailID      string
	EmailSubject string
}

// Failure records why one document could not be scanned
type Failure struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// ScanReport aggregates the outcome of one scan batch
type ScanReport struct {
	Extracted int                `json:"extracted"`
	Failed    int                `json:"failed"`
	Invoices  []*invoice.Invoice `json:"invoices"`
	Failures  []Failure          `json:"failures,omitempty"`
}

// Service extracts invoices from raw documents on a worker pool
type Service struct {
	logger   *slog.Logger
	oracle   ExtractionOracle
	invoices invoice.Repository
	captures invoice.CaptureRepository
	pool     *ants.Pool
}

// NewService creates a scanner service with a worker pool of the configured size
func NewService(
	logger *slog.Logger,
	cfg *config.WorkerPoolConfig,
	oracle ExtractionOracle,
	invoices invoice.Repository,
	captures invoice.CaptureRepository,
) (*Service, error) {
	pool, err := ants.NewPool(cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner worker pool: %w", err)
	}
	return &Service{
		logger:   logger,
		oracle:   oracle,
		invoices: invoices,
		captures: captures,
		pool:     pool,
	}, nil
}

// ScanBatch extracts and stores every document, waiting for all workers to
// finish. Per-document failures are reported, not returned as an error.
func (s *Service) ScanBatch(ctx context.Context, userID uuid.UUID, docs []Document) (*ScanReport, error) {
	report := &ScanReport{
		Invoices: []*invoice.Invoice{},
	}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, doc := range docs {
		doc := doc
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			inv, err := s.scanOne(ctx, userID, doc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("Document extraction failed", "file", doc.FileName, "error", err)
				report.Failed++
				report.Failures = append(report.Failures, Failure{FileName: doc.FileName, Reason: err.Error()})
				return
			}
			report.Extracted++
			report.Invoices = append(report.Invoices, inv)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			report.Failed++
			report.Failures = append(report.Failures, Failure{FileName: doc.FileName, Reason: err.Error()})
			mu.Unlock()
		}
	}
	wg.Wait()

	// Workers finish in arbitrary order; present invoices in file-name order
	sort.Slice(report.Invoices, func(i, j int) bool {
		return report.Invoices[i].FileName < report.Invoices[j].FileName
	})

	s.logger.Info("Scan batch finished",
		"user_id", userID,
		"documents", len(docs),
		"extracted", report.Extracted,
		"failed", report.Failed,
	)
	return report, nil
}

// scanOne extracts one document, stores the invoice and archives the oracle's
// raw answer. The capture write is best-effort.
func (s *Service) scanOne(ctx context.Context, userID uuid.UUID, doc Document) (*invoice.Invoice, error) {
	ext, raw, err := s.oracle.Extract(ctx, doc.Text)
	if err != nil {
		return nil, err
	}

	inv := invoice.NewFromExtraction(userID, doc.FileName, ext, doc.Direction)
	inv.EmailID = doc.EmailID
	inv.EmailSubject = doc.EmailSubject

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to store extracted invoice: %w", err)
	}

	capture := &invoice.Capture{
		ID:        uuid.New(),
		UserID:    userID,
		InvoiceID: inv.ID,
		FileName:  doc.FileName,
		Raw:       raw,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.captures.Create(ctx, capture); err != nil {
		s.logger.Error("Failed to archive extraction capture", "invoice_id", inv.ID, "error", err)
	}

	return inv, nil
}

// Shutdown releases the worker pool
func (s *Service) Shutdown() {
	s.logger.Info("Shutting down scanner worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}
