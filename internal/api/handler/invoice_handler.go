package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FaridBenamara/Bill-z/internal/api/middleware"
	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/scanner"
)

// InvoiceHandler handles HTTP requests for invoice operations
type InvoiceHandler struct {
	logger   *slog.Logger
	invoices invoice.Repository
	captures invoice.CaptureRepository
	scans    ScannerService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(logger *slog.Logger, invoices invoice.Repository, captures invoice.CaptureRepository, scans ScannerService) *InvoiceHandler {
	return &InvoiceHandler{
		logger:   logger,
		invoices: invoices,
		captures: captures,
		scans:    scans,
	}
}

// Create stores an invoice supplied directly by the user, bypassing the
// extraction oracle
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid create invoice request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	direction := invoice.DirectionIncoming
	if req.Direction == string(invoice.DirectionOutgoing) {
		direction = invoice.DirectionOutgoing
	}

	inv := invoice.NewFromExtraction(middleware.GetUserID(c), req.FileName, &req.Extraction, direction)
	if err := h.invoices.Create(c.Request.Context(), inv); err != nil {
		h.logger.Error("Failed to create invoice", "invoice_id", inv.ID, "error", err)
		RespondInternalError(c)
		return
	}
	RespondCreated(c, inv)
}

// Scan extracts a batch of raw invoice documents and stores the results
func (h *InvoiceHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid scan request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	docs := make([]scanner.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		direction := invoice.DirectionIncoming
		if d.Direction == string(invoice.DirectionOutgoing) {
			direction = invoice.DirectionOutgoing
		}
		docs = append(docs, scanner.Document{
			FileName:     d.FileName,
			Text:         d.Text,
			Direction:    direction,
			EmailID:      d.EmailID,
			EmailSubject: d.EmailSubject,
		})
	}

	report, err := h.scans.ScanBatch(c.Request.Context(), middleware.GetUserID(c), docs)
	if err != nil {
		h.logger.Error("Failed to scan documents", "error", err)
		RespondInternalError(c)
		return
	}
	RespondCreated(c, report)
}

// List returns all invoices of the authenticated user
func (h *InvoiceHandler) List(c *gin.Context) {
	invs, err := h.invoices.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("Failed to list invoices", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, invs)
}

// GetByID retrieves one invoice, returning 404 if it is absent or foreign-owned
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}

	inv, err := h.invoices.GetByID(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		var notFound invoice.ErrInvoiceNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Invoice not found")
			return
		}
		h.logger.Error("Failed to get invoice", "invoice_id", id, "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, inv)
}

// GetCapture returns the raw extraction-oracle output archived for an invoice
func (h *InvoiceHandler) GetCapture(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}

	// Ownership check happens on the invoice row; captures carry no user scoping
	if _, err := h.invoices.GetByID(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		var notFound invoice.ErrInvoiceNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Invoice not found")
			return
		}
		h.logger.Error("Failed to get invoice for capture lookup", "invoice_id", id, "error", err)
		RespondInternalError(c)
		return
	}

	capture, err := h.captures.GetByInvoiceID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get extraction capture", "invoice_id", id, "error", err)
		RespondInternalError(c)
		return
	}
	if capture == nil {
		RespondNotFound(c, "No capture archived for this invoice")
		return
	}
	RespondOK(c, capture)
}

// Delete removes one invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		var notFound invoice.ErrInvoiceNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Invoice not found")
			return
		}
		h.logger.Error("Failed to delete invoice", "invoice_id", id, "error", err)
		RespondInternalError(c)
		return
	}
	RespondNoContent(c)
}
