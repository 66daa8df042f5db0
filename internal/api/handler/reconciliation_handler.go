package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FaridBenamara/Bill-z/internal/api/middleware"
	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

// ReconciliationHandler handles HTTP requests for reconciliation operations
type ReconciliationHandler struct {
	logger *slog.Logger
	recs   ReconciliationService
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, recs ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		logger: logger,
		recs:   recs,
	}
}

// Run reconciles all of the user's eligible invoices against the ledger
func (h *ReconciliationHandler) Run(c *gin.Context) {
	report, err := h.recs.RunBatch(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("Batch reconciliation failed", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, report)
}

// Confirm commits a user-chosen invoice/transaction pairing
func (h *ReconciliationHandler) Confirm(c *gin.Context) {
	var req ConfirmReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}
	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	record, err := h.recs.ConfirmManual(c.Request.Context(), middleware.GetUserID(c), invoiceID, transactionID, req.Confidence)
	if err != nil {
		var invNotFound invoice.ErrInvoiceNotFound
		var txnNotFound transaction.ErrTransactionNotFound
		var already transaction.ErrAlreadyReconciled
		switch {
		case errors.As(err, &invNotFound):
			RespondNotFound(c, "Invoice not found")
		case errors.As(err, &txnNotFound):
			RespondNotFound(c, "Transaction not found")
		case errors.As(err, &already):
			RespondConflict(c, "Transaction is already reconciled")
		default:
			h.logger.Error("Failed to confirm reconciliation", "error", err)
			RespondInternalError(c)
		}
		return
	}
	RespondOK(c, record)
}

// Audit lists the user's committed reconciliations, newest first
func (h *ReconciliationHandler) Audit(c *gin.Context) {
	var params AuditQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	records, err := h.recs.ListAudit(c.Request.Context(), middleware.GetUserID(c), params.Limit, params.Offset)
	if err != nil {
		h.logger.Error("Failed to list reconciliation audit", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, records)
}
