package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FaridBenamara/Bill-z/internal/api/middleware"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
	"github.com/FaridBenamara/Bill-z/internal/ledgerimport"
)

// TransactionHandler handles HTTP requests for ledger transaction operations
type TransactionHandler struct {
	logger  *slog.Logger
	txns    transaction.Repository
	imports ImportService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, txns transaction.Repository, imports ImportService) *TransactionHandler {
	return &TransactionHandler{
		logger:  logger,
		txns:    txns,
		imports: imports,
	}
}

// Import parses an uploaded bank statement (multipart field "file") and
// stores its rows as transactions
func (h *TransactionHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondBadRequest(c, "Missing statement file: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded statement", "file", fileHeader.Filename, "error", err)
		RespondBadRequest(c, "Unreadable statement file")
		return
	}
	defer file.Close()

	result, err := h.imports.Import(c.Request.Context(), middleware.GetUserID(c), fileHeader.Filename, file)
	if err != nil {
		var unsupported ledgerimport.ErrUnsupportedFormat
		if errors.As(err, &unsupported) {
			RespondBadRequest(c, unsupported.Error())
			return
		}
		var missing ledgerimport.ErrMissingColumn
		if errors.As(err, &missing) {
			RespondUnprocessable(c, missing.Error())
			return
		}
		h.logger.Error("Failed to import statement", "file", fileHeader.Filename, "error", err)
		RespondInternalError(c)
		return
	}
	RespondCreated(c, result)
}

// List returns the user's transactions, optionally filtered on the
// reconciliation flag via ?reconciled=true|false
func (h *TransactionHandler) List(c *gin.Context) {
	var params TransactionQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	txns, err := h.txns.ListByUser(c.Request.Context(), middleware.GetUserID(c), params.Reconciled)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, txns)
}

// GetByID retrieves one transaction
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.txns.GetByID(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		var notFound transaction.ErrTransactionNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "transaction_id", id, "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, txn)
}

// Delete removes one transaction
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.txns.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		var notFound transaction.ErrTransactionNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to delete transaction", "transaction_id", id, "error", err)
		RespondInternalError(c)
		return
	}
	RespondNoContent(c)
}
