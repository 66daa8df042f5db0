package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/FaridBenamara/Bill-z/internal/api/middleware"
	"github.com/FaridBenamara/Bill-z/internal/optimisation"
	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
)

// ReportHandler handles HTTP requests for optimisation reports
type ReportHandler struct {
	logger  *slog.Logger
	reports ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reports ReportService) *ReportHandler {
	return &ReportHandler{
		logger:  logger,
		reports: reports,
	}
}

// Optimisation generates the financial advice report for the user
func (h *ReportHandler) Optimisation(c *gin.Context) {
	report, err := h.reports.GenerateReport(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		var noInvoices optimisation.ErrNoInvoices
		if errors.As(err, &noInvoices) {
			RespondUnprocessable(c, "No invoices available for analysis")
			return
		}
		var unavailable reconciliation.ErrOracleUnavailable
		if errors.As(err, &unavailable) {
			RespondServiceUnavailable(c, "Analysis oracle is unavailable")
			return
		}
		h.logger.Error("Failed to generate optimisation report", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, report)
}
