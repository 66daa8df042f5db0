package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FaridBenamara/Bill-z/internal/api/handler"
	"github.com/FaridBenamara/Bill-z/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	invoiceHandler *handler.InvoiceHandler,
	transactionHandler *handler.TransactionHandler,
	reconciliationHandler *handler.ReconciliationHandler,
	reportHandler *handler.ReportHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints, all scoped to the authenticated user
	v1 := r.Group("/api/v1")
	v1.Use(middleware.UserIdentity())
	{
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.Create)
			invoices.POST("/scan", invoiceHandler.Scan)
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/:id", invoiceHandler.GetByID)
			invoices.GET("/:id/capture", invoiceHandler.GetCapture)
			invoices.DELETE("/:id", invoiceHandler.Delete)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.POST("/import", transactionHandler.Import)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		reconciliation := v1.Group("/reconciliation")
		{
			reconciliation.POST("/run", reconciliationHandler.Run)
			reconciliation.POST("/confirm", reconciliationHandler.Confirm)
			reconciliation.GET("/audit", reconciliationHandler.Audit)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/optimisation", reportHandler.Optimisation)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
