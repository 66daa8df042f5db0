// Package api assembles the HTTP surface: the gin router, the request
// middleware chain and the server lifecycle.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FaridBenamara/Bill-z/internal/api/handler"
	"github.com/FaridBenamara/Bill-z/internal/config"
	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// Dependencies bundles everything the HTTP surface needs
type Dependencies struct {
	Invoices        invoice.Repository
	Captures        invoice.CaptureRepository
	Transactions    transaction.Repository
	Scanner         handler.ScannerService
	Importer        handler.ImportService
	Reconciliations handler.ReconciliationService
	Reports         handler.ReportService
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, deps Dependencies) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	invoiceHandler := handler.NewInvoiceHandler(log, deps.Invoices, deps.Captures, deps.Scanner)
	transactionHandler := handler.NewTransactionHandler(log, deps.Transactions, deps.Importer)
	reconciliationHandler := handler.NewReconciliationHandler(log, deps.Reconciliations)
	reportHandler := handler.NewReportHandler(log, deps.Reports)

	setupRouter(log, httpRouter, invoiceHandler, transactionHandler, reconciliationHandler, reportHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
