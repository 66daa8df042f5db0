package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/FaridBenamara/Bill-z/internal/api"
	"github.com/FaridBenamara/Bill-z/internal/config"
	"github.com/FaridBenamara/Bill-z/internal/data/mongo"
	"github.com/FaridBenamara/Bill-z/internal/data/postgres"
	"github.com/FaridBenamara/Bill-z/internal/ledgerimport"
	"github.com/FaridBenamara/Bill-z/internal/logger"
	"github.com/FaridBenamara/Bill-z/internal/optimisation"
	"github.com/FaridBenamara/Bill-z/internal/oracle"
	"github.com/FaridBenamara/Bill-z/internal/platform/messaging/producers"
	"github.com/FaridBenamara/Bill-z/internal/platform/persistence"
	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
	"github.com/FaridBenamara/Bill-z/internal/scanner"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for the reconciliation event stream
	eventProducer, err := producers.NewReconciliationEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize reconciliation event producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	auditRepo := mongo.NewAuditRepository(log, mongoDB.Database())
	captureRepo := mongo.NewCaptureRepository(log, mongoDB.Database())

	// Initialize the oracle client and the services built on it
	oracleClient := oracle.NewClient(log, &cfg.Oracle)

	engine := reconciliation.NewEngine(log, &cfg.Reconciliation, oracleClient, invoiceRepo, transactionRepo, auditRepo, eventProducer)
	importService := ledgerimport.NewService(log, transactionRepo)
	reportService := optimisation.NewService(log, oracleClient, invoiceRepo, transactionRepo, cfg.Oracle.Timeout)

	scanService, err := scanner.NewService(log, &cfg.WorkerPool, oracleClient, invoiceRepo, captureRepo)
	if err != nil {
		log.Error("Failed to initialize scanner service", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, api.Dependencies{
		Invoices:        invoiceRepo,
		Captures:        captureRepo,
		Transactions:    transactionRepo,
		Scanner:         scanService,
		Importer:        importService,
		Reconciliations: engine,
		Reports:         reportService,
	})
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new work arrives
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	scanService.Shutdown()

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing reconciliation event producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
