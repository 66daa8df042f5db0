package reconciliation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FaridBenamara/Bill-z/internal/config"
	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

type engineMocks struct {
	oracle    *MockMatchOracle
	invoices  *MockInvoiceRepository
	txns      *MockTransactionRepository
	audits    *MockAuditRepository
	publisher *MockPublisher
}

func newTestEngine(t *testing.T) (*Engine, *engineMocks) {
	t.Helper()
	m := &engineMocks{
		oracle:    new(MockMatchOracle),
		invoices:  new(MockInvoiceRepository),
		txns:      new(MockTransactionRepository),
		audits:    new(MockAuditRepository),
		publisher: new(MockPublisher),
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.ReconciliationConfig{
		AutoConfirmThreshold: 0.85,
		OracleTimeout:        5 * time.Second,
	}
	engine := NewEngine(logger, cfg, m.oracle, m.invoices, m.txns, m.audits, m.publisher)
	return engine, m
}

func testUserInvoice(userID uuid.UUID, number string) *invoice.Invoice {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return &invoice.Invoice{
		ID:            uuid.New(),
		UserID:        userID,
		InvoiceNumber: number,
		InvoiceDate:   &d,
		Supplier:      invoice.Party{Name: "EDF"},
		Amounts:       invoice.Amounts{Total: 120.50, Currency: "EUR"},
		Direction:     invoice.DirectionIncoming,
	}
}

func TestConfirmManual(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		engine, m := newTestEngine(t)
		inv := testUserInvoice(userID, "FAC-001")
		txn := ledgerLine("2024-03-16", -120.50, "EDF")
		txn.UserID = userID

		m.invoices.On("GetByID", ctx, userID, inv.ID).Return(inv, nil).Once()
		m.txns.On("GetByID", ctx, userID, txn.ID).Return(txn, nil).Once()
		m.txns.On("Reconcile", ctx, txn.ID, inv.ID, 1.0, mock.MatchedBy(func(d *transaction.ReconciliationDetails) bool {
			return d.InvoiceNumber == "FAC-001" && !d.AutoConfirmed && d.ConfirmedBy == "user"
		})).Return(nil).Once()
		m.audits.On("Create", ctx, mock.MatchedBy(func(r *AuditRecord) bool {
			return r.InvoiceID == inv.ID && r.TransactionID == txn.ID && r.ConfirmedBy == "user" && !r.AutoConfirmed
		})).Return(nil).Once()
		m.publisher.On("Publish", ctx, txn.ID.String(), mock.Anything).Return(nil).Once()

		record, err := engine.ConfirmManual(ctx, userID, inv.ID, txn.ID, 0)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 1.0, record.Confidence)
		assert.Equal(t, "FAC-001", record.InvoiceNumber)
		m.invoices.AssertExpectations(t)
		m.txns.AssertExpectations(t)
		m.audits.AssertExpectations(t)
		m.publisher.AssertExpectations(t)
	})

	t.Run("ExplicitConfidenceKept", func(t *testing.T) {
		engine, m := newTestEngine(t)
		inv := testUserInvoice(userID, "FAC-002")
		txn := ledgerLine("2024-03-16", -120.50, "EDF")

		m.invoices.On("GetByID", ctx, userID, inv.ID).Return(inv, nil).Once()
		m.txns.On("GetByID", ctx, userID, txn.ID).Return(txn, nil).Once()
		m.txns.On("Reconcile", ctx, txn.ID, inv.ID, 0.72, mock.Anything).Return(nil).Once()
		m.audits.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		record, err := engine.ConfirmManual(ctx, userID, inv.ID, txn.ID, 0.72)
		require.NoError(t, err)
		assert.Equal(t, 0.72, record.Confidence)
		m.txns.AssertExpectations(t)
	})

	t.Run("InvoiceNotFound", func(t *testing.T) {
		engine, m := newTestEngine(t)
		invoiceID := uuid.New()

		m.invoices.On("GetByID", ctx, userID, invoiceID).
			Return(nil, invoice.ErrInvoiceNotFound{InvoiceID: invoiceID}).Once()

		_, err := engine.ConfirmManual(ctx, userID, invoiceID, uuid.New(), 0)
		require.Error(t, err)
		var notFound invoice.ErrInvoiceNotFound
		assert.ErrorAs(t, err, &notFound)
		m.txns.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("TransactionNotFound", func(t *testing.T) {
		engine, m := newTestEngine(t)
		inv := testUserInvoice(userID, "FAC-003")
		txnID := uuid.New()

		m.invoices.On("GetByID", ctx, userID, inv.ID).Return(inv, nil).Once()
		m.txns.On("GetByID", ctx, userID, txnID).
			Return(nil, transaction.ErrTransactionNotFound{TransactionID: txnID}).Once()

		_, err := engine.ConfirmManual(ctx, userID, inv.ID, txnID, 0)
		require.Error(t, err)
		var notFound transaction.ErrTransactionNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("AlreadyReconciled", func(t *testing.T) {
		engine, m := newTestEngine(t)
		inv := testUserInvoice(userID, "FAC-004")
		txn := ledgerLine("2024-03-16", -120.50, "EDF")

		m.invoices.On("GetByID", ctx, userID, inv.ID).Return(inv, nil).Once()
		m.txns.On("GetByID", ctx, userID, txn.ID).Return(txn, nil).Once()
		m.txns.On("Reconcile", ctx, txn.ID, inv.ID, 1.0, mock.Anything).
			Return(transaction.ErrAlreadyReconciled{TransactionID: txn.ID}).Once()

		_, err := engine.ConfirmManual(ctx, userID, inv.ID, txn.ID, 0)
		require.Error(t, err)
		var already transaction.ErrAlreadyReconciled
		assert.ErrorAs(t, err, &already)
		m.audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AuditFailureDoesNotFailConfirm", func(t *testing.T) {
		engine, m := newTestEngine(t)
		inv := testUserInvoice(userID, "FAC-005")
		txn := ledgerLine("2024-03-16", -120.50, "EDF")

		m.invoices.On("GetByID", ctx, userID, inv.ID).Return(inv, nil).Once()
		m.txns.On("GetByID", ctx, userID, txn.ID).Return(txn, nil).Once()
		m.txns.On("Reconcile", ctx, txn.ID, inv.ID, 1.0, mock.Anything).Return(nil).Once()
		m.audits.On("Create", ctx, mock.Anything).Return(errors.New("mongo down")).Once()
		m.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

		record, err := engine.ConfirmManual(ctx, userID, inv.ID, txn.ID, 0)
		require.NoError(t, err)
		assert.NotNil(t, record)
	})
}

func TestListAudit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	engine, m := newTestEngine(t)

	records := []*AuditRecord{{ID: uuid.New(), UserID: userID}}
	m.audits.On("ListByUser", ctx, userID, 50, 0).Return(records, nil).Once()

	got, err := engine.ListAudit(ctx, userID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}
