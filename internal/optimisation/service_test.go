package optimisation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

// MockAnalysisOracle mocks AnalysisOracle
type MockAnalysisOracle struct {
	mock.Mock
}

func (m *MockAnalysisOracle) Analyze(ctx context.Context, invoices interface{}, reconciliations interface{}) (map[string]interface{}, error) {
	args := m.Called(ctx, invoices, reconciliations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

// MockInvoiceRepository mocks invoice.Repository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*invoice.Invoice, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	args := m.Called(tx)
	return args.Get(0).(invoice.Repository)
}

// MockTransactionRepository mocks transaction.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateBatch(ctx context.Context, txns []*transaction.Transaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, reconciled *bool) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, userID, reconciled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListUnreconciled(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) HasReconciledForInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, invoiceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) Reconcile(ctx context.Context, id, invoiceID uuid.UUID, confidence float64, details *transaction.ReconciliationDetails) error {
	args := m.Called(ctx, id, invoiceID, confidence, details)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	args := m.Called(tx)
	return args.Get(0).(transaction.Repository)
}

func newTestService(t *testing.T) (*Service, *MockAnalysisOracle, *MockInvoiceRepository, *MockTransactionRepository) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	oracle := new(MockAnalysisOracle)
	invoices := new(MockInvoiceRepository)
	txns := new(MockTransactionRepository)
	return NewService(logger, oracle, invoices, txns, 5*time.Second), oracle, invoices, txns
}

func TestGenerateReport(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		service, oracle, invoices, txns := newTestService(t)

		invoiceID := uuid.New()
		confidence := 0.92
		invs := []*invoice.Invoice{{
			ID:            invoiceID,
			InvoiceNumber: "FAC-001",
			InvoiceDate:   &date,
			Supplier:      invoice.Party{Name: "EDF"},
			Amounts:       invoice.Amounts{Total: 120.50, Currency: "EUR"},
			Category:      "energie",
			Direction:     invoice.DirectionIncoming,
		}}
		reconciledTxns := []*transaction.Transaction{{
			ID:              uuid.New(),
			Date:            date.AddDate(0, 0, 1),
			Amount:          -120.50,
			Vendor:          "EDF",
			Reconciled:      true,
			InvoiceID:       &invoiceID,
			MatchConfidence: &confidence,
		}}

		invoices.On("ListByUser", ctx, userID).Return(invs, nil).Once()
		txns.On("ListByUser", ctx, userID, mock.MatchedBy(func(r *bool) bool {
			return r != nil && *r
		})).Return(reconciledTxns, nil).Once()
		oracle.On("Analyze", mock.Anything, mock.MatchedBy(func(digests []invoiceDigest) bool {
			return len(digests) == 1 &&
				digests[0].InvoiceNumber == "FAC-001" &&
				digests[0].Counterparty == "EDF" &&
				digests[0].Date == "2024-03-15"
		}), mock.MatchedBy(func(digests []reconciliationDigest) bool {
			return len(digests) == 1 &&
				digests[0].InvoiceID == invoiceID.String() &&
				digests[0].Confidence == 0.92
		})).Return(map[string]interface{}{"resume": "RAS"}, nil).Once()

		report, err := service.GenerateReport(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "RAS", report["resume"])
		oracle.AssertExpectations(t)
	})

	t.Run("NoInvoices", func(t *testing.T) {
		service, oracle, invoices, _ := newTestService(t)

		invoices.On("ListByUser", ctx, userID).Return([]*invoice.Invoice{}, nil).Once()

		_, err := service.GenerateReport(ctx, userID)
		require.Error(t, err)
		assert.IsType(t, ErrNoInvoices{}, err)
		oracle.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OracleFailurePropagates", func(t *testing.T) {
		service, oracle, invoices, txns := newTestService(t)

		invoices.On("ListByUser", ctx, userID).
			Return([]*invoice.Invoice{{InvoiceNumber: "FAC-001", Direction: invoice.DirectionIncoming}}, nil).Once()
		txns.On("ListByUser", ctx, userID, mock.Anything).
			Return([]*transaction.Transaction{}, nil).Once()
		oracle.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("oracle down")).Once()

		_, err := service.GenerateReport(ctx, userID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oracle down")
	})
}
