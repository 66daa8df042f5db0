package ledgerimport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

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

func newTestService(t *testing.T) (*Service, *MockTransactionRepository) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	repo := new(MockTransactionRepository)
	return NewService(logger, repo), repo
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("MixedDateFormatsAndCommaDecimals", func(t *testing.T) {
		service, repo := newTestService(t)
		statement := strings.Join([]string{
			"Date,Montant,Fournisseur,Libelle,Categorie",
			"2024-03-16,-120.50,EDF,Prelevement EDF,energie",
			"17/03/2024,\"-89,90\",SFR,Facture mobile,telecom",
			"2024/03/18,250.00,ACME,Virement client,ventes",
			"19-03-2024,-45.00,TOTAL,Carburant,deplacement",
		}, "\n")

		var stored []*transaction.Transaction
		repo.On("CreateBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).([]*transaction.Transaction)
		}).Return(nil).Once()

		result, err := service.Import(ctx, userID, "releve.csv", strings.NewReader(statement))
		require.NoError(t, err)
		assert.Equal(t, 4, result.Imported)
		assert.Equal(t, 0, result.Skipped)
		assert.NotEqual(t, uuid.Nil, result.BatchID)

		require.Len(t, stored, 4)
		assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), stored[0].Date)
		assert.Equal(t, -120.50, stored[0].Amount)
		assert.Equal(t, "EDF", stored[0].Vendor)
		assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), stored[1].Date)
		assert.Equal(t, -89.90, stored[1].Amount)
		assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), stored[2].Date)
		assert.Equal(t, time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), stored[3].Date)
		for _, txn := range stored {
			assert.Equal(t, userID, txn.UserID)
			assert.Equal(t, result.BatchID, txn.ImportBatchID)
			assert.Equal(t, "releve.csv", txn.SourceFile)
			assert.False(t, txn.Reconciled)
		}
		repo.AssertExpectations(t)
	})

	t.Run("SkipsUnparseableRows", func(t *testing.T) {
		service, repo := newTestService(t)
		statement := strings.Join([]string{
			"date,amount",
			"2024-03-16,-120.50",
			"pas-une-date,-10.00",
			"2024-03-17,pas-un-montant",
		}, "\n")

		repo.On("CreateBatch", ctx, mock.Anything).Return(nil).Once()

		result, err := service.Import(ctx, userID, "releve.csv", strings.NewReader(statement))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 2, result.Skipped)
	})

	t.Run("MissingAmountColumn", func(t *testing.T) {
		service, repo := newTestService(t)
		statement := "date,fournisseur\n2024-03-16,EDF\n"

		_, err := service.Import(ctx, userID, "releve.csv", strings.NewReader(statement))
		require.Error(t, err)
		var missing ErrMissingColumn
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "amount", missing.Column)
		repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("NothingImportableSkipsStorage", func(t *testing.T) {
		service, repo := newTestService(t)
		statement := "date,amount\nbad,bad\n"

		result, err := service.Import(ctx, userID, "releve.csv", strings.NewReader(statement))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 1, result.Skipped)
		repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		service, repo := newTestService(t)
		statement := "date,amount\n2024-03-16,-120.50\n"

		repo.On("CreateBatch", ctx, mock.Anything).Return(errors.New("db down")).Once()

		_, err := service.Import(ctx, userID, "releve.csv", strings.NewReader(statement))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store imported transactions")
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Import(ctx, userID, "releve.pdf", strings.NewReader("x"))
		require.Error(t, err)
		var unsupported ErrUnsupportedFormat
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, ".pdf", unsupported.Extension)
	})
}

func TestImportXLSX(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	service, repo := newTestService(t)

	f := excelize.NewFile()
	headers := []string{"date", "montant", "fournisseur"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, h))
	}
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "2024-03-16"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", -120.50))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "EDF"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	var stored []*transaction.Transaction
	repo.On("CreateBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).([]*transaction.Transaction)
	}).Return(nil).Once()

	result, err := service.Import(ctx, userID, "releve.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, stored, 1)
	assert.Equal(t, -120.50, stored[0].Amount)
	assert.Equal(t, "EDF", stored[0].Vendor)
}
