package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FaridBenamara/Bill-z/internal/optimisation"
	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) GenerateReport(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func TestReportHandler_Optimisation(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockReportService)
		handler := NewReportHandler(testLogger(), mockService)

		mockService.On("GenerateReport", mock.Anything, userID).
			Return(map[string]interface{}{"resume": "RAS"}, nil).Once()

		router := setupUserRouter(userID)
		router.GET("/reports/optimisation", handler.Optimisation)

		req, _ := http.NewRequest(http.MethodGet, "/reports/optimisation", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got map[string]interface{}
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "RAS", got["resume"])
	})

	t.Run("NoInvoices", func(t *testing.T) {
		mockService := new(MockReportService)
		handler := NewReportHandler(testLogger(), mockService)

		mockService.On("GenerateReport", mock.Anything, userID).
			Return(nil, optimisation.ErrNoInvoices{}).Once()

		router := setupUserRouter(userID)
		router.GET("/reports/optimisation", handler.Optimisation)

		req, _ := http.NewRequest(http.MethodGet, "/reports/optimisation", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("OracleUnavailable", func(t *testing.T) {
		mockService := new(MockReportService)
		handler := NewReportHandler(testLogger(), mockService)

		mockService.On("GenerateReport", mock.Anything, userID).
			Return(nil, reconciliation.ErrOracleUnavailable{Err: errors.New("timeout")}).Once()

		router := setupUserRouter(userID)
		router.GET("/reports/optimisation", handler.Optimisation)

		req, _ := http.NewRequest(http.MethodGet, "/reports/optimisation", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
