package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ems-dashboard/internal/service/dashboard"
	"ems-dashboard/internal/storage"
)

// MockOrderCreator реализует интерфейс OrderCreator для тестов
type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) CreateOrder(ctx context.Context, req storage.NewOrder) (storage.Order, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(storage.Order), args.Error(1)
}

// Тест: успешное создание заказа
func TestCreateOrder_Success(t *testing.T) {
	m := new(MockOrderCreator)
	m.On("CreateOrder", mock.Anything, storage.NewOrder{
		Product: "Плата управления", Article: "PCB-CTRL-01", Quantity: 200, Priority: storage.PriorityHigh,
	}).Return(storage.Order{ID: "PO-2024-00128", Product: "Плата управления", Status: storage.OrderPlanned}, nil)

	body := `{"product":"Плата управления","article":"PCB-CTRL-01","quantity":200,"priority":"high"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	CreateOrder(slog.Default(), m).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got storage.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "PO-2024-00128", got.ID)
	m.AssertExpectations(t)
}

// Тест: невалидный JSON
func TestCreateOrder_InvalidJSON(t *testing.T) {
	m := new(MockOrderCreator)

	rr := httptest.NewRecorder()
	CreateOrder(slog.Default(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "ошибка парсинга JSON")
	m.AssertNotCalled(t, "CreateOrder")
}

func TestCreateOrder_ValidationAndStorageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", fmt.Errorf("quantity must be positive: %w", dashboard.ErrInvalidInput), http.StatusBadRequest},
		{"storage failure", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockOrderCreator)
			m.On("CreateOrder", mock.Anything, mock.Anything).Return(storage.Order{}, tt.err)

			rr := httptest.NewRecorder()
			CreateOrder(slog.Default(), m).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"product":"X","quantity":0}`)))

			assert.Equal(t, tt.code, rr.Code)
		})
	}
}
