package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feastly/internal/middleware"
	"feastly/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func adminAuth() model.AuthContext {
	return model.AuthContext{UserID: uuid.New(), Role: model.RoleAdmin}
}

func TestOrderHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()
	userID := uuid.New()

	testOrder := &model.Order{
		ID:          orderID,
		UserID:      userID,
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("29.97"),
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name: "Success",
			requestBody: &model.OrderRequest{
				UserID: userID,
				Items:  []model.OrderItemRequest{{MenuItemID: uuid.New(), Quantity: 2}},
			},
			mockReturn:     testOrder,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name: "Unknown user",
			requestBody: &model.OrderRequest{
				UserID: userID,
				Items:  []model.OrderItemRequest{{MenuItemID: uuid.New(), Quantity: 1}},
			},
			mockError:      model.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeUserNotFound,
			expectService:  true,
		},
		{
			name: "Unknown menu item",
			requestBody: &model.OrderRequest{
				UserID: userID,
				Items:  []model.OrderItemRequest{{MenuItemID: uuid.New(), Quantity: 1}},
			},
			mockError:      model.ErrMenuItemNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeMenuItemNotFound,
			expectService:  true,
		},
		{
			name: "Empty items",
			requestBody: &model.OrderRequest{
				UserID: userID,
			},
			mockError:      model.InvalidInput("order must contain at least one item"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidInput,
			expectService:  true,
		},
		{
			name:           "Malformed body",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			h := NewOrderHandler(mockService, logger)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))

			req := httptest.NewRequest(http.MethodPost, "/api/orders", &body)
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("GetByID", mock.Anything, orderID).
			Return(&model.Order{ID: orderID, Status: model.OrderStatusPending}, nil)

		h := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil)
		rec := httptest.NewRecorder()

		h.GetByID(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, orderID, got.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("GetByID", mock.Anything, orderID).
			Return(nil, model.ErrOrderNotFound)

		h := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil)
		rec := httptest.NewRecorder()

		h.GetByID(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Malformed id", func(t *testing.T) {
		mockService := new(MockOrderService)
		h := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil)
		rec := httptest.NewRecorder()

		h.GetByID(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "GetByID")
	})
}

func TestOrderHandler_List_StatusFilter(t *testing.T) {
	mockService := new(MockOrderService)
	pending := model.OrderStatusPending
	mockService.On("List", mock.Anything, &pending).Return([]model.Order{}, nil)

	h := NewOrderHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders?status=pending", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_ListByUser(t *testing.T) {
	userID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("ListByUser", mock.Anything, userID).Return([]model.Order{}, nil)

	h := NewOrderHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders/my-orders/"+userID.String(), nil)
	rec := httptest.NewRecorder()

	h.ListByUser(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()
	auth := adminAuth()

	t.Run("Cancel pending", func(t *testing.T) {
		cancelled := &model.Order{ID: orderID, Status: model.OrderStatusCancelled}

		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, auth, orderID, model.OrderStatusCancelled).
			Return(cancelled, nil)

		h := NewOrderHandler(mockService, logger)

		body := bytes.NewBufferString(`{"status":"CANCELLED"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", body)
		req = req.WithContext(middleware.WithAuth(req.Context(), auth))
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("No principal", func(t *testing.T) {
		mockService := new(MockOrderService)
		h := NewOrderHandler(mockService, logger)

		body := bytes.NewBufferString(`{"status":"CANCELLED"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", body)
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Member forbidden", func(t *testing.T) {
		member := model.AuthContext{UserID: uuid.New(), Role: model.RoleMember}

		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, member, orderID, model.OrderStatusCancelled).
			Return(nil, model.ErrForbidden)

		h := NewOrderHandler(mockService, logger)

		body := bytes.NewBufferString(`{"status":"CANCELLED"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", body)
		req = req.WithContext(middleware.WithAuth(req.Context(), member))
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Paid order conflicts", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("UpdateStatus", mock.Anything, auth, orderID, model.OrderStatusCancelled).
			Return(nil, model.ErrOrderHasPayment)

		h := NewOrderHandler(mockService, logger)

		body := bytes.NewBufferString(`{"status":"CANCELLED"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", body)
		req = req.WithContext(middleware.WithAuth(req.Context(), auth))
		rec := httptest.NewRecorder()

		h.UpdateStatus(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeOrderHasPayment, resp.Code)
	})
}

func TestOrderHandler_Delete(t *testing.T) {
	logger := zerolog.Nop()
	orderID := uuid.New()
	auth := adminAuth()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("Delete", mock.Anything, auth, orderID).Return(nil)

		h := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil)
		req = req.WithContext(middleware.WithAuth(req.Context(), auth))
		rec := httptest.NewRecorder()

		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Blocked by payment", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("Delete", mock.Anything, auth, orderID).Return(model.ErrOrderHasPayment)

		h := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil)
		req = req.WithContext(middleware.WithAuth(req.Context(), auth))
		rec := httptest.NewRecorder()

		h.Delete(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
