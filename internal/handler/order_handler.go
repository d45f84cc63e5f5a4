package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"feastly/internal/middleware"
	"feastly/internal/model"
	"feastly/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests with an optional status filter.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *model.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.OrderStatus(strings.ToUpper(raw))
		status = &s
	}

	orders, err := h.service.List(r.Context(), status)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// ListByUser handles GET /api/orders/my-orders/{userId} requests.
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	idStr := pathSuffix(r.URL.Path, "/api/orders/my-orders/")
	userID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID format", h.logger)
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromPath(w, r.URL.Path, "")
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests. The caller
// must carry an ADMIN or MANAGER principal.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromPath(w, r.URL.Path, "/status")
	if !ok {
		return
	}

	auth, ok := middleware.AuthFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	var req model.OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), auth, orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to update order status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id} requests. The caller must carry an
// ADMIN or MANAGER principal.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromPath(w, r.URL.Path, "")
	if !ok {
		return
	}

	auth, ok := middleware.AuthFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), auth, orderID); err != nil {
		writeServiceError(w, err, "failed to delete order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

// orderIDFromPath extracts the order id from /api/orders/{id}<suffix>,
// writing the error response itself when the path is malformed.
func (h *OrderHandler) orderIDFromPath(w http.ResponseWriter, path, suffix string) (uuid.UUID, bool) {
	idStr := pathSuffix(path, "/api/orders/")
	idStr = strings.TrimSuffix(idStr, suffix)
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return uuid.Nil, false
	}

	orderID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}
	return orderID, true
}
