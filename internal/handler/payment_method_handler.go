package handler

import (
	"encoding/json"
	"net/http"

	"feastly/internal/middleware"
	"feastly/internal/model"
	"feastly/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentMethodHandler handles stored payment method requests. Mutations are
// restricted to ADMIN principals.
type PaymentMethodHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentMethodHandler creates a new payment method handler.
func NewPaymentMethodHandler(service service.PaymentService, logger zerolog.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment_method").Logger(),
	}
}

// List handles GET /api/payment-methods requests.
func (h *PaymentMethodHandler) List(w http.ResponseWriter, r *http.Request) {
	methods, err := h.service.ListMethods(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list payment methods", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, methods)
}

// ListByUser handles GET /api/payment-methods/user/{userId} requests.
func (h *PaymentMethodHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	idStr := pathSuffix(r.URL.Path, "/api/payment-methods/user/")
	userID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID format", h.logger)
		return
	}

	methods, err := h.service.ListMethodsByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "failed to list payment methods", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, methods)
}

// Create handles POST /api/payment-methods requests.
func (h *PaymentMethodHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req model.PaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	method, err := h.service.CreateMethod(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create payment method", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, method)
}

// Update handles PUT /api/payment-methods/{id} requests.
func (h *PaymentMethodHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	methodID, ok := h.methodIDFromPath(w, r.URL.Path)
	if !ok {
		return
	}

	var req model.PaymentMethodUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	method, err := h.service.UpdateMethod(r.Context(), methodID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update payment method", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, method)
}

// Delete handles DELETE /api/payment-methods/{id} requests.
func (h *PaymentMethodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	methodID, ok := h.methodIDFromPath(w, r.URL.Path)
	if !ok {
		return
	}

	if err := h.service.DeleteMethod(r.Context(), methodID); err != nil {
		writeServiceError(w, err, "failed to delete payment method", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "payment method deleted"})
}

func (h *PaymentMethodHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	auth, ok := middleware.AuthFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return false
	}
	if auth.Role != model.RoleAdmin {
		writeJSON(w, http.StatusForbidden, model.ErrorResponse{
			Error: "admin role required",
			Code:  model.ErrCodeForbidden,
		})
		return false
	}
	return true
}

func (h *PaymentMethodHandler) methodIDFromPath(w http.ResponseWriter, path string) (uuid.UUID, bool) {
	idStr := pathSuffix(path, "/api/payment-methods/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "payment method ID is required", h.logger)
		return uuid.Nil, false
	}

	methodID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment method ID format", h.logger)
		return uuid.Nil, false
	}
	return methodID, true
}
