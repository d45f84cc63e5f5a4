package handler

import (
	"encoding/json"
	"net/http"

	"feastly/internal/model"
	"feastly/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles settlement and payment history requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Settle handles POST /api/payments requests.
func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	payment, err := h.service.Settle(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to settle payment", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

// History handles GET /api/payments/history requests.
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.History(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to fetch payment history", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, payments)
}
