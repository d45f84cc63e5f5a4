package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"feastly/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// statusForCode maps stable domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUserNotFound,
		model.ErrCodeMenuItemNotFound,
		model.ErrCodeRestaurantNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeMethodNotFound:
		return http.StatusNotFound
	case model.ErrCodeOrderAlreadyPaid,
		model.ErrCodeOrderNotPending,
		model.ErrCodeInvalidTransition,
		model.ErrCodeOrderHasPayment,
		model.ErrCodeMethodInUse:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError translates a service error into an HTTP response.
// Domain errors carry their code and message to the client; anything else
// is reported as the fallback message with a 500.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		logger.Warn().
			Str("code", domainErr.Code).
			Int("status", status).
			Str("error", domainErr.Message).
			Msg("request rejected")
		writeJSON(w, status, model.ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}

	logger.Error().Err(err).Msg(fallback)
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error: fallback,
		Code:  model.ErrCodeInternalError,
	})
}

// pathSuffix returns the remainder of the path after the given prefix, or
// the empty string when nothing follows it.
func pathSuffix(path, prefix string) string {
	if len(path) <= len(prefix) {
		return ""
	}
	return path[len(prefix):]
}
