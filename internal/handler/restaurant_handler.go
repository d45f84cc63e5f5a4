package handler

import (
	"net/http"
	"strings"

	"feastly/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RestaurantHandler handles restaurant and menu listing requests.
type RestaurantHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(service service.CatalogService, logger zerolog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: service,
		logger:  logger.With().Str("handler", "restaurant").Logger(),
	}
}

// ByCountry handles GET /api/restaurants/by-country/{country} requests.
func (h *RestaurantHandler) ByCountry(w http.ResponseWriter, r *http.Request) {
	country := pathSuffix(r.URL.Path, "/api/restaurants/by-country/")
	if country == "" {
		writeError(w, http.StatusBadRequest, "country is required", h.logger)
		return
	}

	restaurants, err := h.service.RestaurantsByCountry(r.Context(), country)
	if err != nil {
		writeServiceError(w, err, "failed to list restaurants", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}

// Menu handles GET /api/restaurants/{id}/menu requests.
func (h *RestaurantHandler) Menu(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimSuffix(pathSuffix(r.URL.Path, "/api/restaurants/"), "/menu")
	restaurantID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID format", h.logger)
		return
	}

	menu, err := h.service.Menu(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, err, "failed to fetch menu", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, menu)
}
