package router

import (
	"net/http"
	"strings"

	"feastly/internal/handler"
	"feastly/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	methodHandler *handler.PaymentMethodHandler,
	restaurantHandler *handler.RestaurantHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/api/orders" || path == "/api/orders/" {
			switch r.Method {
			case http.MethodPost:
				orderHandler.Create(w, r)
			case http.MethodGet:
				orderHandler.List(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if strings.HasPrefix(path, "/api/orders/my-orders/") {
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			orderHandler.ListByUser(w, r)
			return
		}

		if strings.HasSuffix(path, "/status") {
			if r.Method != http.MethodPatch {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			orderHandler.UpdateStatus(w, r)
			return
		}

		// Remaining shape is /api/orders/{id}
		switch r.Method {
		case http.MethodGet:
			orderHandler.GetByID(w, r)
		case http.MethodDelete:
			orderHandler.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Payment handler function
	paymentRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/api/payments" || path == "/api/payments/" {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			paymentHandler.Settle(w, r)
			return
		}

		if path == "/api/payments/history" {
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			paymentHandler.History(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	mux.HandleFunc("/api/payments", paymentRouteHandler)
	mux.HandleFunc("/api/payments/", paymentRouteHandler)

	// Payment method handler function
	methodRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/api/payment-methods" || path == "/api/payment-methods/" {
			switch r.Method {
			case http.MethodGet:
				methodHandler.List(w, r)
			case http.MethodPost:
				methodHandler.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if strings.HasPrefix(path, "/api/payment-methods/user/") {
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			methodHandler.ListByUser(w, r)
			return
		}

		// Remaining shape is /api/payment-methods/{id}
		switch r.Method {
		case http.MethodPut:
			methodHandler.Update(w, r)
		case http.MethodDelete:
			methodHandler.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	mux.HandleFunc("/api/payment-methods", methodRouteHandler)
	mux.HandleFunc("/api/payment-methods/", methodRouteHandler)

	// Restaurant handler function
	restaurantRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if strings.HasPrefix(path, "/api/restaurants/by-country/") {
			restaurantHandler.ByCountry(w, r)
			return
		}

		if strings.HasSuffix(path, "/menu") {
			restaurantHandler.Menu(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	mux.HandleFunc("/api/restaurants/", restaurantRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> Principal
	var h http.Handler = mux
	h = middleware.Principal(logger)(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
