package routes

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/exmatch/exchange/internal/api/handlers"
	"github.com/exmatch/exchange/internal/api/middleware"
	"github.com/exmatch/exchange/internal/api/models"
)

// SetupRoutes configures all API routes with middleware
func SetupRoutes(engineHolder *handlers.EngineHolder) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/api/v1/health", handlers.HealthHandler)

	// Order endpoints
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			engineHolder.SubmitOrderHandler(w, r)
		case http.MethodGet:
			engineHolder.GetOrdersHandler(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// /api/v1/orders/{id} and /api/v1/orders/{id}/trades
	mux.HandleFunc("/api/v1/orders/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/orders/")
		idPart, suffix, _ := strings.Cut(rest, "/")

		orderID, err := uuid.Parse(idPart)
		if err != nil {
			handlers.WriteErrorResponse(w, models.ErrInvalidOrderIDError(idPart))
			return
		}

		switch {
		case suffix == "" && r.Method == http.MethodGet:
			engineHolder.GetOrderHandler(w, r, orderID)
		case suffix == "" && r.Method == http.MethodDelete:
			engineHolder.CancelOrderHandler(w, r, orderID)
		case suffix == "trades" && r.Method == http.MethodGet:
			engineHolder.GetOrderTradesHandler(w, r, orderID)
		case suffix != "" && suffix != "trades":
			http.NotFound(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Order book endpoints
	mux.HandleFunc("/api/v1/orderbook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetOrderBookHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/orderbook/top", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetTopOfBookHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Trade endpoints
	mux.HandleFunc("/api/v1/trades", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			engineHolder.GetTradesHandler(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Live order and trade updates
	mux.HandleFunc("/api/v1/stream", engineHolder.StreamHandler)

	// Apply middleware (order matters: Recovery -> CORS -> Logging -> Handler)
	handler := middleware.Recovery(mux)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)

	return handler
}
