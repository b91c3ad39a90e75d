package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/exmatch/exchange/internal/api/logger"
	"github.com/exmatch/exchange/internal/api/models"
)

// Recovery converts a panicking handler into a plain 500 response instead of
// tearing down the connection. The stack is logged so the panic site can be
// found from logs alone.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.Error("Panic recovered", map[string]interface{}{
				"error":      fmt.Sprintf("%v", rec),
				"method":     r.Method,
				"path":       r.URL.Path,
				"stacktrace": string(debug.Stack()),
			})

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(models.BaseResponse{
				Success:   false,
				Timestamp: time.Now().UTC(),
				Message:   "Internal server error",
				Error: &models.APIError{
					Code:    models.ErrInternalError,
					Message: "An unexpected error occurred",
				},
			})
		}()

		next.ServeHTTP(w, r)
	})
}
