package handlers

import (
	"net/http"
	"time"

	"github.com/exmatch/exchange/internal/api/models"
)

const version = "1.0.0"

var startTime = time.Now()

// HealthHandler reports process liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Version:       version,
	})
}
