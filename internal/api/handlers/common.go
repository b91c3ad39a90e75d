package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/exmatch/exchange/internal/api/logger"
	"github.com/exmatch/exchange/internal/api/models"
	"github.com/exmatch/exchange/internal/matching"
	"github.com/exmatch/exchange/internal/stream/ws"
)

// EngineHolder wraps the matching engine and websocket hub for dependency
// injection into the HTTP handlers.
type EngineHolder struct {
	Engine *matching.Engine
	Hub    *ws.Hub
}

// NewEngineHolder creates a new engine holder
func NewEngineHolder(engine *matching.Engine, hub *ws.Hub) *EngineHolder {
	return &EngineHolder{Engine: engine, Hub: hub}
}

// WriteErrorResponse writes an error response
func WriteErrorResponse(w http.ResponseWriter, httpErr *models.HTTPError) {
	writeErrorResponse(w, httpErr)
}

func writeErrorResponse(w http.ResponseWriter, httpErr *models.HTTPError) {
	logger.Warn("Request failed", map[string]interface{}{
		"error_code": httpErr.Error.Code,
		"status":     httpErr.StatusCode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.StatusCode)

	response := models.BaseResponse{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Message:   httpErr.Error.Message,
		Error:     &httpErr.Error,
	}

	json.NewEncoder(w).Encode(response)
}

// writeJSONResponse writes a successful JSON response
func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func baseResponse(message string) models.BaseResponse {
	return models.BaseResponse{
		Success:   true,
		Timestamp: time.Now().UTC(),
		Message:   message,
	}
}
