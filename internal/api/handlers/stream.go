package handlers

import (
	"net/http"

	"github.com/exmatch/exchange/internal/api/models"
	"github.com/exmatch/exchange/internal/stream/ws"
)

// StreamHandler upgrades the connection to a websocket and subscribes it to
// live order and trade updates.
func (eh *EngineHolder) StreamHandler(w http.ResponseWriter, r *http.Request) {
	if eh.Hub == nil {
		writeErrorResponse(w, models.ErrInternal("Streaming is not enabled"))
		return
	}
	ws.ServeWS(eh.Hub, w, r)
}
