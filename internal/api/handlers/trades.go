package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/exmatch/exchange/internal/api/models"
)

const defaultTradeLimit = 100

// GetTradesHandler returns recent trades, newest first, optionally
// restricted to one symbol.
func (eh *EngineHolder) GetTradesHandler(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))

	limit := defaultTradeLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeErrorResponse(w, models.ErrBadRequest("limit must be a positive integer", map[string]interface{}{"provided_value": l}))
			return
		}
		limit = n
	}

	trades, err := eh.Engine.RecentTrades(symbol, limit)
	if err != nil {
		writeErrorResponse(w, models.ErrInternal("Failed to load trades"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.GetTradesResponse{
		BaseResponse: baseResponse(""),
		Trades:       models.NewTradeDTOs(trades),
		Count:        len(trades),
	})
}
