package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/exmatch/exchange/internal/api/models"
)

const defaultDepth = 50

var two = decimal.NewFromInt(2)

// GetOrderBookHandler returns an aggregated snapshot of one symbol's book.
// Unknown symbols return an empty book rather than an error; an exchange
// that has never seen a symbol simply has no orders for it.
func (eh *EngineHolder) GetOrderBookHandler(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}

	depth := defaultDepth
	if d := r.URL.Query().Get("depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			writeErrorResponse(w, models.ErrBadRequest("depth must be a positive integer", map[string]interface{}{"provided_value": d}))
			return
		}
		depth = n
	}

	bids, asks, _ := eh.Engine.BookSnapshot(symbol, depth)

	writeJSONResponse(w, http.StatusOK, models.OrderBookResponse{
		BaseResponse: baseResponse(""),
		Symbol:       symbol,
		Bids:         models.NewPriceLevelDTOs(bids),
		Asks:         models.NewPriceLevelDTOs(asks),
	})
}

// GetTopOfBookHandler returns the best bid and ask plus spread and mid price
// when both sides are populated.
func (eh *EngineHolder) GetTopOfBookHandler(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}

	response := models.TopOfBookResponse{
		BaseResponse: baseResponse(""),
		Symbol:       symbol,
	}

	bestBid, bestAsk, ok := eh.Engine.TopOfBook(symbol)
	if ok {
		if bestBid != nil {
			response.BestBid = &models.BestQuote{
				Price:    bestBid.Price.String(),
				Quantity: bestBid.Quantity.String(),
			}
		}
		if bestAsk != nil {
			response.BestAsk = &models.BestQuote{
				Price:    bestAsk.Price.String(),
				Quantity: bestAsk.Quantity.String(),
			}
		}
		if bestBid != nil && bestAsk != nil {
			response.Spread = bestAsk.Price.Sub(bestBid.Price).String()
			response.MidPrice = bestAsk.Price.Add(bestBid.Price).Div(two).String()
		}
	}

	writeJSONResponse(w, http.StatusOK, response)
}
