package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/exmatch/exchange/internal/api/logger"
	"github.com/exmatch/exchange/internal/api/models"
	"github.com/exmatch/exchange/internal/matching"
	"github.com/exmatch/exchange/internal/storage"
	"github.com/exmatch/exchange/internal/types"
)

// SubmitOrderHandler handles single order submission. Transport problems
// (bad JSON, malformed fields) come back as 4xx errors; business rejections
// come back as 422 with the rejected order attached so the caller can see
// the reason.
func (eh *EngineHolder) SubmitOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	parsed, httpErr := req.Parse()
	if httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	result, err := eh.Engine.Submit(matching.SubmitRequest{
		UserID:   parsed.UserID,
		Symbol:   parsed.Symbol,
		Side:     parsed.Side,
		Kind:     parsed.Kind,
		Price:    parsed.Price,
		Quantity: parsed.Quantity,
	})
	if err != nil {
		if result == nil {
			writeErrorResponse(w, models.ErrInternal("Failed to submit order"))
			return
		}
		// Matching already ran; the book is authoritative and only the
		// persistence layer lagged. Log and keep serving the result.
		logger.Error("Order persisted with errors", map[string]interface{}{
			"error": err.Error(),
		})
	}

	order := result.Order
	orderDTO := models.NewOrderDTO(order)

	if order.Status == types.StatusRejected {
		writeJSONResponse(w, http.StatusUnprocessableEntity, models.SubmitOrderResponse{
			BaseResponse: models.BaseResponse{
				Success:   false,
				Timestamp: time.Now().UTC(),
				Message:   "Order rejected: " + order.Reason,
				Error: &models.APIError{
					Code:    models.ErrOrderRejected,
					Message: order.Reason,
				},
			},
			Order: &orderDTO,
		})
		return
	}

	logger.Info("Order submitted successfully", map[string]interface{}{
		"order_id": order.ID.String(),
		"user_id":  order.UserID.String(),
		"symbol":   order.Symbol,
		"type":     string(order.Kind),
		"side":     string(order.Side),
		"status":   string(order.Status),
		"trades":   len(result.Trades),
	})

	writeJSONResponse(w, http.StatusCreated, models.SubmitOrderResponse{
		BaseResponse: baseResponse("Order submitted successfully"),
		Order:        &orderDTO,
		Trades:       models.NewTradeDTOs(result.Trades),
	})
}

// GetOrdersHandler lists orders filtered by symbol, status, user_id with
// limit/offset paging, newest first.
func (eh *EngineHolder) GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := storage.OrderFilter{
		Symbol: strings.TrimSpace(query.Get("symbol")),
		Status: types.OrderStatus(strings.ToLower(strings.TrimSpace(query.Get("status")))),
		Limit:  100,
	}

	if userID := strings.TrimSpace(query.Get("user_id")); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			writeErrorResponse(w, models.ErrInvalidUserIDError(userID))
			return
		}
		filter.UserID = id
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			writeErrorResponse(w, models.ErrBadRequest("limit must be a positive integer", map[string]interface{}{"provided_value": limit}))
			return
		}
		filter.Limit = n
	}
	if offset := query.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			writeErrorResponse(w, models.ErrBadRequest("offset must be a non-negative integer", map[string]interface{}{"provided_value": offset}))
			return
		}
		filter.Offset = n
	}

	orders := eh.Engine.ListOrders(filter)
	dtos := make([]models.OrderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, models.NewOrderDTO(order))
	}

	writeJSONResponse(w, http.StatusOK, models.GetOrdersResponse{
		BaseResponse: baseResponse(""),
		Orders:       dtos,
		Count:        len(dtos),
	})
}

// GetOrderHandler returns a single order by id.
func (eh *EngineHolder) GetOrderHandler(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	order, err := eh.Engine.GetOrder(orderID)
	if err != nil {
		writeErrorResponse(w, models.ErrOrderNotFoundError(orderID))
		return
	}

	orderDTO := models.NewOrderDTO(order)
	writeJSONResponse(w, http.StatusOK, models.GetOrderResponse{
		BaseResponse: baseResponse(""),
		Order:        &orderDTO,
	})
}

// CancelOrderHandler cancels a resting order. Terminal orders return 409.
func (eh *EngineHolder) CancelOrderHandler(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	cancelled, err := eh.Engine.Cancel(orderID)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrOrderNotFound):
			writeErrorResponse(w, models.ErrOrderNotFoundError(orderID))
		case errors.Is(err, types.ErrOrderNotCancellable):
			status := ""
			if order, getErr := eh.Engine.GetOrder(orderID); getErr == nil {
				status = string(order.Status)
			}
			writeErrorResponse(w, models.ErrOrderNotCancellableError(orderID, status))
		default:
			logger.Error("Cancel persisted with errors", map[string]interface{}{
				"order_id": orderID.String(),
				"error":    err.Error(),
			})
			writeErrorResponse(w, models.ErrInternal("Failed to cancel order"))
		}
		return
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID.String(),
		"symbol":   cancelled.Symbol,
	})

	orderDTO := models.NewOrderDTO(cancelled)
	writeJSONResponse(w, http.StatusOK, models.CancelOrderResponse{
		BaseResponse: baseResponse("Order cancelled successfully"),
		Order:        &orderDTO,
	})
}

// GetOrderTradesHandler returns every trade the order participated in.
func (eh *EngineHolder) GetOrderTradesHandler(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	if _, err := eh.Engine.GetOrder(orderID); err != nil {
		writeErrorResponse(w, models.ErrOrderNotFoundError(orderID))
		return
	}

	trades, err := eh.Engine.TradesForOrder(orderID)
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
