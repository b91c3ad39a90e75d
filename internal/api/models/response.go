package models

import (
	"time"

	"github.com/exmatch/exchange/internal/matching"
	"github.com/exmatch/exchange/internal/types"
)

// BaseResponse is the base structure for all API responses
type BaseResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

// OrderDTO represents an order in API responses. Decimal fields are
// rendered as strings.
type OrderDTO struct {
	OrderID           string    `json:"order_id"`
	UserID            string    `json:"user_id"`
	Symbol            string    `json:"symbol"`
	Side              string    `json:"side"`
	OrderType         string    `json:"order_type"`
	Price             string    `json:"price"`
	Quantity          string    `json:"quantity"`
	FilledQuantity    string    `json:"filled_quantity"`
	RemainingQuantity string    `json:"remaining_quantity"`
	Status            string    `json:"status"`
	Reason            string    `json:"reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewOrderDTO converts a domain order for the wire.
func NewOrderDTO(order *types.Order) OrderDTO {
	return OrderDTO{
		OrderID:           order.ID.String(),
		UserID:            order.UserID.String(),
		Symbol:            order.Symbol,
		Side:              string(order.Side),
		OrderType:         string(order.Kind),
		Price:             order.Price.String(),
		Quantity:          order.Quantity.String(),
		FilledQuantity:    order.FilledQuantity.String(),
		RemainingQuantity: order.Remaining().String(),
		Status:            string(order.Status),
		Reason:            order.Reason,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// TradeDTO represents a trade in API responses
type TradeDTO struct {
	TradeID     string    `json:"trade_id"`
	Symbol      string    `json:"symbol"`
	BuyOrderID  string    `json:"buy_order_id"`
	SellOrderID string    `json:"sell_order_id"`
	TakerSide   string    `json:"taker_side"`
	Price       string    `json:"price"`
	Quantity    string    `json:"quantity"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// NewTradeDTO converts a domain trade for the wire.
func NewTradeDTO(trade *types.Trade) TradeDTO {
	return TradeDTO{
		TradeID:     trade.ID.String(),
		Symbol:      trade.Symbol,
		BuyOrderID:  trade.BuyOrderID().String(),
		SellOrderID: trade.SellOrderID().String(),
		TakerSide:   string(trade.TakerSide),
		Price:       trade.Price.String(),
		Quantity:    trade.Quantity.String(),
		ExecutedAt:  trade.ExecutedAt,
	}
}

// NewTradeDTOs converts a slice of domain trades for the wire.
func NewTradeDTOs(trades []*types.Trade) []TradeDTO {
	dtos := make([]TradeDTO, 0, len(trades))
	for _, trade := range trades {
		dtos = append(dtos, NewTradeDTO(trade))
	}
	return dtos
}

// SubmitOrderResponse represents the response for order submission
type SubmitOrderResponse struct {
	BaseResponse
	Order  *OrderDTO  `json:"order,omitempty"`
	Trades []TradeDTO `json:"trades,omitempty"`
}

// CancelOrderResponse represents the response for order cancellation
type CancelOrderResponse struct {
	BaseResponse
	Order *OrderDTO `json:"order,omitempty"`
}

// GetOrderResponse represents the response for getting a single order
type GetOrderResponse struct {
	BaseResponse
	Order *OrderDTO `json:"order,omitempty"`
}

// GetOrdersResponse represents the response for getting multiple orders
type GetOrdersResponse struct {
	BaseResponse
	Orders []OrderDTO `json:"orders"`
	Count  int        `json:"count"`
}

// PriceLevelDTO represents one aggregated price level in the order book
type PriceLevelDTO struct {
	Price      string `json:"price"`
	Quantity   string `json:"quantity"`
	OrderCount int    `json:"order_count"`
}

// NewPriceLevelDTOs converts ladder snapshots for the wire.
func NewPriceLevelDTOs(levels []matching.LevelSnapshot) []PriceLevelDTO {
	dtos := make([]PriceLevelDTO, 0, len(levels))
	for _, level := range levels {
		dtos = append(dtos, PriceLevelDTO{
			Price:      level.Price.String(),
			Quantity:   level.Quantity.String(),
			OrderCount: level.OrderCount,
		})
	}
	return dtos
}

// OrderBookResponse represents an aggregated order book snapshot
type OrderBookResponse struct {
	BaseResponse
	Symbol string          `json:"symbol"`
	Bids   []PriceLevelDTO `json:"bids"`
	Asks   []PriceLevelDTO `json:"asks"`
}

// BestQuote represents the best bid or ask
type BestQuote struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// TopOfBookResponse represents the best bid and ask with derived stats
type TopOfBookResponse struct {
	BaseResponse
	Symbol   string     `json:"symbol"`
	BestBid  *BestQuote `json:"best_bid,omitempty"`
	BestAsk  *BestQuote `json:"best_ask,omitempty"`
	Spread   string     `json:"spread,omitempty"`
	MidPrice string     `json:"mid_price,omitempty"`
}

// GetTradesResponse represents the response for getting trades
type GetTradesResponse struct {
	BaseResponse
	Trades []TradeDTO `json:"trades"`
	Count  int        `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Version       string    `json:"version"`
}
