package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/exmatch/exchange/internal/types"
)

// SubmitOrderRequest represents a single order submission. Price and
// quantity arrive as strings so values round-trip without float drift.
type SubmitOrderRequest struct {
	UserID    string `json:"user_id"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`       // "buy" | "sell"
	OrderType string `json:"order_type"` // "market" | "limit" | "stop" | "stop_limit"
	Price     string `json:"price,omitempty"`
	Quantity  string `json:"quantity"`
}

// ParsedOrder is a SubmitOrderRequest after transport-level validation.
type ParsedOrder struct {
	UserID   uuid.UUID
	Symbol   string
	Side     types.Side
	Kind     types.OrderKind
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Parse validates the request and converts it to domain types. It only
// rejects requests that are malformed at the transport level; business
// rules are enforced by the engine, which responds with a rejected order
// rather than an error.
func (r *SubmitOrderRequest) Parse() (*ParsedOrder, *HTTPError) {
	parsed := &ParsedOrder{}

	userID, err := uuid.Parse(strings.TrimSpace(r.UserID))
	if err != nil {
		return nil, ErrInvalidUserIDError(r.UserID)
	}
	parsed.UserID = userID

	parsed.Symbol = strings.TrimSpace(r.Symbol)
	if parsed.Symbol == "" || len(parsed.Symbol) > types.MaxSymbolLen {
		return nil, ErrInvalidSymbolError(r.Symbol)
	}

	switch types.Side(strings.ToLower(strings.TrimSpace(r.Side))) {
	case types.SideBuy:
		parsed.Side = types.SideBuy
	case types.SideSell:
		parsed.Side = types.SideSell
	default:
		return nil, ErrInvalidSideError(r.Side)
	}

	switch types.OrderKind(strings.ToLower(strings.TrimSpace(r.OrderType))) {
	case types.KindMarket:
		parsed.Kind = types.KindMarket
	case types.KindLimit:
		parsed.Kind = types.KindLimit
	case types.KindStop:
		parsed.Kind = types.KindStop
	case types.KindStopLimit:
		parsed.Kind = types.KindStopLimit
	default:
		return nil, ErrInvalidOrderTypeError(r.OrderType)
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(r.Quantity))
	if err != nil || !quantity.IsPositive() {
		return nil, ErrInvalidQuantityError(r.Quantity)
	}
	parsed.Quantity = quantity

	// A price field that is present must be positive no matter the order
	// type; market orders may simply leave it out.
	if price := strings.TrimSpace(r.Price); price != "" {
		p, err := decimal.NewFromString(price)
		if err != nil || !p.IsPositive() {
			return nil, ErrInvalidPriceError(r.Price)
		}
		parsed.Price = p
	} else if parsed.Kind == types.KindLimit || parsed.Kind == types.KindStopLimit {
		return nil, ErrMissingPriceError()
	}

	return parsed, nil
}
