package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is an immutable execution record produced by the matching algorithm.
// Price is always the maker's price: the order that was already resting in
// the book keeps any price improvement.
type Trade struct {
	ID           uuid.UUID       `json:"id"`
	Symbol       string          `json:"symbol"`
	MakerOrderID uuid.UUID       `json:"maker_order_id"`
	TakerOrderID uuid.UUID       `json:"taker_order_id"`
	TakerSide    Side            `json:"taker_side"`
	Price        decimal.Decimal `json:"price"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExecutedAt   time.Time       `json:"executed_at"`
}

// BuyOrderID returns the id of the buying order in this trade.
func (t *Trade) BuyOrderID() uuid.UUID {
	if t.TakerSide == SideBuy {
		return t.TakerOrderID
	}
	return t.MakerOrderID
}

// SellOrderID returns the id of the selling order in this trade.
func (t *Trade) SellOrderID() uuid.UUID {
	if t.TakerSide == SideSell {
		return t.TakerOrderID
	}
	return t.MakerOrderID
}
