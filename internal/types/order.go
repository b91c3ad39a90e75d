package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderKind is the execution style of an order.
type OrderKind string

const (
	KindMarket    OrderKind = "market"
	KindLimit     OrderKind = "limit"
	KindStop      OrderKind = "stop"
	KindStopLimit OrderKind = "stop_limit"
)

// OrderStatus tracks an order through its lifecycle. Filled, Cancelled and
// Rejected are terminal; no method transitions out of them.
type OrderStatus string

const (
	StatusNew             OrderStatus = "new"
	StatusOpen            OrderStatus = "open"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusCancelled       OrderStatus = "cancelled"
	StatusRejected        OrderStatus = "rejected"
)

// MaxSymbolLen bounds the symbol attribute on every order.
const MaxSymbolLen = 20

// Rejection and cancellation reasons surfaced to callers.
const (
	ReasonEmptySymbol        = "symbol must be between 1 and 20 characters"
	ReasonNonPositiveQty     = "quantity must be greater than 0"
	ReasonNonPositivePrice   = "price must be greater than 0"
	ReasonInvalidSide        = "side must be buy or sell"
	ReasonInvalidKind        = "order type must be market, limit, stop or stop_limit"
	ReasonStopNotSupported   = "stop orders are not supported pending a trigger feed"
	ReasonNoLiquidity        = "insufficient liquidity"
	ReasonCancelledByRequest = "cancelled by request"
)

// Order is a request to trade, either resting in a book or newly submitted.
// Status and FilledQuantity are only ever mutated together, through ApplyFill,
// Rest, Cancel and reject; external layers treat orders as read-only.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Symbol         string          `json:"symbol"`
	Side           Side            `json:"side"`
	Kind           OrderKind       `json:"order_type"`
	Price          decimal.Decimal `json:"price"` // limit price; zero for market orders
	Quantity       decimal.Decimal `json:"quantity"`
	FilledQuantity decimal.Decimal `json:"filled_quantity"`
	Status         OrderStatus     `json:"status"`
	Reason         string          `json:"reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewOrder constructs an order in status New, or directly in status Rejected
// with a reason when validation fails. It never returns an error: callers
// always get a value they can render back to the user.
func NewOrder(id, userID uuid.UUID, symbol string, side Side, kind OrderKind, price, quantity decimal.Decimal, now time.Time) *Order {
	o := &Order{
		ID:        id,
		UserID:    userID,
		Symbol:    symbol,
		Side:      side,
		Kind:      kind,
		Price:     price,
		Quantity:  quantity,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if reason := o.validate(); reason != "" {
		o.Status = StatusRejected
		o.Reason = reason
	}

	return o
}

func (o *Order) validate() string {
	if o.Symbol == "" || len(o.Symbol) > MaxSymbolLen {
		return ReasonEmptySymbol
	}
	if o.Side != SideBuy && o.Side != SideSell {
		return ReasonInvalidSide
	}
	switch o.Kind {
	case KindMarket, KindLimit:
	case KindStop, KindStopLimit:
		// Trigger semantics need a market data feed this engine does not
		// consume yet, so stop orders are refused outright.
		return ReasonStopNotSupported
	default:
		return ReasonInvalidKind
	}
	if !o.Quantity.IsPositive() {
		return ReasonNonPositiveQty
	}
	if o.Kind == KindLimit && !o.Price.IsPositive() {
		return ReasonNonPositivePrice
	}
	return ""
}

// Clone returns an independent copy of the order. The book hands out clones
// of anything it may still mutate, so live orders never escape its mutex.
// Decimal values are immutable, so a shallow copy is a full copy.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}

// Remaining returns the unfilled portion of the order.
func (o *Order) Remaining() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// IsTerminal reports whether the order can no longer change.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusFilled, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// ApplyFill records an execution against the order, advancing FilledQuantity
// and Status in one step. Filling more than the remaining quantity is a
// programming fault, not a user-facing condition, and panics.
func (o *Order) ApplyFill(qty decimal.Decimal, now time.Time) {
	if o.IsTerminal() {
		panic("matching: fill applied to terminal order " + o.ID.String())
	}
	if qty.GreaterThan(o.Remaining()) {
		panic("matching: fill exceeds remaining quantity on order " + o.ID.String())
	}

	o.FilledQuantity = o.FilledQuantity.Add(qty)
	if o.Remaining().IsZero() {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartiallyFilled
	}
	o.UpdatedAt = now
}

// Rest marks a new order as resting on the book. Partially filled orders
// keep their status; the transition only applies to New.
func (o *Order) Rest(now time.Time) {
	if o.Status == StatusNew {
		o.Status = StatusOpen
		o.UpdatedAt = now
	}
}

// Cancel transitions the order to Cancelled. Terminal orders are left
// untouched and ErrOrderNotCancellable is returned.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.IsTerminal() {
		return ErrOrderNotCancellable
	}
	o.Status = StatusCancelled
	o.Reason = reason
	o.UpdatedAt = now
	return nil
}
