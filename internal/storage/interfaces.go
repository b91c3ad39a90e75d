package storage

import (
	"github.com/google/uuid"

	"github.com/exmatch/exchange/internal/types"
)

// OrderFilter narrows List results. Zero values mean "no constraint";
// Limit <= 0 means no limit.
type OrderFilter struct {
	Symbol string
	Status types.OrderStatus
	UserID uuid.UUID
	Limit  int
	Offset int
}

// OrderStore abstracts order persistence. The live book keeps its own
// in-memory state; stores hold the historical record, including terminal
// orders that have left the book. Implementations can be in-memory,
// Redis, PostgreSQL, or a composite of those.
type OrderStore interface {
	// Save stores a new order (upsert on id).
	Save(order *types.Order) error

	// Get retrieves an order by id, or types.ErrOrderNotFound.
	Get(orderID uuid.UUID) (*types.Order, error)

	// Update persists fill/status changes to an existing order.
	Update(order *types.Order) error

	// List returns orders matching the filter, newest first.
	List(filter OrderFilter) []*types.Order

	// Close releases any resources held by the store.
	Close() error
}

// TradeStore abstracts the trade ledger. Trades are immutable; stores only
// ever append and read.
type TradeStore interface {
	// Save persists a single trade.
	Save(trade *types.Trade) error

	// SaveBatch persists all trades from one match pass.
	SaveBatch(trades []*types.Trade) error

	// GetByOrder returns every trade in which the order participated,
	// as maker or taker, oldest first.
	GetByOrder(orderID uuid.UUID) ([]*types.Trade, error)

	// GetRecent retrieves up to limit most recent trades, optionally
	// restricted to one symbol (empty symbol means all).
	GetRecent(symbol string, limit int) ([]*types.Trade, error)

	// Close releases any resources held by the store.
	Close() error
}
