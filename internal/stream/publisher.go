package stream

import (
	"github.com/exmatch/exchange/internal/types"
)

// Event message types pushed to downstream consumers.
const (
	EventOrderUpdate = "order_update"
	EventTradeUpdate = "trade_update"
)

// Event is the wire envelope for order and trade updates.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher receives order and trade updates as the engine produces them.
// Implementations must not block the matching path; slow consumers drop
// or buffer on their own.
type Publisher interface {
	PublishOrder(order *types.Order)
	PublishTrade(trade *types.Trade)
	Close() error
}

// Multi fans updates out to several publishers.
type Multi []Publisher

func (m Multi) PublishOrder(order *types.Order) {
	for _, p := range m {
		p.PublishOrder(order)
	}
}

func (m Multi) PublishTrade(trade *types.Trade) {
	for _, p := range m {
		p.PublishTrade(trade)
	}
}

func (m Multi) Close() error {
	var lastErr error
	for _, p := range m {
		if err := p.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Nop discards all updates. Used when no downstream consumer is configured.
type Nop struct{}

func (Nop) PublishOrder(*types.Order) {}
func (Nop) PublishTrade(*types.Trade) {}
func (Nop) Close() error              { return nil }
