package matching

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/exmatch/exchange/internal/types"
)

// priceLevel holds every resting order at one exact price, in arrival order.
// The slice head is the oldest order, so FIFO time priority falls out of
// appending on insert and popping the head on execution.
type priceLevel struct {
	price  decimal.Decimal
	orders []*types.Order
}

// LevelSnapshot is an aggregated view of one price level.
type LevelSnapshot struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

// Ladder is one side of a book: price levels kept sorted best-first
// (highest first for bids, lowest first for asks).
type Ladder struct {
	side   types.Side
	levels []*priceLevel
}

// NewLadder creates an empty ladder for the given side.
func NewLadder(side types.Side) *Ladder {
	return &Ladder{side: side}
}

// betterThan reports whether price a is more favorable than b on this side.
func (l *Ladder) betterThan(a, b decimal.Decimal) bool {
	if l.side == types.SideBuy {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

// search returns the index of the level with the given price, or the index
// where such a level would be inserted to keep best-first order.
func (l *Ladder) search(price decimal.Decimal) int {
	return sort.Search(len(l.levels), func(i int) bool {
		return !l.betterThan(l.levels[i].price, price)
	})
}

// Insert appends the order to the tail of its price level, creating the
// level if absent. The tail append is what encodes time priority.
func (l *Ladder) Insert(order *types.Order) {
	i := l.search(order.Price)
	if i < len(l.levels) && l.levels[i].price.Equal(order.Price) {
		l.levels[i].orders = append(l.levels[i].orders, order)
		return
	}

	level := &priceLevel{price: order.Price, orders: []*types.Order{order}}
	l.levels = append(l.levels, nil)
	copy(l.levels[i+1:], l.levels[i:])
	l.levels[i] = level
}

// PeekBest returns the head order of the most favorable level, or false
// when the ladder is empty.
func (l *Ladder) PeekBest() (*types.Order, bool) {
	if len(l.levels) == 0 {
		return nil, false
	}
	return l.levels[0].orders[0], true
}

// RemoveBest pops the head order of the best level once it has been fully
// consumed, dropping the level itself when it becomes empty.
func (l *Ladder) RemoveBest() {
	if len(l.levels) == 0 {
		return
	}

	best := l.levels[0]
	best.orders = best.orders[1:]
	if len(best.orders) == 0 {
		l.levels = l.levels[1:]
	}
}

// Remove excises the order with the given id from its price level,
// preserving the relative order of the remaining orders. Returns false
// when the order is not on the ladder.
func (l *Ladder) Remove(orderID uuid.UUID, price decimal.Decimal) bool {
	i := l.search(price)
	if i >= len(l.levels) || !l.levels[i].price.Equal(price) {
		return false
	}

	level := l.levels[i]
	for j, order := range level.orders {
		if order.ID == orderID {
			level.orders = append(level.orders[:j], level.orders[j+1:]...)
			if len(level.orders) == 0 {
				l.levels = append(l.levels[:i], l.levels[i+1:]...)
			}
			return true
		}
	}

	return false
}

// Len returns the number of resting orders across all levels.
func (l *Ladder) Len() int {
	n := 0
	for _, level := range l.levels {
		n += len(level.orders)
	}
	return n
}

// Snapshot aggregates up to depth levels, best first. depth <= 0 means all.
func (l *Ladder) Snapshot(depth int) []LevelSnapshot {
	if depth <= 0 || depth > len(l.levels) {
		depth = len(l.levels)
	}

	out := make([]LevelSnapshot, 0, depth)
	for _, level := range l.levels[:depth] {
		qty := decimal.Zero
		for _, order := range level.orders {
			qty = qty.Add(order.Remaining())
		}
		out = append(out, LevelSnapshot{
			Price:      level.price,
			Quantity:   qty,
			OrderCount: len(level.orders),
		})
	}
	return out
}
