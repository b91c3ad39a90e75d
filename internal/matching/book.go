package matching

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/exmatch/exchange/internal/types"
)

// IDSource yields unique identifiers for orders and trades. Injected so the
// book stays deterministic in tests.
type IDSource func() uuid.UUID

// Clock yields the current time. Injected for the same reason.
type Clock func() time.Time

// OrderBook owns the bid and ask ladders for a single symbol. Every mutating
// operation takes the book mutex for its full duration: matching is an
// atomic, sequential algorithm and two submissions must never interleave
// their matching steps. Books for different symbols share no state.
type OrderBook struct {
	symbol string
	ids    IDSource
	clock  Clock

	mu    sync.Mutex
	bids  *Ladder
	asks  *Ladder
	index map[uuid.UUID]*types.Order // resting orders only
}

// NewOrderBook creates an empty book for symbol.
func NewOrderBook(symbol string, ids IDSource, clock Clock) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		ids:    ids,
		clock:  clock,
		bids:   NewLadder(types.SideBuy),
		asks:   NewLadder(types.SideSell),
		index:  make(map[uuid.UUID]*types.Order),
	}
}

// Symbol returns the symbol this book trades.
func (b *OrderBook) Symbol() string {
	return b.symbol
}

// Submit runs the incoming order through price-time priority matching
// against the opposite ladder, then rests any limit remainder on the own
// side. It returns the taker's state, the trades produced in execution
// order, and the maker orders whose fill state changed. The taker and maker
// returns are clones taken while the mutex is still held: once Submit
// returns, a concurrent submission may fill the live orders again, so
// callers must never see them. The incoming order must be in status New.
func (b *OrderBook) Submit(order *types.Order) (*types.Order, []*types.Trade, []*types.Order, error) {
	if order.Symbol != b.symbol {
		return nil, nil, nil, types.ErrSymbolMismatch
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		trades []*types.Trade
		makers []*types.Order
	)

	own, opposite := b.bids, b.asks
	if order.Side == types.SideSell {
		own, opposite = b.asks, b.bids
	}

	for order.Remaining().IsPositive() {
		maker, ok := opposite.PeekBest()
		if !ok || !b.crosses(order, maker.Price) {
			break
		}

		qty := decimal.Min(order.Remaining(), maker.Remaining())
		now := b.clock()

		// Maker price always wins: the resting order keeps any price
		// improvement over the incoming order's limit.
		trade := &types.Trade{
			ID:           b.ids(),
			Symbol:       b.symbol,
			MakerOrderID: maker.ID,
			TakerOrderID: order.ID,
			TakerSide:    order.Side,
			Price:        maker.Price,
			Quantity:     qty,
			ExecutedAt:   now,
		}

		maker.ApplyFill(qty, now)
		order.ApplyFill(qty, now)
		trades = append(trades, trade)
		makers = append(makers, maker.Clone())

		if maker.Status == types.StatusFilled {
			opposite.RemoveBest()
			delete(b.index, maker.ID)
		}
	}

	if order.Remaining().IsPositive() {
		now := b.clock()
		if order.Kind == types.KindMarket {
			// Market orders never rest; the unfilled remainder is
			// cancelled with a liquidity indicator for the caller.
			_ = order.Cancel(types.ReasonNoLiquidity, now)
		} else {
			order.Rest(now)
			own.Insert(order)
			b.index[order.ID] = order
		}
	}

	return order.Clone(), trades, makers, nil
}

// crosses reports whether the incoming order's price is compatible with the
// given resting price. Market orders cross at any price.
func (b *OrderBook) crosses(order *types.Order, restingPrice decimal.Decimal) bool {
	if order.Kind == types.KindMarket {
		return true
	}
	if order.Side == types.SideBuy {
		return order.Price.GreaterThanOrEqual(restingPrice)
	}
	return order.Price.LessThanOrEqual(restingPrice)
}

// Cancel removes a resting order from its ladder and marks it Cancelled.
// Unknown ids return ErrOrderNotFound; an order currently being matched is
// unreachable here until the in-flight Submit releases the book mutex.
func (b *OrderBook) Cancel(orderID uuid.UUID) (*types.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.index[orderID]
	if !ok {
		return nil, types.ErrOrderNotFound
	}

	ladder := b.bids
	if order.Side == types.SideSell {
		ladder = b.asks
	}
	ladder.Remove(orderID, order.Price)
	delete(b.index, orderID)

	if err := order.Cancel(types.ReasonCancelledByRequest, b.clock()); err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// Depth returns the number of resting orders on each side.
func (b *OrderBook) Depth() (bids, asks int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.Len(), b.asks.Len()
}

// Snapshot returns up to depth aggregated levels per side, best first.
func (b *OrderBook) Snapshot(depth int) (bids, asks []LevelSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.Snapshot(depth), b.asks.Snapshot(depth)
}

// Top returns the best level of each side, or nil for an empty side.
func (b *OrderBook) Top() (bestBid, bestAsk *LevelSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if levels := b.bids.Snapshot(1); len(levels) == 1 {
		bestBid = &levels[0]
	}
	if levels := b.asks.Snapshot(1); len(levels) == 1 {
		bestAsk = &levels[0]
	}
	return bestBid, bestAsk
}
