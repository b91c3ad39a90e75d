package matching

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/exmatch/exchange/internal/storage"
	"github.com/exmatch/exchange/internal/stream"
	"github.com/exmatch/exchange/internal/types"
)

// Engine owns one order book per symbol and coordinates them with the
// storage and streaming collaborators. Books are created lazily on first
// submission and processed independently: operations on different symbols
// never contend with each other.
type Engine struct {
	ids    IDSource
	clock  Clock
	orders storage.OrderStore
	trades storage.TradeStore
	events stream.Publisher

	mu    sync.RWMutex
	books map[string]*OrderBook
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDSource overrides the identifier source (default uuid.New).
func WithIDSource(ids IDSource) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithClock overrides the time source (default time.Now).
func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithPublisher attaches a downstream consumer for order and trade updates.
func WithPublisher(p stream.Publisher) Option {
	return func(e *Engine) { e.events = p }
}

// NewEngine creates an engine backed by the given stores.
func NewEngine(orders storage.OrderStore, trades storage.TradeStore, opts ...Option) *Engine {
	e := &Engine{
		ids:    uuid.New,
		clock:  time.Now,
		orders: orders,
		trades: trades,
		events: stream.Nop{},
		books:  make(map[string]*OrderBook),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SubmitRequest carries a fully parsed order intent into the engine.
type SubmitRequest struct {
	UserID   uuid.UUID
	Symbol   string
	Side     types.Side
	Kind     types.OrderKind
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// SubmitResult is the outcome of one submission: the final state of the
// incoming order plus every trade it produced, in execution order.
type SubmitResult struct {
	Order  *types.Order
	Trades []*types.Trade
}

// Submit validates, matches and persists one order. Validation failures
// come back as a Rejected order inside the result, never as an error; a
// non-nil error means persistence trouble after matching already ran, and
// the result is still valid.
func (e *Engine) Submit(req SubmitRequest) (*SubmitResult, error) {
	order := types.NewOrder(e.ids(), req.UserID, req.Symbol, req.Side, req.Kind, req.Price, req.Quantity, e.clock())

	if order.Status == types.StatusRejected {
		err := e.orders.Save(order)
		e.events.PublishOrder(order)
		return &SubmitResult{Order: order}, err
	}

	book := e.book(order.Symbol)
	taker, trades, makers, err := book.Submit(order)
	if err != nil {
		return nil, err
	}

	// taker and makers are clones the book cut while holding its mutex.
	// Everything persisted or published below is already detached from the
	// live orders a concurrent submission may keep filling.
	result := &SubmitResult{Order: taker, Trades: trades}

	var saveErr error
	if err := e.orders.Save(taker); err != nil {
		saveErr = fmt.Errorf("save order %s: %w", taker.ID, err)
	}
	for _, maker := range makers {
		if err := e.orders.Update(maker); err != nil {
			saveErr = fmt.Errorf("update maker %s: %w", maker.ID, err)
		}
	}
	if len(trades) > 0 {
		if err := e.trades.SaveBatch(trades); err != nil {
			saveErr = fmt.Errorf("save trades for order %s: %w", taker.ID, err)
		}
	}

	e.events.PublishOrder(taker)
	for _, maker := range makers {
		e.events.PublishOrder(maker)
	}
	for _, trade := range trades {
		e.events.PublishTrade(trade)
	}

	return result, saveErr
}

// Cancel removes a resting order from its book and marks it Cancelled.
// Unknown ids return types.ErrOrderNotFound; orders already terminal return
// types.ErrOrderNotCancellable with no side effect. A cancel racing an
// in-flight Submit waits on the book mutex and may find the order filled.
func (e *Engine) Cancel(orderID uuid.UUID) (*types.Order, error) {
	order, err := e.orders.Get(orderID)
	if err != nil {
		return nil, types.ErrOrderNotFound
	}
	if order.IsTerminal() {
		return nil, types.ErrOrderNotCancellable
	}

	book, ok := e.lookupBook(order.Symbol)
	if !ok {
		return nil, types.ErrOrderNotFound
	}

	cancelled, err := book.Cancel(orderID)
	if err != nil {
		return nil, err
	}

	var updateErr error
	if err := e.orders.Update(cancelled); err != nil {
		updateErr = fmt.Errorf("update cancelled order %s: %w", orderID, err)
	}
	e.events.PublishOrder(cancelled)

	return cancelled, updateErr
}

// GetOrder returns a snapshot of an order. The copy keeps callers from
// aliasing whatever pointer the store layer hands back.
func (e *Engine) GetOrder(orderID uuid.UUID) (*types.Order, error) {
	order, err := e.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// TradesForOrder returns the ledger entries referencing the order.
func (e *Engine) TradesForOrder(orderID uuid.UUID) ([]*types.Trade, error) {
	return e.trades.GetByOrder(orderID)
}

// ListOrders returns snapshots of orders matching the filter, newest first.
func (e *Engine) ListOrders(filter storage.OrderFilter) []*types.Order {
	orders := e.orders.List(filter)
	copies := make([]*types.Order, len(orders))
	for i, order := range orders {
		copies[i] = order.Clone()
	}
	return copies
}

// RecentTrades returns up to limit most recent trades for the symbol
// (all symbols when empty).
func (e *Engine) RecentTrades(symbol string, limit int) ([]*types.Trade, error) {
	return e.trades.GetRecent(symbol, limit)
}

// BookSnapshot returns up to depth aggregated levels per side for a symbol.
// ok is false when no book exists for the symbol yet.
func (e *Engine) BookSnapshot(symbol string, depth int) (bids, asks []LevelSnapshot, ok bool) {
	book, found := e.lookupBook(symbol)
	if !found {
		return nil, nil, false
	}
	bids, asks = book.Snapshot(depth)
	return bids, asks, true
}

// TopOfBook returns the best bid and ask for a symbol, nil for empty sides.
func (e *Engine) TopOfBook(symbol string) (bestBid, bestAsk *LevelSnapshot, ok bool) {
	book, found := e.lookupBook(symbol)
	if !found {
		return nil, nil, false
	}
	bestBid, bestAsk = book.Top()
	return bestBid, bestAsk, true
}

// Close releases the stores and publisher.
func (e *Engine) Close() error {
	var lastErr error
	if err := e.events.Close(); err != nil {
		lastErr = err
	}
	if err := e.trades.Close(); err != nil {
		lastErr = err
	}
	if err := e.orders.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

// book returns the book for symbol, creating it on first use.
func (e *Engine) book(symbol string) *OrderBook {
	e.mu.RLock()
	book, ok := e.books[symbol]
	e.mu.RUnlock()
	if ok {
		return book
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if book, ok = e.books[symbol]; ok {
		return book
	}
	book = NewOrderBook(symbol, e.ids, e.clock)
	e.books[symbol] = book
	return book
}

func (e *Engine) lookupBook(symbol string) (*OrderBook, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	book, ok := e.books[symbol]
	return book, ok
}
