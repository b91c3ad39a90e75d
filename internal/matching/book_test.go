package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exmatch/exchange/internal/types"
)

func newTestBook(t *testing.T) *OrderBook {
	t.Helper()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewOrderBook("BTC-USD", uuid.New, func() time.Time { return clock })
}

func submit(t *testing.T, book *OrderBook, side types.Side, kind types.OrderKind, price, qty string) (*types.Order, []*types.Trade) {
	t.Helper()
	order := types.NewOrder(
		uuid.New(), uuid.New(), "BTC-USD", side, kind,
		decimal.RequireFromString(price), decimal.RequireFromString(qty),
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
	require.Equal(t, types.StatusNew, order.Status)

	_, trades, _, err := book.Submit(order)
	require.NoError(t, err)
	return order, trades
}

func TestLimitOrderRestsOnEmptyBook(t *testing.T) {
	book := newTestBook(t)

	order, trades := submit(t, book, types.SideSell, types.KindLimit, "50000", "1.0")

	assert.Empty(t, trades)
	assert.Equal(t, types.StatusOpen, order.Status)

	bids, asks := book.Depth()
	assert.Equal(t, 0, bids)
	assert.Equal(t, 1, asks)
}

func TestExactCrossFillsBothSides(t *testing.T) {
	book := newTestBook(t)
	sell, _ := submit(t, book, types.SideSell, types.KindLimit, "50000", "1.0")

	buy, trades := submit(t, book, types.SideBuy, types.KindLimit, "50000", "1.0")

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(decimal.RequireFromString("50000")))
	assert.True(t, trades[0].Quantity.Equal(decimal.RequireFromString("1")))
	assert.Equal(t, sell.ID, trades[0].MakerOrderID)
	assert.Equal(t, buy.ID, trades[0].TakerOrderID)
	assert.Equal(t, types.SideBuy, trades[0].TakerSide)

	assert.Equal(t, types.StatusFilled, sell.Status)
	assert.Equal(t, types.StatusFilled, buy.Status)

	bids, asks := book.Depth()
	assert.Zero(t, bids)
	assert.Zero(t, asks)
}

func TestPartialFillLeavesMakerResting(t *testing.T) {
	book := newTestBook(t)
	sell, _ := submit(t, book, types.SideSell, types.KindLimit, "50000", "2.0")

	buy, trades := submit(t, book, types.SideBuy, types.KindLimit, "50000", "1.0")

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(decimal.RequireFromString("1")))

	assert.Equal(t, types.StatusFilled, buy.Status)
	assert.Equal(t, types.StatusPartiallyFilled, sell.Status)
	assert.True(t, sell.FilledQuantity.Equal(decimal.RequireFromString("1")))
	assert.True(t, sell.Remaining().Equal(decimal.RequireFromString("1")))

	_, asks := book.Depth()
	assert.Equal(t, 1, asks)
}

func TestMarketOrderOnEmptyBookIsCancelled(t *testing.T) {
	book := newTestBook(t)

	buy, trades := submit(t, book, types.SideBuy, types.KindMarket, "0", "1.0")

	assert.Empty(t, trades)
	assert.Equal(t, types.StatusCancelled, buy.Status)
	assert.Equal(t, types.ReasonNoLiquidity, buy.Reason)

	bids, asks := book.Depth()
	assert.Zero(t, bids)
	assert.Zero(t, asks)
}

func TestBetterPriceWinsOverTimePriority(t *testing.T) {
	book := newTestBook(t)
	worse, _ := submit(t, book, types.SideBuy, types.KindLimit, "49000", "1.0")
	better, _ := submit(t, book, types.SideBuy, types.KindLimit, "50000", "1.0")

	_, trades := submit(t, book, types.SideSell, types.KindLimit, "49000", "1.0")

	require.Len(t, trades, 1)
	assert.Equal(t, better.ID, trades[0].MakerOrderID)
	assert.True(t, trades[0].Price.Equal(decimal.RequireFromString("50000")))
	assert.Equal(t, types.StatusOpen, worse.Status)
}

func TestMakerPriceWinsOnPriceImprovement(t *testing.T) {
	book := newTestBook(t)
	submit(t, book, types.SideSell, types.KindLimit, "49500", "1.0")

	// Buyer willing to pay 50000 still trades at the resting 49500.
	_, trades := submit(t, book, types.SideBuy, types.KindLimit, "50000", "1.0")

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(decimal.RequireFromString("49500")))
}

func TestTimePriorityWithinLevel(t *testing.T) {
	book := newTestBook(t)
	first, _ := submit(t, book, types.SideSell, types.KindLimit, "50000", "1.0")
	second, _ := submit(t, book, types.SideSell, types.KindLimit, "50000", "1.0")

	_, trades := submit(t, book, types.SideBuy, types.KindLimit, "50000", "1.0")

	require.Len(t, trades, 1)
	assert.Equal(t, first.ID, trades[0].MakerOrderID)
	assert.Equal(t, types.StatusFilled, first.Status)
	assert.Equal(t, types.StatusOpen, second.Status)
}

func TestTakerSweepsMultipleLevels(t *testing.T) {
	book := newTestBook(t)
	submit(t, book, types.SideSell, types.KindLimit, "50000", "1.0")
	submit(t, book, types.SideSell, types.KindLimit, "50100", "1.0")
	submit(t, book, types.SideSell, types.KindLimit, "50200", "1.0")

	buy, trades := submit(t, book, types.SideBuy, types.KindLimit, "50100", "3.0")

	// Only the two crossing levels fill; the remainder rests as a bid.
	require.Len(t, trades, 2)
	assert.True(t, trades[0].Price.Equal(decimal.RequireFromString("50000")))
	assert.True(t, trades[1].Price.Equal(decimal.RequireFromString("50100")))

	assert.Equal(t, types.StatusPartiallyFilled, buy.Status)
	assert.True(t, buy.Remaining().Equal(decimal.RequireFromString("1")))

	bids, asks := book.Depth()
	assert.Equal(t, 1, bids)
	assert.Equal(t, 1, asks)
}

func TestMarketOrderPartialFillCancelsRemainder(t *testing.T) {
	book := newTestBook(t)
	submit(t, book, types.SideBuy, types.KindLimit, "50000", "1.0")

	sell, trades := submit(t, book, types.SideSell, types.KindMarket, "0", "2.0")

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(decimal.RequireFromString("1")))
	assert.Equal(t, types.StatusCancelled, sell.Status)
	assert.Equal(t, types.ReasonNoLiquidity, sell.Reason)
	assert.True(t, sell.FilledQuantity.Equal(decimal.RequireFromString("1")))
}

func TestNonCrossingLimitsRestWithoutCrossedBook(t *testing.T) {
	book := newTestBook(t)
	submit(t, book, types.SideBuy, types.KindLimit, "49000", "1.0")
	sell, trades := submit(t, book, types.SideSell, types.KindLimit, "51000", "1.0")

	assert.Empty(t, trades)
	assert.Equal(t, types.StatusOpen, sell.Status)

	bestBid, bestAsk := book.Top()
	require.NotNil(t, bestBid)
	require.NotNil(t, bestAsk)
	assert.True(t, bestBid.Price.LessThan(bestAsk.Price))
}

func TestQuantityConservation(t *testing.T) {
	book := newTestBook(t)
	submit(t, book, types.SideSell, types.KindLimit, "50000", "0.7")
	submit(t, book, types.SideSell, types.KindLimit, "50050", "0.4")

	buy, trades := submit(t, book, types.SideBuy, types.KindLimit, "50100", "1.0")

	total := decimal.Zero
	for _, trade := range trades {
		total = total.Add(trade.Quantity)
	}
	assert.True(t, total.Equal(buy.FilledQuantity))
	assert.True(t, buy.FilledQuantity.Add(buy.Remaining()).Equal(buy.Quantity))
}

func TestCancelRestingOrder(t *testing.T) {
	book := newTestBook(t)
	order, _ := submit(t, book, types.SideBuy, types.KindLimit, "49000", "1.0")

	cancelled, err := book.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCancelled, cancelled.Status)
	assert.Equal(t, types.ReasonCancelledByRequest, cancelled.Reason)

	bids, _ := book.Depth()
	assert.Zero(t, bids)

	// Second cancel no longer finds the order on the book.
	_, err = book.Cancel(order.ID)
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func TestCancelUnknownOrder(t *testing.T) {
	book := newTestBook(t)
	_, err := book.Cancel(uuid.New())
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func TestSubmitWrongSymbol(t *testing.T) {
	book := newTestBook(t)
	order := types.NewOrder(
		uuid.New(), uuid.New(), "ETH-USD", types.SideBuy, types.KindLimit,
		decimal.NewFromInt(100), decimal.NewFromInt(1),
		time.Now(),
	)

	_, _, _, err := book.Submit(order)
	assert.ErrorIs(t, err, types.ErrSymbolMismatch)
}

func TestSubmitReturnsMakerSnapshots(t *testing.T) {
	book := newTestBook(t)
	submit(t, book, types.SideSell, types.KindLimit, "50000", "2.0")

	buyer := types.NewOrder(
		uuid.New(), uuid.New(), "BTC-USD", types.SideBuy, types.KindLimit,
		decimal.RequireFromString("50000"), decimal.RequireFromString("1.0"),
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
	_, _, makers, err := book.Submit(buyer)
	require.NoError(t, err)
	require.Len(t, makers, 1)
	assert.Equal(t, types.StatusPartiallyFilled, makers[0].Status)

	// A later fill against the same resting order must not reach back into
	// the snapshot handed out for the first one.
	submit(t, book, types.SideBuy, types.KindLimit, "50000", "1.0")

	assert.Equal(t, types.StatusPartiallyFilled, makers[0].Status)
	assert.True(t, makers[0].FilledQuantity.Equal(decimal.RequireFromString("1")))
}

func TestSubmitReturnsTakerSnapshot(t *testing.T) {
	book := newTestBook(t)

	resting := types.NewOrder(
		uuid.New(), uuid.New(), "BTC-USD", types.SideBuy, types.KindLimit,
		decimal.RequireFromString("50000"), decimal.RequireFromString("1.0"),
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
	taker, _, _, err := book.Submit(resting)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOpen, taker.Status)

	// Filling the resting order leaves the earlier snapshot untouched.
	submit(t, book, types.SideSell, types.KindLimit, "50000", "1.0")

	assert.Equal(t, types.StatusOpen, taker.Status)
	assert.True(t, taker.FilledQuantity.IsZero())
	assert.Equal(t, types.StatusFilled, resting.Status)
}
