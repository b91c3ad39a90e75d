package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exmatch/exchange/internal/storage"
	"github.com/exmatch/exchange/internal/types"
)

func storeOrder(symbol string, userID uuid.UUID, createdAt time.Time) *types.Order {
	order := types.NewOrder(
		uuid.New(), userID, symbol, types.SideBuy, types.KindLimit,
		decimal.NewFromInt(100), decimal.NewFromInt(1),
		createdAt,
	)
	order.Rest(createdAt)
	return order
}

func TestOrderStoreSaveGet(t *testing.T) {
	store := NewOrderStore(10)
	order := storeOrder("BTC-USD", uuid.New(), time.Now())

	require.NoError(t, store.Save(order))

	got, err := store.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = store.Get(uuid.New())
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func TestOrderStoreUpdate(t *testing.T) {
	store := NewOrderStore(10)
	order := storeOrder("BTC-USD", uuid.New(), time.Now())
	require.NoError(t, store.Save(order))

	require.NoError(t, order.Cancel(types.ReasonCancelledByRequest, time.Now()))
	require.NoError(t, store.Update(order))

	got, err := store.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCancelled, got.Status)

	unknown := storeOrder("BTC-USD", uuid.New(), time.Now())
	assert.ErrorIs(t, store.Update(unknown), types.ErrOrderNotFound)
}

func terminalOrder(symbol string, createdAt time.Time) *types.Order {
	order := storeOrder(symbol, uuid.New(), createdAt)
	_ = order.Cancel(types.ReasonCancelledByRequest, createdAt)
	return order
}

func TestOrderStoreEvictsOldestTerminal(t *testing.T) {
	store := NewOrderStore(2)
	resting := storeOrder("BTC-USD", uuid.New(), time.Now())
	oldDone := terminalOrder("BTC-USD", time.Now())
	newDone := terminalOrder("BTC-USD", time.Now())

	require.NoError(t, store.Save(resting))
	require.NoError(t, store.Save(oldDone))
	require.NoError(t, store.Save(newDone))

	// The resting order is older but still live; the oldest terminal order
	// goes instead.
	_, err := store.Get(oldDone.ID)
	assert.ErrorIs(t, err, types.ErrOrderNotFound)

	_, err = store.Get(resting.ID)
	assert.NoError(t, err)
	_, err = store.Get(newDone.ID)
	assert.NoError(t, err)
}

func TestOrderStoreNeverEvictsRestingOrders(t *testing.T) {
	store := NewOrderStore(2)
	orders := []*types.Order{
		storeOrder("BTC-USD", uuid.New(), time.Now()),
		storeOrder("BTC-USD", uuid.New(), time.Now()),
		storeOrder("BTC-USD", uuid.New(), time.Now()),
	}

	for _, order := range orders {
		require.NoError(t, store.Save(order))
	}

	// All live, so the store runs over its bound rather than dropping one.
	for _, order := range orders {
		_, err := store.Get(order.ID)
		assert.NoError(t, err)
	}

	// Once an old order goes terminal it becomes evictable again.
	require.NoError(t, orders[0].Cancel(types.ReasonCancelledByRequest, time.Now()))
	require.NoError(t, store.Update(orders[0]))
	require.NoError(t, store.Save(storeOrder("BTC-USD", uuid.New(), time.Now())))

	_, err := store.Get(orders[0].ID)
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func TestOrderStoreList(t *testing.T) {
	store := NewOrderStore(100)
	user := uuid.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	older := storeOrder("BTC-USD", user, base)
	newer := storeOrder("BTC-USD", uuid.New(), base.Add(time.Minute))
	eth := storeOrder("ETH-USD", user, base.Add(2*time.Minute))

	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))
	require.NoError(t, store.Save(eth))

	// Newest first across everything.
	all := store.List(storage.OrderFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, eth.ID, all[0].ID)
	assert.Equal(t, newer.ID, all[1].ID)
	assert.Equal(t, older.ID, all[2].ID)

	bySymbol := store.List(storage.OrderFilter{Symbol: "BTC-USD"})
	assert.Len(t, bySymbol, 2)

	byUser := store.List(storage.OrderFilter{UserID: user})
	assert.Len(t, byUser, 2)

	paged := store.List(storage.OrderFilter{Limit: 1, Offset: 1})
	require.Len(t, paged, 1)
	assert.Equal(t, newer.ID, paged[0].ID)

	pastEnd := store.List(storage.OrderFilter{Offset: 10})
	assert.Empty(t, pastEnd)
}
