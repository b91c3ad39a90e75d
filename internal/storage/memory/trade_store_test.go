package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exmatch/exchange/internal/types"
)

func storeTrade(symbol string, maker, taker uuid.UUID, executedAt time.Time) *types.Trade {
	return &types.Trade{
		ID:           uuid.New(),
		Symbol:       symbol,
		MakerOrderID: maker,
		TakerOrderID: taker,
		TakerSide:    types.SideBuy,
		Price:        decimal.NewFromInt(50000),
		Quantity:     decimal.NewFromInt(1),
		ExecutedAt:   executedAt,
	}
}

func TestTradeStoreGetByOrder(t *testing.T) {
	store := NewTradeStore(100)
	maker := uuid.New()
	taker := uuid.New()
	now := time.Now()

	first := storeTrade("BTC-USD", maker, taker, now)
	second := storeTrade("BTC-USD", maker, uuid.New(), now.Add(time.Second))
	require.NoError(t, store.SaveBatch([]*types.Trade{first, second}))

	// Maker participated in both, taker only in the first; oldest first.
	makerTrades, err := store.GetByOrder(maker)
	require.NoError(t, err)
	require.Len(t, makerTrades, 2)
	assert.Equal(t, first.ID, makerTrades[0].ID)
	assert.Equal(t, second.ID, makerTrades[1].ID)

	takerTrades, err := store.GetByOrder(taker)
	require.NoError(t, err)
	require.Len(t, takerTrades, 1)

	none, err := store.GetByOrder(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTradeStoreGetRecent(t *testing.T) {
	store := NewTradeStore(100)
	now := time.Now()

	btc := storeTrade("BTC-USD", uuid.New(), uuid.New(), now)
	eth := storeTrade("ETH-USD", uuid.New(), uuid.New(), now.Add(time.Second))
	btc2 := storeTrade("BTC-USD", uuid.New(), uuid.New(), now.Add(2*time.Second))

	require.NoError(t, store.Save(btc))
	require.NoError(t, store.Save(eth))
	require.NoError(t, store.Save(btc2))

	// Newest first, all symbols.
	all, err := store.GetRecent("", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, btc2.ID, all[0].ID)

	onlyBTC, err := store.GetRecent("BTC-USD", 10)
	require.NoError(t, err)
	require.Len(t, onlyBTC, 2)
	assert.Equal(t, btc2.ID, onlyBTC[0].ID)
	assert.Equal(t, btc.ID, onlyBTC[1].ID)

	limited, err := store.GetRecent("", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTradeStoreEvictionTrimsIndex(t *testing.T) {
	store := NewTradeStore(1)
	maker := uuid.New()

	first := storeTrade("BTC-USD", maker, uuid.New(), time.Now())
	second := storeTrade("BTC-USD", maker, uuid.New(), time.Now())
	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	trades, err := store.GetByOrder(maker)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, second.ID, trades[0].ID)
}
