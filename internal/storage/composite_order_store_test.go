package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exmatch/exchange/internal/types"
)

// fakeOrderStore is a minimal in-process store for composite wiring tests.
type fakeOrderStore struct {
	orders  map[uuid.UUID]*types.Order
	saveErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[uuid.UUID]*types.Order{}}
}

func (f *fakeOrderStore) Save(order *types.Order) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) Get(orderID uuid.UUID) (*types.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, types.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) Update(order *types.Order) error {
	return f.Save(order)
}

func (f *fakeOrderStore) List(OrderFilter) []*types.Order {
	out := make([]*types.Order, 0, len(f.orders))
	for _, order := range f.orders {
		out = append(out, order)
	}
	return out
}

func (f *fakeOrderStore) Close() error { return nil }

func compositeOrder() *types.Order {
	return types.NewOrder(
		uuid.New(), uuid.New(), "BTC-USD", types.SideBuy, types.KindLimit,
		decimal.NewFromInt(100), decimal.NewFromInt(1),
		time.Now(),
	)
}

func TestCompositeOrderStoreWriteThrough(t *testing.T) {
	primary := newFakeOrderStore()
	secondary := newFakeOrderStore()
	composite := NewCompositeOrderStore(primary, secondary)

	order := compositeOrder()
	require.NoError(t, composite.Save(order))

	_, err := primary.Get(order.ID)
	assert.NoError(t, err)
	_, err = secondary.Get(order.ID)
	assert.NoError(t, err)
}

func TestCompositeOrderStoreFirstReadWins(t *testing.T) {
	primary := newFakeOrderStore()
	secondary := newFakeOrderStore()
	composite := NewCompositeOrderStore(primary, secondary)

	// Present only in the fallback layer.
	order := compositeOrder()
	require.NoError(t, secondary.Save(order))

	got, err := composite.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = composite.Get(uuid.New())
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func TestCompositeOrderStoreSaveReportsLastError(t *testing.T) {
	primary := newFakeOrderStore()
	failing := newFakeOrderStore()
	failing.saveErr = errors.New("backend down")
	composite := NewCompositeOrderStore(primary, failing)

	order := compositeOrder()
	err := composite.Save(order)
	assert.Error(t, err)

	// The healthy layer still has the write.
	_, getErr := primary.Get(order.ID)
	assert.NoError(t, getErr)
}
