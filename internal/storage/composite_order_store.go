package storage

import (
	"github.com/google/uuid"

	"github.com/exmatch/exchange/internal/types"
)

// CompositeOrderStore layers multiple OrderStore implementations.
// Writes go to ALL stores (write-through); reads come from the FIRST store
// that succeeds. Example: [memory, redis, postgres] writes to all three and
// reads from memory, falling back to redis, then postgres.
type CompositeOrderStore struct {
	stores []OrderStore
}

// NewCompositeOrderStore creates a composite store from multiple stores.
func NewCompositeOrderStore(stores ...OrderStore) *CompositeOrderStore {
	return &CompositeOrderStore{stores: stores}
}

func (c *CompositeOrderStore) Save(order *types.Order) error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Save(order); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeOrderStore) Get(orderID uuid.UUID) (*types.Order, error) {
	for _, store := range c.stores {
		order, err := store.Get(orderID)
		if err == nil && order != nil {
			return order, nil
		}
	}
	return nil, types.ErrOrderNotFound
}

func (c *CompositeOrderStore) Update(order *types.Order) error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Update(order); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeOrderStore) List(filter OrderFilter) []*types.Order {
	for _, store := range c.stores {
		orders := store.List(filter)
		if len(orders) > 0 {
			return orders
		}
	}
	return []*types.Order{}
}

func (c *CompositeOrderStore) Close() error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
