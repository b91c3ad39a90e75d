package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/exmatch/exchange/internal/storage"
	"github.com/exmatch/exchange/internal/types"
)

// OrderStore implements storage.OrderStore using an in-memory map with FIFO
// eviction of terminal orders. Thread-safe via RWMutex. When maxSize is
// reached, the oldest filled, cancelled or rejected order is evicted to keep
// the working set bounded.
type OrderStore struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*types.Order
	orderIDs []uuid.UUID // FIFO queue for eviction
	maxSize  int
}

// NewOrderStore creates an in-memory order store with a size limit.
func NewOrderStore(maxSize int) *OrderStore {
	return &OrderStore{
		orders:   make(map[uuid.UUID]*types.Order),
		orderIDs: make([]uuid.UUID, 0, maxSize),
		maxSize:  maxSize,
	}
}

func (s *OrderStore) Save(order *types.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; !exists {
		s.orderIDs = append(s.orderIDs, order.ID)

		if s.maxSize > 0 && len(s.orderIDs) > s.maxSize {
			s.evictOldestTerminal()
		}
	}

	s.orders[order.ID] = order
	return nil
}

// evictOldestTerminal drops the oldest order that can no longer change.
// Resting orders are never evicted: the book still references them, and a
// later cancel or maker update must find them here. When every order is
// still live the store runs over its bound until fills catch up.
func (s *OrderStore) evictOldestTerminal() {
	for i, id := range s.orderIDs {
		order, exists := s.orders[id]
		if !exists || order.IsTerminal() {
			delete(s.orders, id)
			s.orderIDs = append(s.orderIDs[:i], s.orderIDs[i+1:]...)
			return
		}
	}
}

func (s *OrderStore) Get(orderID uuid.UUID) (*types.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[orderID]
	if !exists {
		return nil, types.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderStore) Update(order *types.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; !exists {
		return types.ErrOrderNotFound
	}
	s.orders[order.ID] = order
	return nil
}

func (s *OrderStore) List(filter storage.OrderFilter) []*types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*types.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filter.Symbol != "" && order.Symbol != filter.Symbol {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.UserID != uuid.Nil && order.UserID != filter.UserID {
			continue
		}
		matched = append(matched, order)
	}

	// Newest first, then id for a stable order between equal timestamps.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*types.Order{}
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched
}

func (s *OrderStore) Close() error {
	return nil
}
