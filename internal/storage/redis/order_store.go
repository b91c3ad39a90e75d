package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/exmatch/exchange/internal/storage"
	"github.com/exmatch/exchange/internal/types"
)

const (
	orderKeyPrefix    = "order:"
	userOrdersPrefix  = "user_orders:"
	ordersTimelineKey = "orders:timeline" // sorted set for newest-first reads and FIFO trimming
)

// OrderStore implements storage.OrderStore on Redis. Orders are stored as
// JSON blobs with a timeline sorted set providing newest-first ordering and
// FIFO eviction.
type OrderStore struct {
	client    *redis.Client
	orderTTL  time.Duration
	maxOrders int
}

// NewOrderStore creates a Redis-backed order store.
func NewOrderStore(cfg Config) (*OrderStore, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &OrderStore{
		client:    client,
		orderTTL:  cfg.OrderTTL,
		maxOrders: cfg.MaxOrders,
	}, nil
}

func (s *OrderStore) Save(order *types.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	pipe := s.client.Pipeline()

	orderKey := orderKeyPrefix + order.ID.String()
	pipe.Set(ctx, orderKey, data, s.orderTTL)

	// User index for filtered listing.
	userKey := userOrdersPrefix + order.UserID.String()
	pipe.SAdd(ctx, userKey, order.ID.String())
	pipe.Expire(ctx, userKey, s.orderTTL)

	// Timeline sorted set, score = creation timestamp.
	pipe.ZAdd(ctx, ordersTimelineKey, redis.Z{
		Score:  float64(order.CreatedAt.UnixNano()),
		Member: order.ID.String(),
	})

	if s.maxOrders > 0 {
		pipe.ZRemRangeByRank(ctx, ordersTimelineKey, 0, int64(-s.maxOrders-1))
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (s *OrderStore) Get(orderID uuid.UUID) (*types.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, orderKeyPrefix+orderID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	var order types.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

func (s *OrderStore) Update(order *types.Order) error {
	// Upsert, same as save.
	return s.Save(order)
}

func (s *OrderStore) List(filter storage.OrderFilter) []*types.Order {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		ids []string
		err error
	)
	if filter.UserID != uuid.Nil {
		ids, err = s.client.SMembers(ctx, userOrdersPrefix+filter.UserID.String()).Result()
	} else {
		// Newest first.
		ids, err = s.client.ZRevRange(ctx, ordersTimelineKey, 0, -1).Result()
	}
	if err != nil || len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = orderKeyPrefix + id
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil
	}

	var orders []*types.Order
	for _, result := range results {
		data, ok := result.(string)
		if !ok {
			continue
		}

		var order types.Order
		if err := json.Unmarshal([]byte(data), &order); err != nil {
			continue
		}
		if filter.Symbol != "" && order.Symbol != filter.Symbol {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.UserID != uuid.Nil && order.UserID != filter.UserID {
			continue
		}
		orders = append(orders, &order)
	}

	if filter.UserID != uuid.Nil {
		sortOrdersNewestFirst(orders)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(orders) {
			return nil
		}
		orders = orders[filter.Offset:]
	}
	if filter.Limit > 0 && len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
	}
	return orders
}

func (s *OrderStore) Close() error {
	return s.client.Close()
}

// sortOrdersNewestFirst orders by creation time descending with the id as a
// tie break, matching the memory store's List ordering.
func sortOrdersNewestFirst(orders []*types.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID.String() > orders[j].ID.String()
	})
}
