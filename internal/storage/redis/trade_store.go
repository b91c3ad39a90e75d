package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/exmatch/exchange/internal/types"
)

const (
	orderTradesPrefix  = "order_trades:"
	recentTradesKey    = "trades:recent"
	symbolTradesPrefix = "trades:recent:"
)

// TradeStore implements storage.TradeStore on Redis. Trades append to a
// per-order list for each participant plus capped recent lists, one global
// and one per symbol.
type TradeStore struct {
	client    *redis.Client
	tradeTTL  time.Duration
	maxTrades int
}

// NewTradeStore creates a Redis-backed trade store.
func NewTradeStore(cfg Config) (*TradeStore, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &TradeStore{
		client:    client,
		tradeTTL:  cfg.OrderTTL,
		maxTrades: cfg.MaxTrades,
	}, nil
}

func (s *TradeStore) Save(trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pipe := s.client.Pipeline()
	if err := s.queueTrade(ctx, pipe, trade); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pipe := s.client.Pipeline()
	for _, trade := range trades {
		if err := s.queueTrade(ctx, pipe, trade); err != nil {
			return err
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *TradeStore) queueTrade(ctx context.Context, pipe redis.Pipeliner, trade *types.Trade) error {
	data, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}

	// Per-participant history, oldest first.
	for _, orderID := range []uuid.UUID{trade.MakerOrderID, trade.TakerOrderID} {
		key := orderTradesPrefix + orderID.String()
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, s.tradeTTL)
	}

	// Capped recent lists, newest first.
	for _, key := range []string{recentTradesKey, symbolTradesPrefix + trade.Symbol} {
		pipe.LPush(ctx, key, data)
		if s.maxTrades > 0 {
			pipe.LTrim(ctx, key, 0, int64(s.maxTrades-1))
		}
		pipe.Expire(ctx, key, s.tradeTTL)
	}
	return nil
}

func (s *TradeStore) GetByOrder(orderID uuid.UUID) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	items, err := s.client.LRange(ctx, orderTradesPrefix+orderID.String(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return decodeTrades(items, 0)
}

func (s *TradeStore) GetRecent(symbol string, limit int) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := recentTradesKey
	if symbol != "" {
		key = symbolTradesPrefix + symbol
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	items, err := s.client.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return decodeTrades(items, limit)
}

func (s *TradeStore) Close() error {
	return s.client.Close()
}

func decodeTrades(items []string, limit int) ([]*types.Trade, error) {
	var trades []*types.Trade
	for _, item := range items {
		var trade types.Trade
		if err := json.Unmarshal([]byte(item), &trade); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trade: %w", err)
		}
		trades = append(trades, &trade)
		if limit > 0 && len(trades) >= limit {
			break
		}
	}
	return trades, nil
}
