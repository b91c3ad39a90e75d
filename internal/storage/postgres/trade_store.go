package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/exmatch/exchange/internal/types"
)

// TradeStore persists trades to PostgreSQL.
type TradeStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTradeStore creates a PostgreSQL-backed trade store.
func NewTradeStore(pool *pgxpool.Pool, timeout time.Duration) *TradeStore {
	return &TradeStore{
		pool:    pool,
		timeout: timeout,
	}
}

const tradeColumns = `
	trade_id::text, symbol, maker_order_id::text, taker_order_id::text,
	taker_side, price::text, quantity::text, executed_at`

const insertTrade = `
	INSERT INTO trades (
		trade_id, symbol, maker_order_id, taker_order_id,
		taker_side, price, quantity, executed_at
	) VALUES (
		$1::uuid, $2, $3::uuid, $4::uuid,
		$5, $6::numeric, $7::numeric, $8
	)
	ON CONFLICT (trade_id) DO NOTHING`

func (s *TradeStore) Save(trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertTrade, tradeArgs(trade)...)
	if err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	batch := &pgx.Batch{}
	for _, trade := range trades {
		batch.Queue(insertTrade, tradeArgs(trade)...)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range trades {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save trade batch: %w", err)
		}
	}
	return nil
}

func (s *TradeStore) GetByOrder(orderID uuid.UUID) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `SELECT ` + tradeColumns + ` FROM trades
		WHERE maker_order_id = $1::uuid OR taker_order_id = $1::uuid
		ORDER BY executed_at ASC, trade_id ASC`

	rows, err := s.pool.Query(ctx, query, orderID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get trades by order: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

func (s *TradeStore) GetRecent(symbol string, limit int) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var (
		rows pgx.Rows
		err  error
	)
	if symbol != "" {
		query := `SELECT ` + tradeColumns + ` FROM trades
			WHERE symbol = $1
			ORDER BY executed_at DESC, trade_id DESC LIMIT $2`
		rows, err = s.pool.Query(ctx, query, symbol, limit)
	} else {
		query := `SELECT ` + tradeColumns + ` FROM trades
			ORDER BY executed_at DESC, trade_id DESC LIMIT $1`
		rows, err = s.pool.Query(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recent trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

func (s *TradeStore) Close() error {
	// Pool is shared with the order store; the owner closes it.
	return nil
}

func tradeArgs(trade *types.Trade) []interface{} {
	return []interface{}{
		trade.ID.String(),
		trade.Symbol,
		trade.MakerOrderID.String(),
		trade.TakerOrderID.String(),
		string(trade.TakerSide),
		trade.Price.String(),
		trade.Quantity.String(),
		trade.ExecutedAt,
	}
}

func collectTrades(rows pgx.Rows) ([]*types.Trade, error) {
	var trades []*types.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trade rows: %w", err)
	}
	return trades, nil
}

func scanTrade(row rowScanner) (*types.Trade, error) {
	var (
		trade                    types.Trade
		idStr, makerStr, takerStr string
		sideStr                  string
		priceStr, qtyStr         string
	)
	err := row.Scan(
		&idStr, &trade.Symbol, &makerStr, &takerStr,
		&sideStr, &priceStr, &qtyStr, &trade.ExecutedAt,
	)
	if err != nil {
		return nil, err
	}

	if trade.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse trade id: %w", err)
	}
	if trade.MakerOrderID, err = uuid.Parse(makerStr); err != nil {
		return nil, fmt.Errorf("failed to parse maker order id: %w", err)
	}
	if trade.TakerOrderID, err = uuid.Parse(takerStr); err != nil {
		return nil, fmt.Errorf("failed to parse taker order id: %w", err)
	}
	if trade.Price, err = decimal.NewFromString(priceStr); err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	if trade.Quantity, err = decimal.NewFromString(qtyStr); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	trade.TakerSide = types.Side(sideStr)
	return &trade, nil
}
