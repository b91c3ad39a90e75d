package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/exmatch/exchange/internal/storage"
	"github.com/exmatch/exchange/internal/types"
)

// OrderStore persists orders to PostgreSQL. Decimal columns are NUMERIC and
// are always read back as text so no precision is lost crossing the driver.
type OrderStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewOrderStore creates a PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool, timeout time.Duration) *OrderStore {
	return &OrderStore{
		pool:    pool,
		timeout: timeout,
	}
}

const orderColumns = `
	order_id::text, user_id::text, symbol, side, order_type,
	price::text, quantity::text, filled_quantity::text,
	status, reason, created_at, updated_at`

func (s *OrderStore) Save(order *types.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `
		INSERT INTO orders (
			order_id, user_id, symbol, side, order_type,
			price, quantity, filled_quantity, status, reason,
			created_at, updated_at
		) VALUES (
			$1::uuid, $2::uuid, $3, $4, $5,
			$6::numeric, $7::numeric, $8::numeric, $9, $10,
			$11, $12
		)
		ON CONFLICT (order_id) DO UPDATE SET
			filled_quantity = EXCLUDED.filled_quantity,
			status          = EXCLUDED.status,
			reason          = EXCLUDED.reason,
			updated_at      = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		order.ID.String(),
		order.UserID.String(),
		order.Symbol,
		string(order.Side),
		string(order.Kind),
		order.Price.String(),
		order.Quantity.String(),
		order.FilledQuantity.String(),
		string(order.Status),
		order.Reason,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (s *OrderStore) Get(orderID uuid.UUID) (*types.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1::uuid`

	row := s.pool.QueryRow(ctx, query, orderID.String())
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *OrderStore) Update(order *types.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `
		UPDATE orders SET
			filled_quantity = $2::numeric,
			status          = $3,
			reason          = $4,
			updated_at      = $5
		WHERE order_id = $1::uuid`

	tag, err := s.pool.Exec(ctx, query,
		order.ID.String(),
		order.FilledQuantity.String(),
		string(order.Status),
		order.Reason,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrOrderNotFound
	}
	return nil
}

func (s *OrderStore) List(filter storage.OrderFilter) []*types.Order {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders`
	var (
		conds []string
		args  []interface{}
	)
	if filter.Symbol != "" {
		args = append(args, filter.Symbol)
		conds = append(conds, "symbol = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.UserID != uuid.Nil {
		args = append(args, filter.UserID.String())
		conds = append(conds, "user_id = $"+strconv.Itoa(len(args))+"::uuid")
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC, order_id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var orders []*types.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil
		}
		orders = append(orders, order)
	}
	return orders
}

func (s *OrderStore) Close() error {
	// Pool is shared with the trade store; the owner closes it.
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*types.Order, error) {
	var (
		order                       types.Order
		idStr, userStr              string
		sideStr, kindStr, statusStr string
		priceStr, qtyStr, filledStr string
	)
	err := row.Scan(
		&idStr, &userStr, &order.Symbol, &sideStr, &kindStr,
		&priceStr, &qtyStr, &filledStr,
		&statusStr, &order.Reason, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if order.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse order id: %w", err)
	}
	if order.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	if order.Price, err = decimal.NewFromString(priceStr); err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	if order.Quantity, err = decimal.NewFromString(qtyStr); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if order.FilledQuantity, err = decimal.NewFromString(filledStr); err != nil {
		return nil, fmt.Errorf("failed to parse filled quantity: %w", err)
	}
	order.Side = types.Side(sideStr)
	order.Kind = types.OrderKind(kindStr)
	order.Status = types.OrderStatus(statusStr)
	return &order, nil
}
