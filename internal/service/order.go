package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dskcredit/internal/model"
)

var ErrOrderNotFound = errors.New("credit order not found")

const defaultListLimit = 100

// OrderStore keeps one status row per merchant order. Both the checkout
// path and the bank callback write to it, possibly at the same time, so
// every write is a single statement keyed on the unique order_id.
type OrderStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts the order or, if it already exists, overwrites its status.
func (s *OrderStore) Create(ctx context.Context, orderID int64, status int) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credit_orders (order_id, order_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO UPDATE
		SET order_status = EXCLUDED.order_status, updated_at = EXCLUDED.updated_at
	`, orderID, status, now, now)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, orderID int64, status int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE credit_orders SET order_status = $1, updated_at = $2 WHERE order_id = $3`,
		status, s.now(), orderID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *OrderStore) Get(ctx context.Context, orderID int64) (*model.Order, error) {
	var o model.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT order_id, order_status, created_at, updated_at
		FROM credit_orders
		WHERE order_id = $1
	`, orderID).Scan(&o.OrderID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (s *OrderStore) GetStatus(ctx context.Context, orderID int64) (int, error) {
	var status int
	err := s.db.QueryRowContext(ctx,
		`SELECT order_status FROM credit_orders WHERE order_id = $1`, orderID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrOrderNotFound
		}
		return 0, fmt.Errorf("get status: %w", err)
	}
	return status, nil
}

// StatusLabel returns "" for unknown orders.
func (s *OrderStore) StatusLabel(ctx context.Context, orderID int64) (string, error) {
	status, err := s.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return "", nil
		}
		return "", err
	}
	return model.StatusLabel(status), nil
}

func (s *OrderStore) Exists(ctx context.Context, orderID int64) (bool, error) {
	_, err := s.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *OrderStore) Delete(ctx context.Context, orderID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM credit_orders WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListByStatus returns the most recently updated orders in status.
func (s *OrderStore) ListByStatus(ctx context.Context, status, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, order_status, created_at, updated_at
		FROM credit_orders
		WHERE order_status = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.OrderID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, nil
}

func (s *OrderStore) CountByStatus(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT order_status, COUNT(*) FROM credit_orders GROUP BY order_status`)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var status, n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return counts, nil
}
