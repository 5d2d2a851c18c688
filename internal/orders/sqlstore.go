package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/shopbot/core/logger"
)

const queryTimeout = 5 * time.Second

const (
	createOrderSQL = `INSERT INTO orders (user_id, product_id, status) VALUES ($1, $2, $3) RETURNING id`
	// Only the newest pending row of the pair is touched.
	markPaidSQL = `UPDATE orders SET status = $3, updated_at = NOW()
WHERE id = (
	SELECT id FROM orders
	WHERE user_id = $1 AND product_id = $2 AND status = $4
	ORDER BY id DESC LIMIT 1
	FOR UPDATE
)`
	listByUserSQL = `SELECT id, user_id, product_id, status, created_at, updated_at FROM orders WHERE user_id = $1 ORDER BY id DESC`
)

// SQLStore keeps orders in Postgres.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open sqlx connection pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a pending order.
func (s *SQLStore) Create(ctx context.Context, userID, productID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	var id int64
	if err := s.db.QueryRowxContext(ctx, createOrderSQL, userID, productID, string(StatusPending)).Scan(&id); err != nil {
		logger.Error(ctx, "service.orders", "orders.create",
			slog.String("status", "fail"),
			slog.Int64("product_id", productID),
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("create order: %w", err)
	}
	logger.Info(ctx, "service.orders", "orders.create",
		slog.String("status", "ok"),
		slog.Int64("order_id", id),
		slog.Int64("product_id", productID),
		slog.Duration("duration", logger.Took(start)),
	)
	return id, nil
}

// MarkPaid flips the newest pending order of the user for the product.
func (s *SQLStore) MarkPaid(ctx context.Context, userID, productID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.db.ExecContext(ctx, markPaidSQL, userID, productID, string(StatusPaid), string(StatusPending))
	if err != nil {
		logger.Error(ctx, "service.orders", "orders.mark_paid",
			slog.String("status", "fail"),
			slog.Int64("product_id", productID),
			slog.String("err", err.Error()),
		)
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark order paid: rows affected: %w", err)
	}
	logger.Info(ctx, "service.orders", "orders.mark_paid",
		slog.String("status", "ok"),
		slog.Int64("product_id", productID),
		slog.Bool("updated", n > 0),
		slog.Duration("duration", logger.Took(start)),
	)
	return n > 0, nil
}

// ListByUser returns orders of one user.
func (s *SQLStore) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out := make([]Order, 0)
	if err := s.db.SelectContext(ctx, &out, listByUserSQL, userID); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}
