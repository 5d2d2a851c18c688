package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/shopbot/core/logger"
)

const queryTimeout = 5 * time.Second

const (
	listProductsSQL  = `SELECT id, name, price FROM products ORDER BY id`
	getProductSQL    = `SELECT id, name, price, description, login, password FROM products WHERE id = $1`
	insertProductSQL = `INSERT INTO products (name, price, description, login, password) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

// SQLStore keeps products in Postgres.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open sqlx connection pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// List returns all products ordered by id.
func (s *SQLStore) List(ctx context.Context) ([]ProductSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	out := make([]ProductSummary, 0)
	if err := s.db.SelectContext(ctx, &out, listProductsSQL); err != nil {
		logFailure(ctx, "list", start, err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	logger.Debug(ctx, "service.catalog", "catalog.list",
		slog.String("status", "ok"),
		slog.Int("count", len(out)),
		slog.Duration("duration", logger.Took(start)),
	)
	return out, nil
}

// Get loads a single product with its credentials.
func (s *SQLStore) Get(ctx context.Context, id int64) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	var p Product
	if err := s.db.GetContext(ctx, &p, getProductSQL, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		logFailure(ctx, "get", start, err)
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// Insert stores a new product and returns its id.
func (s *SQLStore) Insert(ctx context.Context, p NewProduct) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	var id int64
	err := s.db.QueryRowxContext(ctx, insertProductSQL,
		p.Name, p.Price, p.Description, p.Login, p.Password,
	).Scan(&id)
	if err != nil {
		logFailure(ctx, "insert", start, err)
		return 0, fmt.Errorf("insert product: %w", err)
	}
	logger.Info(ctx, "service.catalog", "catalog.insert",
		slog.String("status", "ok"),
		slog.Int64("product_id", id),
		slog.Duration("duration", logger.Took(start)),
	)
	return id, nil
}

// Delete removes a product by id.
func (s *SQLStore) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.db.ExecContext(ctx, deleteProductSQL, id)
	if err != nil {
		logFailure(ctx, "delete", start, err)
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product %d: rows affected: %w", id, err)
	}
	logger.Info(ctx, "service.catalog", "catalog.delete",
		slog.String("status", "ok"),
		slog.Int64("product_id", id),
		slog.Bool("removed", n > 0),
		slog.Duration("duration", logger.Took(start)),
	)
	return n > 0, nil
}

func logFailure(ctx context.Context, op string, start time.Time, err error) {
	logger.Error(ctx, "service.catalog", "catalog."+op,
		slog.String("status", "fail"),
		slog.String("op", op),
		slog.String("err", err.Error()),
		slog.Duration("duration", logger.Took(start)),
	)
}
