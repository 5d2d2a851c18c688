// Package orders records purchases made through the simulated payment flow.
package orders

import (
	"context"
	"time"
)

// Status is the lifecycle step of an order.
type Status string

const (
	// StatusPending marks an order created at purchase confirmation.
	StatusPending Status = "pending"
	// StatusPaid marks an order whose simulated payment went through.
	StatusPaid Status = "paid"
)

// Order links a Telegram user to a product.
type Order struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ProductID int64     `db:"product_id"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store persists orders.
type Store interface {
	// Create inserts a pending order and returns its id.
	Create(ctx context.Context, userID, productID int64) (int64, error)
	// MarkPaid moves the user's latest pending order for the product to paid.
	// It reports false when no pending order exists.
	MarkPaid(ctx context.Context, userID, productID int64) (bool, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
}
