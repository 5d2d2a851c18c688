// Package catalog stores the products offered by the shop.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a product id has no row.
var ErrNotFound = errors.New("catalog: product not found")

// Product is a sellable item together with the credentials handed out on payment.
type Product struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Price       int64  `db:"price"`
	Description string `db:"description"`
	Login       string `db:"login"`
	Password    string `db:"password"`
}

// ProductSummary is the projection used by catalog and admin listings.
type ProductSummary struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Price int64  `db:"price"`
}

// NewProduct carries the fields of a product that is about to be inserted.
type NewProduct struct {
	Name        string
	Price       int64
	Description string
	Login       string
	Password    string
}

// Store is the product repository used by the shop workflow.
type Store interface {
	// List returns products in insertion order.
	List(ctx context.Context) ([]ProductSummary, error)
	// Get returns ErrNotFound when the id does not exist.
	Get(ctx context.Context, id int64) (Product, error)
	Insert(ctx context.Context, p NewProduct) (int64, error)
	// Delete reports whether a row was removed. A missing id is not an error.
	Delete(ctx context.Context, id int64) (bool, error)
}
