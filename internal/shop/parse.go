package shop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/shopbot/internal/catalog"
)

// productFields is the number of |-separated values in the add-product message:
// name | price | description | login | password.
const productFields = 5

func parseNewProduct(body string) (catalog.NewProduct, error) {
	parts := strings.Split(body, "|")
	if len(parts) != productFields {
		return catalog.NewProduct{}, invalid(TokenAddProduct, "input",
			fmt.Errorf("expected %d fields separated by |, got %d", productFields, len(parts)))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[0] == "" {
		return catalog.NewProduct{}, invalid(TokenAddProduct, "name", errors.New("must not be empty"))
	}
	price, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return catalog.NewProduct{}, invalid(TokenAddProduct, "price", fmt.Errorf("%q is not an integer", parts[1]))
	}
	if price < 0 {
		return catalog.NewProduct{}, invalid(TokenAddProduct, "price", errors.New("must not be negative"))
	}

	return catalog.NewProduct{
		Name:        parts[0],
		Price:       price,
		Description: parts[2],
		Login:       parts[3],
		Password:    parts[4],
	}, nil
}

func parseProductID(body string) (int64, error) {
	raw := strings.TrimSpace(body)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalid(TokenDeleteProduct, "id", fmt.Errorf("%q is not an integer", raw))
	}
	return id, nil
}
