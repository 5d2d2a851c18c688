package shop

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/shopbot/core/telegram/state"
)

// CommandStart is the only slash command the shop answers.
const CommandStart = "start"

// Fixed action tokens.
const (
	TokenMainMenu      = "main_menu"
	TokenCatalog       = "catalog"
	TokenAdminPanel    = "admin_panel"
	TokenAddProduct    = "add_product"
	TokenDeleteProduct = "delete_product"
	TokenListProducts  = "list_products"
)

const (
	prefixBuy = "buy_"
	prefixPay = "pay_"
)

// BuyToken returns the action token that starts a purchase of product id.
func BuyToken(id int64) string { return prefixBuy + strconv.FormatInt(id, 10) }

// PayToken returns the action token that confirms payment of product id.
func PayToken(id int64) string { return prefixPay + strconv.FormatInt(id, 10) }

// RouteKind enumerates every handler of the shop.
type RouteKind int

const (
	RouteUnknown RouteKind = iota
	RouteStart
	RouteMainMenu
	RouteCatalog
	RouteAdminPanel
	RouteAddProduct
	RouteDeleteProduct
	RouteListProducts
	RouteBuy
	RoutePay
	RouteAddProductFinish
	RouteDeleteProductFinish
	RouteIdleText

	routeKindCount
)

var routeNames = [routeKindCount]string{
	RouteUnknown:             "unknown",
	RouteStart:               "start",
	RouteMainMenu:            TokenMainMenu,
	RouteCatalog:             TokenCatalog,
	RouteAdminPanel:          TokenAdminPanel,
	RouteAddProduct:          TokenAddProduct,
	RouteDeleteProduct:       TokenDeleteProduct,
	RouteListProducts:        TokenListProducts,
	RouteBuy:                 "buy",
	RoutePay:                 "pay",
	RouteAddProductFinish:    "add_product_finish",
	RouteDeleteProductFinish: "delete_product_finish",
	RouteIdleText:            "idle_text",
}

func (k RouteKind) String() string {
	if k < 0 || k >= routeKindCount {
		return "invalid"
	}
	return routeNames[k]
}

// Route is the resolved handler for one event.
type Route struct {
	Kind RouteKind
	// ProductID is set for RouteBuy and RoutePay.
	ProductID int64
	// Body is the free text for the finish routes.
	Body string
}

var fixedActions = map[string]RouteKind{
	TokenMainMenu:      RouteMainMenu,
	TokenCatalog:       RouteCatalog,
	TokenAdminPanel:    RouteAdminPanel,
	TokenAddProduct:    RouteAddProduct,
	TokenDeleteProduct: RouteDeleteProduct,
	TokenListProducts:  RouteListProducts,
}

// Resolve picks the handler for ev. Commands and actions route by their key;
// text routes only by the sender's conversation state st.
func Resolve(ev Event, st state.State) (Route, error) {
	switch ev.Kind {
	case EventCommand:
		if strings.TrimPrefix(ev.Key, "/") == CommandStart {
			return Route{Kind: RouteStart}, nil
		}
		return Route{Kind: RouteUnknown}, nil
	case EventAction:
		return resolveAction(ev.Key)
	case EventText:
		switch st {
		case StateAwaitingProductData:
			return Route{Kind: RouteAddProductFinish, Body: ev.Body}, nil
		case StateAwaitingProductDeleteID:
			return Route{Kind: RouteDeleteProductFinish, Body: ev.Body}, nil
		default:
			return Route{Kind: RouteIdleText, Body: ev.Body}, nil
		}
	}
	return Route{Kind: RouteUnknown}, nil
}

func resolveAction(token string) (Route, error) {
	if kind, ok := fixedActions[token]; ok {
		return Route{Kind: kind}, nil
	}
	switch {
	case strings.HasPrefix(token, prefixBuy):
		id, err := parseTokenID(token, prefixBuy)
		if err != nil {
			return Route{Kind: RouteUnknown}, err
		}
		return Route{Kind: RouteBuy, ProductID: id}, nil
	case strings.HasPrefix(token, prefixPay):
		id, err := parseTokenID(token, prefixPay)
		if err != nil {
			return Route{Kind: RouteUnknown}, err
		}
		return Route{Kind: RoutePay, ProductID: id}, nil
	}
	return Route{Kind: RouteUnknown}, nil
}

// parseTokenID accepts only plain decimal digits after the prefix.
func parseTokenID(token, prefix string) (int64, error) {
	suffix := strings.TrimPrefix(token, prefix)
	if suffix == "" || strings.IndexFunc(suffix, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedToken, token)
	}
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedToken, token)
	}
	return id, nil
}
