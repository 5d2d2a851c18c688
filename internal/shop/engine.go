// Package shop implements the storefront conversation: routing of commands,
// button actions and free-text replies, and the catalog/order workflow behind them.
package shop

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/shopbot/core/logger"
	"github.com/m3rciful/shopbot/core/telegram/state"
	"github.com/m3rciful/shopbot/internal/catalog"
	"github.com/m3rciful/shopbot/internal/orders"
)

// Config is the immutable configuration of the engine.
type Config struct {
	AdminID int64
}

// Engine handles one inbound event at a time per call; it is safe for concurrent use.
type Engine struct {
	gate     Gate
	products catalog.Store
	orders   orders.Store
	states   state.Store
}

// NewEngine wires the engine to its stores.
func NewEngine(cfg Config, products catalog.Store, ord orders.Store, states state.Store) *Engine {
	return &Engine{
		gate:     NewGate(cfg.AdminID),
		products: products,
		orders:   ord,
		states:   states,
	}
}

// Gate returns the authorization gate used by the engine.
func (e *Engine) Gate() Gate { return e.gate }

// Handle routes ev to exactly one handler and returns what to show the user.
// The returned error is for logging only; the Response already reflects it.
//
// For text events the sender's state is taken before routing, so an awaiting
// state is always back to idle once its input has been handled.
func (e *Engine) Handle(ctx context.Context, ev Event) (Response, error) {
	st := state.StateIdle
	if ev.Kind == EventText {
		st = e.states.Take(ev.UserID)
	}

	rt, err := Resolve(ev, st)
	if err != nil {
		logger.Warn(ctx, "shop", "route.rejected",
			slog.String("kind", ev.Kind.String()),
			slog.String("cb_key", logger.SanitizeLimit(ev.Key, 64)),
			slog.String("err", err.Error()),
		)
		return notice(textUnsupported), invalid("route", "token", err)
	}

	switch rt.Kind {
	case RouteStart:
		return e.start(ev)
	case RouteMainMenu:
		return e.mainMenu(ev)
	case RouteCatalog:
		return e.showCatalog(ctx)
	case RouteAdminPanel:
		return e.adminPanel(ctx, ev)
	case RouteAddProduct:
		return e.addProductStart(ctx, ev)
	case RouteDeleteProduct:
		return e.deleteProductStart(ctx, ev)
	case RouteListProducts:
		return e.listProducts(ctx, ev)
	case RouteBuy:
		return e.buy(ctx, ev, rt.ProductID)
	case RoutePay:
		return e.pay(ctx, ev, rt.ProductID)
	case RouteAddProductFinish:
		return e.addProductFinish(ctx, ev, rt.Body)
	case RouteDeleteProductFinish:
		return e.deleteProductFinish(ctx, ev, rt.Body)
	case RouteIdleText:
		return send(textIdleHint), nil
	case RouteUnknown:
		return notice(textUnsupported), nil
	}
	return notice(textUnsupported), nil
}

func (e *Engine) start(ev Event) (Response, error) {
	return send(textWelcome, mainMenuActions(e.gate.IsAdmin(ev.UserID))...), nil
}

func (e *Engine) mainMenu(ev Event) (Response, error) {
	return edit(textMainMenu, mainMenuActions(e.gate.IsAdmin(ev.UserID))...), nil
}

func (e *Engine) showCatalog(ctx context.Context) (Response, error) {
	items, err := e.products.List(ctx)
	if err != nil {
		return notice(textStorageFailed), storageFailure(TokenCatalog, err)
	}
	if len(items) == 0 {
		return edit(textEmptyCatalog, actionBackToMain), nil
	}
	return edit(textChooseProduct, catalogActions(items)...), nil
}

// admit applies the gate; the denial is a notice and leaves all state untouched.
func (e *Engine) admit(ctx context.Context, ev Event, op string) (Response, error) {
	if e.gate.IsAdmin(ev.UserID) {
		return Response{}, nil
	}
	logger.Warn(ctx, "shop", "admin.denied",
		slog.String("op", op),
		slog.Int64("user_id", ev.UserID),
	)
	return notice(textDenied), denied(op)
}

func (e *Engine) adminPanel(ctx context.Context, ev Event) (Response, error) {
	if resp, err := e.admit(ctx, ev, TokenAdminPanel); err != nil {
		return resp, err
	}
	return edit(textAdminPanel, adminActions...), nil
}

func (e *Engine) addProductStart(ctx context.Context, ev Event) (Response, error) {
	if resp, err := e.admit(ctx, ev, TokenAddProduct); err != nil {
		return resp, err
	}
	e.states.Set(ev.UserID, StateAwaitingProductData)
	return edit(textAddProduct), nil
}

func (e *Engine) deleteProductStart(ctx context.Context, ev Event) (Response, error) {
	if resp, err := e.admit(ctx, ev, TokenDeleteProduct); err != nil {
		return resp, err
	}
	e.states.Set(ev.UserID, StateAwaitingProductDeleteID)
	return edit(textDeleteProduct), nil
}

func (e *Engine) listProducts(ctx context.Context, ev Event) (Response, error) {
	if resp, err := e.admit(ctx, ev, TokenListProducts); err != nil {
		return resp, err
	}
	items, err := e.products.List(ctx)
	if err != nil {
		return notice(textStorageFailed), storageFailure(TokenListProducts, err)
	}
	if len(items) == 0 {
		return notice(textNoProducts), nil
	}
	return edit(adminListText(items), adminActions...), nil
}

func (e *Engine) addProductFinish(ctx context.Context, ev Event, body string) (Response, error) {
	if !e.gate.IsAdmin(ev.UserID) {
		return send(textDenied), denied(TokenAddProduct)
	}
	p, err := parseNewProduct(body)
	if err != nil {
		var se *Error
		errors.As(err, &se)
		return send(validationText(se)), err
	}
	id, err := e.products.Insert(ctx, p)
	if err != nil {
		return send(textStorageFailed), storageFailure(TokenAddProduct, err)
	}
	logger.Info(ctx, "shop", "product.added",
		slog.String("status", "ok"),
		slog.Int64("product_id", id),
		slog.Int64("price", p.Price),
	)
	return send(textProductAdded, actionAdminPanel), nil
}

func (e *Engine) deleteProductFinish(ctx context.Context, ev Event, body string) (Response, error) {
	if !e.gate.IsAdmin(ev.UserID) {
		return send(textDenied), denied(TokenDeleteProduct)
	}
	id, err := parseProductID(body)
	if err != nil {
		var se *Error
		errors.As(err, &se)
		return send(validationText(se)), err
	}
	removed, err := e.products.Delete(ctx, id)
	if err != nil {
		return send(textStorageFailed), storageFailure(TokenDeleteProduct, err)
	}
	// A missing id is still reported as deleted.
	logger.Info(ctx, "shop", "product.deleted",
		slog.String("status", "ok"),
		slog.Int64("product_id", id),
		slog.Bool("removed", removed),
	)
	return send(textProductGone, actionAdminPanel), nil
}

func (e *Engine) lookup(ctx context.Context, op string, id int64) (catalog.Product, Response, error) {
	p, err := e.products.Get(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return catalog.Product{}, notice(textNotFound), notFound(op, err)
	case err != nil:
		return catalog.Product{}, notice(textStorageFailed), storageFailure(op, err)
	}
	return p, Response{}, nil
}

func (e *Engine) buy(ctx context.Context, ev Event, id int64) (Response, error) {
	p, resp, err := e.lookup(ctx, "buy", id)
	if err != nil {
		return resp, err
	}
	orderID, err := e.orders.Create(ctx, ev.UserID, p.ID)
	if err != nil {
		return notice(textStorageFailed), storageFailure("buy", err)
	}
	logger.Info(ctx, "shop", "order.created",
		slog.String("status", "ok"),
		slog.Int64("order_id", orderID),
		slog.Int64("product_id", p.ID),
	)
	return edit(checkoutText(p),
		Action{Label: "✅ Pay (test)", Token: PayToken(p.ID)},
		actionBackToShop,
	), nil
}

// pay discloses the credentials on every call; there is no reservation.
func (e *Engine) pay(ctx context.Context, ev Event, id int64) (Response, error) {
	p, resp, err := e.lookup(ctx, "pay", id)
	if err != nil {
		return resp, err
	}
	marked, err := e.orders.MarkPaid(ctx, ev.UserID, p.ID)
	if err != nil {
		return notice(textStorageFailed), storageFailure("pay", err)
	}
	logger.Info(ctx, "shop", "order.paid",
		slog.String("status", "ok"),
		slog.Int64("product_id", p.ID),
		slog.Bool("pending_found", marked),
	)
	return edit(paidText(p)), nil
}
