package shop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/shopbot/core/telegram/state"
	"github.com/m3rciful/shopbot/internal/catalog"
	"github.com/m3rciful/shopbot/internal/orders"
)

const (
	adminID int64 = 100
	buyerID int64 = 200
)

type fixture struct {
	engine   *Engine
	products *catalog.MemoryStore
	orders   *orders.MemoryStore
	states   state.Store
}

func newFixture() *fixture {
	f := &fixture{
		products: catalog.NewMemoryStore(),
		orders:   orders.NewMemoryStore(),
		states:   state.NewMemoryStore(),
	}
	f.engine = NewEngine(Config{AdminID: adminID}, f.products, f.orders, f.states)
	return f
}

func (f *fixture) handle(t *testing.T, ev Event) (Response, error) {
	t.Helper()
	return f.engine.Handle(context.Background(), ev)
}

func (f *fixture) list(t *testing.T) []catalog.ProductSummary {
	t.Helper()
	items, err := f.products.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return items
}

func hasToken(actions []Action, token string) bool {
	for _, a := range actions {
		if a.Token == token {
			return true
		}
	}
	return false
}

// failingStore fails every call with err.
type failingStore struct{ err error }

func (s failingStore) List(context.Context) ([]catalog.ProductSummary, error) { return nil, s.err }
func (s failingStore) Get(context.Context, int64) (catalog.Product, error) {
	return catalog.Product{}, s.err
}
func (s failingStore) Insert(context.Context, catalog.NewProduct) (int64, error) { return 0, s.err }
func (s failingStore) Delete(context.Context, int64) (bool, error)                { return false, s.err }

func TestPurchaseScenario(t *testing.T) {
	f := newFixture()
	if _, err := f.handle(t, ActionEvent(adminID, TokenAddProduct)); err != nil {
		t.Fatalf("add_product: %v", err)
	}
	resp, err := f.handle(t, TextEvent(adminID, "VPN | 300 | 1mo | a@b.com | pw1"))
	if err != nil {
		t.Fatalf("add finish: %v", err)
	}
	if resp.Text != textProductAdded {
		t.Fatalf("unexpected add response: %q", resp.Text)
	}

	items := f.list(t)
	if len(items) != 1 || items[0] != (catalog.ProductSummary{ID: 1, Name: "VPN", Price: 300}) {
		t.Fatalf("unexpected listing: %+v", items)
	}

	resp, err = f.handle(t, ActionEvent(buyerID, "buy_1"))
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if resp.Delivery != DeliverEdit || !strings.Contains(resp.Text, "VPN") || !strings.Contains(resp.Text, "300₽") {
		t.Fatalf("unexpected checkout: %+v", resp)
	}
	if !hasToken(resp.Actions, "pay_1") {
		t.Fatalf("checkout must offer pay_1: %+v", resp.Actions)
	}

	resp, err = f.handle(t, ActionEvent(buyerID, "pay_1"))
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !strings.Contains(resp.Text, "<code>a@b.com</code>") || !strings.Contains(resp.Text, "<code>pw1</code>") {
		t.Fatalf("credentials not disclosed in code spans: %q", resp.Text)
	}

	placed, _ := f.orders.ListByUser(context.Background(), buyerID)
	if len(placed) != 1 || placed[0].Status != orders.StatusPaid || placed[0].ProductID != 1 {
		t.Fatalf("unexpected orders: %+v", placed)
	}
}

func TestPayIsRepeatable(t *testing.T) {
	f := newFixture()
	_, _ = f.products.Insert(context.Background(), catalog.NewProduct{Name: "VPN", Price: 300, Login: "l", Password: "p"})

	for i := 0; i < 2; i++ {
		resp, err := f.handle(t, ActionEvent(buyerID, "pay_1"))
		if err != nil {
			t.Fatalf("pay #%d: %v", i+1, err)
		}
		if !strings.Contains(resp.Text, "<code>p</code>") {
			t.Fatalf("pay #%d did not disclose: %q", i+1, resp.Text)
		}
	}
}

func TestBuyMissingProduct(t *testing.T) {
	f := newFixture()
	resp, err := f.handle(t, ActionEvent(buyerID, "buy_99"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if resp.Delivery != DeliverNotice || resp.Text != textNotFound {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if f.states.Get(buyerID) != state.StateIdle {
		t.Fatal("state must not change")
	}
	placed, _ := f.orders.ListByUser(context.Background(), buyerID)
	if len(placed) != 0 {
		t.Fatalf("no order expected, got %+v", placed)
	}
}

func TestPayAfterDeleteIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id, _ := f.products.Insert(ctx, catalog.NewProduct{Name: "VPN", Price: 300, Login: "secret-login", Password: "secret-pw"})
	if _, err := f.handle(t, ActionEvent(buyerID, BuyToken(id))); err != nil {
		t.Fatalf("buy: %v", err)
	}
	_, _ = f.products.Delete(ctx, id)

	resp, err := f.handle(t, ActionEvent(buyerID, PayToken(id)))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if strings.Contains(resp.Text, "secret") {
		t.Fatalf("stale credentials leaked: %q", resp.Text)
	}
}

func TestAddProductValidationFailures(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{name: "non integer price", body: "X|abc|desc|l|p", field: "price"},
		{name: "too few fields", body: "X|1|desc|l", field: "input"},
		{name: "too many fields", body: "X|1|desc|l|p|extra", field: "input"},
		{name: "empty name", body: " |1|desc|l|p", field: "name"},
		{name: "negative price", body: "X|-5|desc|l|p", field: "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			if _, err := f.handle(t, ActionEvent(adminID, TokenAddProduct)); err != nil {
				t.Fatalf("add_product: %v", err)
			}
			if f.states.Get(adminID) != StateAwaitingProductData {
				t.Fatal("expected awaiting product data")
			}

			resp, err := f.handle(t, TextEvent(adminID, tc.body))
			var se *Error
			if !errors.As(err, &se) || se.Kind != KindValidation || se.Field != tc.field {
				t.Fatalf("expected validation failure on %s, got %v", tc.field, err)
			}
			if !strings.Contains(resp.Text, tc.field) {
				t.Fatalf("notice should name the field: %q", resp.Text)
			}
			if got := f.states.Get(adminID); got != state.StateIdle {
				t.Fatalf("state = %q, want idle", got)
			}
			if items := f.list(t); len(items) != 0 {
				t.Fatalf("nothing should be inserted: %+v", items)
			}

			// The next message is no longer treated as product data.
			resp, _ = f.handle(t, TextEvent(adminID, "VPN|300|d|l|p"))
			if resp.Text != textIdleHint {
				t.Fatalf("expected idle hint, got %q", resp.Text)
			}
			if items := f.list(t); len(items) != 0 {
				t.Fatalf("input must not be retried: %+v", items)
			}
		})
	}
}

func TestDeleteProductFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.products.Insert(ctx, catalog.NewProduct{Name: "VPN", Price: 300})
	_, _ = f.products.Insert(ctx, catalog.NewProduct{Name: "Music", Price: 100})

	if _, err := f.handle(t, ActionEvent(adminID, TokenDeleteProduct)); err != nil {
		t.Fatalf("delete_product: %v", err)
	}
	if f.states.Get(adminID) != StateAwaitingProductDeleteID {
		t.Fatal("expected awaiting delete id")
	}
	resp, err := f.handle(t, TextEvent(adminID, " 1 "))
	if err != nil {
		t.Fatalf("delete finish: %v", err)
	}
	if resp.Text != textProductGone {
		t.Fatalf("unexpected response: %q", resp.Text)
	}
	items := f.list(t)
	if len(items) != 1 || items[0].Name != "Music" {
		t.Fatalf("unexpected listing: %+v", items)
	}
	if f.states.Get(adminID) != state.StateIdle {
		t.Fatal("state must be idle after delete")
	}
}

func TestDeleteMissingIDReportsSuccess(t *testing.T) {
	f := newFixture()
	_, _ = f.products.Insert(context.Background(), catalog.NewProduct{Name: "VPN", Price: 300})

	_, _ = f.handle(t, ActionEvent(adminID, TokenDeleteProduct))
	resp, err := f.handle(t, TextEvent(adminID, "42"))
	if err != nil {
		t.Fatalf("delete finish: %v", err)
	}
	if resp.Text != textProductGone {
		t.Fatalf("expected success notice, got %q", resp.Text)
	}
	if items := f.list(t); len(items) != 1 {
		t.Fatalf("catalog changed: %+v", items)
	}
}

func TestDeleteNonIntegerClearsState(t *testing.T) {
	f := newFixture()
	_, _ = f.products.Insert(context.Background(), catalog.NewProduct{Name: "VPN", Price: 300})

	_, _ = f.handle(t, ActionEvent(adminID, TokenDeleteProduct))
	_, err := f.handle(t, TextEvent(adminID, "one"))
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if f.states.Get(adminID) != state.StateIdle {
		t.Fatal("state must be idle")
	}
	if items := f.list(t); len(items) != 1 {
		t.Fatalf("nothing should be deleted: %+v", items)
	}
}

func TestNonAdminIsDenied(t *testing.T) {
	f := newFixture()
	_, _ = f.products.Insert(context.Background(), catalog.NewProduct{Name: "VPN", Price: 300})

	for _, token := range []string{TokenAdminPanel, TokenAddProduct, TokenDeleteProduct, TokenListProducts} {
		resp, err := f.handle(t, ActionEvent(buyerID, token))
		if KindOf(err) != KindPermissionDenied {
			t.Fatalf("%s: expected permission denied, got %v", token, err)
		}
		if resp.Delivery != DeliverNotice || resp.Text != textDenied {
			t.Fatalf("%s: unexpected response %+v", token, resp)
		}
		if f.states.Get(buyerID) != state.StateIdle {
			t.Fatalf("%s: state changed", token)
		}
	}
	if items := f.list(t); len(items) != 1 {
		t.Fatalf("catalog mutated: %+v", items)
	}
}

func TestNonAdminTextNeverMutates(t *testing.T) {
	f := newFixture()
	// Force the state directly; the gate must still hold.
	f.states.Set(buyerID, StateAwaitingProductData)
	_, err := f.handle(t, TextEvent(buyerID, "VPN|300|d|l|p"))
	if KindOf(err) != KindPermissionDenied {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if items := f.list(t); len(items) != 0 {
		t.Fatalf("catalog mutated: %+v", items)
	}
	if f.states.Get(buyerID) != state.StateIdle {
		t.Fatal("state must be cleared")
	}
}

func TestMainMenuHidesAdminEntry(t *testing.T) {
	f := newFixture()
	resp, _ := f.handle(t, CommandEvent(buyerID, "start"))
	if resp.Delivery != DeliverSend {
		t.Fatalf("start should send a new message, got %v", resp.Delivery)
	}
	if hasToken(resp.Actions, TokenAdminPanel) {
		t.Fatal("buyer must not see the admin entry")
	}
	resp, _ = f.handle(t, CommandEvent(adminID, "/start"))
	if !hasToken(resp.Actions, TokenAdminPanel) {
		t.Fatal("admin should see the admin entry")
	}
	resp, _ = f.handle(t, ActionEvent(buyerID, TokenMainMenu))
	if resp.Delivery != DeliverEdit || hasToken(resp.Actions, TokenAdminPanel) {
		t.Fatalf("unexpected main menu for buyer: %+v", resp)
	}
}

func TestCatalogListsProducts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.products.Insert(ctx, catalog.NewProduct{Name: "VPN", Price: 300})
	_, _ = f.products.Insert(ctx, catalog.NewProduct{Name: "Music", Price: 150})

	resp, err := f.handle(t, ActionEvent(buyerID, TokenCatalog))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	want := []Action{
		{Label: "VPN - 300₽", Token: "buy_1"},
		{Label: "Music - 150₽", Token: "buy_2"},
		actionBackToMain,
	}
	if len(resp.Actions) != len(want) {
		t.Fatalf("actions = %+v", resp.Actions)
	}
	for i := range want {
		if resp.Actions[i] != want[i] {
			t.Fatalf("action %d = %+v, want %+v", i, resp.Actions[i], want[i])
		}
	}
}

func TestAdminListing(t *testing.T) {
	f := newFixture()
	resp, err := f.handle(t, ActionEvent(adminID, TokenListProducts))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Delivery != DeliverNotice || resp.Text != textNoProducts {
		t.Fatalf("expected empty notice, got %+v", resp)
	}

	ctx := context.Background()
	_, _ = f.products.Insert(ctx, catalog.NewProduct{Name: "VPN", Price: 300})
	_, _ = f.products.Insert(ctx, catalog.NewProduct{Name: "A&B", Price: 5})
	resp, _ = f.handle(t, ActionEvent(adminID, TokenListProducts))
	if !strings.Contains(resp.Text, "1. VPN - 300₽\n2. A&amp;B - 5₽\n") {
		t.Fatalf("unexpected listing text: %q", resp.Text)
	}
}

func TestStorageFailureIsGeneric(t *testing.T) {
	boom := errors.New("pq: relation \"products\" does not exist")
	states := state.NewMemoryStore()
	e := NewEngine(Config{AdminID: adminID}, failingStore{err: boom}, orders.NewMemoryStore(), states)
	ctx := context.Background()

	for _, ev := range []Event{
		ActionEvent(buyerID, TokenCatalog),
		ActionEvent(buyerID, "buy_1"),
		ActionEvent(buyerID, "pay_1"),
	} {
		resp, err := e.Handle(ctx, ev)
		if KindOf(err) != KindStorage || !errors.Is(err, boom) {
			t.Fatalf("%s: expected storage failure wrapping cause, got %v", ev.Key, err)
		}
		if resp.Text != textStorageFailed || strings.Contains(resp.Text, "pq") {
			t.Fatalf("%s: storage internals leaked: %q", ev.Key, resp.Text)
		}
	}

	_, _ = e.Handle(ctx, ActionEvent(adminID, TokenAddProduct))
	resp, err := e.Handle(ctx, TextEvent(adminID, "VPN|300|d|l|p"))
	if KindOf(err) != KindStorage || resp.Text != textStorageFailed {
		t.Fatalf("expected storage failure on insert, got %v / %q", err, resp.Text)
	}
	if states.Get(adminID) != state.StateIdle {
		t.Fatal("state must be cleared after a storage failure")
	}
}

func TestMalformedTokens(t *testing.T) {
	f := newFixture()
	for _, token := range []string{"buy_", "buy_abc", "pay_-1", "pay_1x", "buy_0"} {
		resp, err := f.handle(t, ActionEvent(buyerID, token))
		if !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("%s: expected ErrMalformedToken, got %v", token, err)
		}
		if resp.Delivery != DeliverNotice {
			t.Fatalf("%s: expected notice, got %+v", token, resp)
		}
	}
	resp, err := f.handle(t, ActionEvent(buyerID, "refund_1"))
	if err != nil || resp.Text != textUnsupported {
		t.Fatalf("unknown token: %v / %+v", err, resp)
	}
}

func TestCommandKeepsAwaitingState(t *testing.T) {
	f := newFixture()
	_, _ = f.handle(t, ActionEvent(adminID, TokenAddProduct))
	_, _ = f.handle(t, CommandEvent(adminID, "start"))
	if f.states.Get(adminID) != StateAwaitingProductData {
		t.Fatal("commands must not consume the awaiting state")
	}
	_, _ = f.handle(t, TextEvent(adminID, "/start"))
	if f.states.Get(adminID) != state.StateIdle {
		t.Fatal("free text must consume the awaiting state")
	}
}
