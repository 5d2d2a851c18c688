package shop

import (
	"strconv"
	"strings"

	"github.com/m3rciful/shopbot/core/telegram/format"
	"github.com/m3rciful/shopbot/internal/catalog"
)

const (
	textWelcome       = "🛒 Welcome to the shop!"
	textMainMenu      = "🛒 Main menu"
	textChooseProduct = "📦 Choose a product:"
	textEmptyCatalog  = "📦 The catalog is empty for now."
	textAdminPanel    = "⚙️ Admin panel"
	textDeleteProduct = "✏️ Send the ID of the product to delete:"
	textNoProducts    = "🗃 No products yet!"
	textDenied        = "⛔ Access denied!"
	textNotFound      = "❌ Product not found!"
	textUnsupported   = "Unsupported action"
	textIdleHint      = "Press /start to open the shop."
	textProductAdded  = "✅ Product added!"
	textProductGone   = "✅ Product deleted!"
	textStorageFailed = "❌ Something went wrong, please try again later."

	textAddProduct = "📝 Send the product data in the format:\n\n" +
		"<b>Name | Price | Description | Login | Password</b>\n\n" +
		"Example: <code>YouTube Premium | 500 | 1 month account | test@mail.com | 12345</code>"
)

var (
	actionCatalog    = Action{Label: "🛒 Catalog", Token: TokenCatalog}
	actionAdminPanel = Action{Label: "⚙️ Admin panel", Token: TokenAdminPanel}
	actionBackToMain = Action{Label: "🔙 Back", Token: TokenMainMenu}
	actionBackToShop = Action{Label: "🔙 Back", Token: TokenCatalog}

	adminActions = []Action{
		{Label: "📦 Add product", Token: TokenAddProduct},
		{Label: "🗑 Delete product", Token: TokenDeleteProduct},
		{Label: "📊 Product list", Token: TokenListProducts},
		actionBackToMain,
	}
)

// mainMenuActions hides the admin entry from everyone but the administrator.
func mainMenuActions(isAdmin bool) []Action {
	if isAdmin {
		return []Action{actionCatalog, actionAdminPanel}
	}
	return []Action{actionCatalog}
}

func catalogActions(items []catalog.ProductSummary) []Action {
	out := make([]Action, 0, len(items)+1)
	for _, p := range items {
		out = append(out, Action{
			Label: p.Name + " - " + format.Price(p.Price),
			Token: BuyToken(p.ID),
		})
	}
	return append(out, actionBackToMain)
}

func adminListText(items []catalog.ProductSummary) string {
	var b strings.Builder
	b.WriteString("📦 Product list:\n\n")
	for _, p := range items {
		b.WriteString(strconv.FormatInt(p.ID, 10))
		b.WriteString(". ")
		b.WriteString(format.Escape(p.Name))
		b.WriteString(" - ")
		b.WriteString(format.Price(p.Price))
		b.WriteString("\n")
	}
	return b.String()
}

func checkoutText(p catalog.Product) string {
	return "💳 Checkout:\n\n" +
		"Product: " + format.Bold(p.Name) + "\n" +
		"Price: " + format.Price(p.Price) + "\n\n" +
		"Press the button below to simulate the payment:"
}

func paidText(p catalog.Product) string {
	return "✅ Payment successful!\n\n" +
		"Product: " + format.Escape(p.Name) + "\n" +
		"Price: " + format.Price(p.Price) + "\n\n" +
		"Login credentials:\n" +
		"Login: " + format.Code(p.Login) + "\n" +
		"Password: " + format.Code(p.Password)
}

// validationText names the rejected field so the admin can fix the input.
func validationText(err *Error) string {
	msg := "❌ Error"
	if err.Field != "" {
		msg += ": " + err.Field
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return format.Escape(msg)
}
