package shop

import "github.com/m3rciful/shopbot/core/telegram/state"

// Conversation steps of the admin flows. Absence of a state means idle.
const (
	StateAwaitingProductData     state.State = "awaiting_product_data"
	StateAwaitingProductDeleteID state.State = "awaiting_product_delete_id"
)
