package shop

// Gate decides whether a Telegram user may manage the catalog.
type Gate struct {
	adminID int64
}

// NewGate returns a Gate for the single administrator. A zero id admits nobody.
func NewGate(adminID int64) Gate {
	return Gate{adminID: adminID}
}

// IsAdmin reports whether userID is the configured administrator.
func (g Gate) IsAdmin(userID int64) bool {
	return g.adminID != 0 && userID == g.adminID
}
