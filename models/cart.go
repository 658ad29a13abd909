package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is a single selected product in a cart. Quantity is always
// at least 1; a quantity reaching zero removes the line instead.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart is the persisted per-user cart document.
type Cart struct {
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}
