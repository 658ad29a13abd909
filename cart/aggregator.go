// Package cart holds the in-memory cart aggregator: an insertion-ordered
// set of line items keyed by product ID with derived totals. It performs
// no I/O; persistence is an adapter concern of the cart repository.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/pricing"
)

// Aggregator owns a single cart's line items. It is not safe for
// concurrent use; callers serialize access per user.
type Aggregator struct {
	order []string
	lines map[string]*models.CartLine
}

func New() *Aggregator {
	return &Aggregator{
		lines: make(map[string]*models.CartLine),
	}
}

// FromLines rebuilds an aggregator from a persisted snapshot, merging any
// duplicate product IDs and dropping non-positive quantities.
func FromLines(lines []models.CartLine) *Aggregator {
	a := New()
	for _, l := range lines {
		a.AddLine(l.ProductID, l.Name, l.Image, l.UnitPrice, l.Quantity)
	}
	return a
}

// AddLine merges quantity into an existing line for the same product, or
// appends a new line. A non-positive quantity is a no-op.
func (a *Aggregator) AddLine(productID, name, image string, unitPrice decimal.Decimal, quantity int) {
	if quantity <= 0 {
		return
	}
	if line, ok := a.lines[productID]; ok {
		line.Quantity += quantity
		return
	}
	a.order = append(a.order, productID)
	a.lines[productID] = &models.CartLine{
		ProductID: productID,
		Name:      name,
		Image:     image,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}
}

// RemoveLine deletes the line for productID; absent lines are a no-op.
func (a *Aggregator) RemoveLine(productID string) {
	if _, ok := a.lines[productID]; !ok {
		return
	}
	delete(a.lines, productID)
	for i, id := range a.order {
		if id == productID {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// SetQuantity sets the exact quantity for productID. A non-positive
// quantity removes the line.
func (a *Aggregator) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		a.RemoveLine(productID)
		return
	}
	if line, ok := a.lines[productID]; ok {
		line.Quantity = quantity
	}
}

// Clear empties the cart.
func (a *Aggregator) Clear() {
	a.order = nil
	a.lines = make(map[string]*models.CartLine)
}

// Lines returns the cart lines in insertion order.
func (a *Aggregator) Lines() []models.CartLine {
	out := make([]models.CartLine, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.lines[id])
	}
	return out
}

// ItemCount is the sum of quantities across lines.
func (a *Aggregator) ItemCount() int {
	count := 0
	for _, line := range a.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal sums unit price times quantity without rounding.
func (a *Aggregator) Subtotal() decimal.Decimal {
	return pricing.Subtotal(a.pricingLines())
}

// Breakdown derives subtotal, shipping, tax and total under rules.
func (a *Aggregator) Breakdown(rules pricing.Rules) pricing.Breakdown {
	return rules.Compute(a.pricingLines())
}

func (a *Aggregator) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(a.order))
	for _, id := range a.order {
		l := a.lines[id]
		lines = append(lines, pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity})
	}
	return lines
}
