package pricing

import (
	"github.com/shopspring/decimal"
)

// Rules holds the pricing configuration applied to every cart and order.
// Cart totals shown to the customer and the authoritative order totals
// must be computed from the same instance.
type Rules struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultRules returns the storefront defaults: free shipping over 100.00,
// a 10.00 flat fee otherwise, and a 10% tax rate.
func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingFee:       decimal.NewFromInt(10),
		TaxRate:               decimal.NewFromFloat(0.10),
	}
}

// Line is the minimal shape pricing needs from a cart or order line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Breakdown is a derived price summary. Components are rounded to two
// decimal places; Total is the exact sum of the rounded components so
// the identity total = subtotal + shipping + tax always holds.
type Breakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}

// Subtotal sums unit price times quantity across lines without rounding.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// ShippingFee is zero strictly above the free-shipping threshold and the
// flat fee at or below it.
func (r Rules) ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.FlatShippingFee
}

// TaxAmount applies the configured tax rate to the subtotal.
func (r Rules) TaxAmount(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(r.TaxRate)
}

// Compute derives the full breakdown for a set of lines. Rounding to two
// decimal places happens here and only here. An empty cart prices to
// zero; the shipping fee applies only once there is something to ship.
func (r Rules) Compute(lines []Line) Breakdown {
	if len(lines) == 0 {
		return Breakdown{
			Subtotal:    decimal.Zero,
			ShippingFee: decimal.Zero,
			TaxAmount:   decimal.Zero,
			Total:       decimal.Zero,
		}
	}

	subtotal := Subtotal(lines).Round(2)
	shipping := r.ShippingFee(subtotal).Round(2)
	tax := r.TaxAmount(subtotal).Round(2)

	return Breakdown{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		TaxAmount:   tax,
		Total:       subtotal.Add(shipping).Add(tax),
	}
}
