package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/faras-store/backend/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute_OverThreshold_FreeShipping(t *testing.T) {
	rules := pricing.DefaultRules()

	// 30 x 2 + 45 x 1 = 105.00
	b := rules.Compute([]pricing.Line{
		{UnitPrice: dec("30"), Quantity: 2},
		{UnitPrice: dec("45"), Quantity: 1},
	})

	assert.True(t, b.Subtotal.Equal(dec("105.00")), "subtotal = %s", b.Subtotal)
	assert.True(t, b.ShippingFee.IsZero(), "shipping = %s", b.ShippingFee)
	assert.True(t, b.TaxAmount.Equal(dec("10.50")), "tax = %s", b.TaxAmount)
	assert.True(t, b.Total.Equal(dec("115.50")), "total = %s", b.Total)
}

func TestCompute_UnderThreshold_FlatFee(t *testing.T) {
	rules := pricing.DefaultRules()

	b := rules.Compute([]pricing.Line{
		{UnitPrice: dec("20"), Quantity: 1},
	})

	assert.True(t, b.Subtotal.Equal(dec("20.00")))
	assert.True(t, b.ShippingFee.Equal(dec("10.00")))
	assert.True(t, b.TaxAmount.Equal(dec("2.00")))
	assert.True(t, b.Total.Equal(dec("32.00")))
}

func TestShippingFee_ThresholdBoundary(t *testing.T) {
	rules := pricing.DefaultRules()

	// Exactly at the threshold still pays shipping; strictly above is free.
	assert.True(t, rules.ShippingFee(dec("100.00")).Equal(dec("10")))
	assert.True(t, rules.ShippingFee(dec("100.01")).IsZero())
	assert.True(t, rules.ShippingFee(dec("99.99")).Equal(dec("10")))
}

func TestCompute_TotalIdentity(t *testing.T) {
	rules := pricing.Rules{
		FreeShippingThreshold: dec("50"),
		FlatShippingFee:       dec("7.95"),
		TaxRate:               dec("0.0825"),
	}

	carts := [][]pricing.Line{
		{},
		{{UnitPrice: dec("19.99"), Quantity: 3}},
		{{UnitPrice: dec("0.10"), Quantity: 7}, {UnitPrice: dec("33.33"), Quantity: 2}},
		{{UnitPrice: dec("49.95"), Quantity: 1}, {UnitPrice: dec("0.05"), Quantity: 1}},
	}

	for _, lines := range carts {
		b := rules.Compute(lines)
		sum := b.Subtotal.Add(b.ShippingFee).Add(b.TaxAmount)
		assert.True(t, b.Total.Equal(sum), "total %s != sum %s", b.Total, sum)
		assert.True(t, b.Subtotal.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, b.ShippingFee.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, b.TaxAmount.GreaterThanOrEqual(decimal.Zero))
	}
}

func TestCompute_RoundsToTwoPlaces(t *testing.T) {
	rules := pricing.DefaultRules()

	// 3 x 9.99 = 29.97, tax = 2.997 -> rounds to 3.00
	b := rules.Compute([]pricing.Line{{UnitPrice: dec("9.99"), Quantity: 3}})

	assert.True(t, b.TaxAmount.Equal(dec("3.00")), "tax = %s", b.TaxAmount)
	assert.True(t, b.Total.Equal(dec("42.97")), "total = %s", b.Total)
	assert.True(t, b.TaxAmount.Equal(b.TaxAmount.Round(2)))
	assert.True(t, b.Total.Equal(b.Total.Round(2)))
}

func TestSubtotal_NoAccumulationDrift(t *testing.T) {
	lines := make([]pricing.Line, 100)
	for i := range lines {
		lines[i] = pricing.Line{UnitPrice: dec("0.10"), Quantity: 1}
	}

	assert.True(t, pricing.Subtotal(lines).Equal(dec("10.00")))
}

func TestCompute_EmptyCartIsZero(t *testing.T) {
	b := pricing.DefaultRules().Compute(nil)

	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.ShippingFee.IsZero(), "no shipping fee on an empty cart")
	assert.True(t, b.TaxAmount.IsZero())
	assert.True(t, b.Total.IsZero())
}
