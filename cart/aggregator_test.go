package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/faras-store/backend/cart"
	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/pricing"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAddLine_MergesOnSameProduct(t *testing.T) {
	a := cart.New()

	a.AddLine("whey-1", "Whey Protein", "/img/whey.jpg", price("39.99"), 1)
	a.AddLine("whey-1", "Whey Protein", "/img/whey.jpg", price("39.99"), 2)

	lines := a.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, a.ItemCount())
}

func TestAddLine_RejectsNonPositiveQuantity(t *testing.T) {
	a := cart.New()

	a.AddLine("creatine-1", "Creatine", "", price("24.99"), 0)
	a.AddLine("creatine-1", "Creatine", "", price("24.99"), -2)

	assert.Empty(t, a.Lines())
	assert.Equal(t, 0, a.ItemCount())
}

func TestAddThenRemove_RoundTrips(t *testing.T) {
	a := cart.New()
	a.AddLine("whey-1", "Whey Protein", "", price("39.99"), 2)

	before := a.Lines()

	a.AddLine("bcaa-1", "BCAA", "", price("19.99"), 1)
	a.RemoveLine("bcaa-1")

	assert.Equal(t, before, a.Lines())
}

func TestRemoveLine_AbsentIsNoop(t *testing.T) {
	a := cart.New()
	a.AddLine("whey-1", "Whey Protein", "", price("39.99"), 1)

	a.RemoveLine("nope")

	assert.Len(t, a.Lines(), 1)
}

func TestSetQuantity_SetsExactValue(t *testing.T) {
	a := cart.New()
	a.AddLine("whey-1", "Whey Protein", "", price("39.99"), 2)

	a.SetQuantity("whey-1", 5)

	assert.Equal(t, 5, a.Lines()[0].Quantity)
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	a := cart.New()
	a.AddLine("whey-1", "Whey Protein", "", price("39.99"), 2)

	a.SetQuantity("whey-1", 0)

	assert.Empty(t, a.Lines())
}

func TestClear_EmptiesCart(t *testing.T) {
	a := cart.New()
	a.AddLine("whey-1", "Whey Protein", "", price("39.99"), 2)
	a.AddLine("bcaa-1", "BCAA", "", price("19.99"), 1)

	a.Clear()

	assert.Empty(t, a.Lines())
	assert.True(t, a.Subtotal().IsZero())
}

func TestLines_PreserveInsertionOrder(t *testing.T) {
	a := cart.New()
	a.AddLine("c", "C", "", price("1"), 1)
	a.AddLine("a", "A", "", price("2"), 1)
	a.AddLine("b", "B", "", price("3"), 1)
	a.RemoveLine("a")
	a.AddLine("a", "A", "", price("2"), 1)

	var ids []string
	for _, l := range a.Lines() {
		ids = append(ids, l.ProductID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}

func TestBreakdown_MatchesPricingRules(t *testing.T) {
	a := cart.New()
	a.AddLine("whey-1", "Whey Protein", "", price("30"), 2)
	a.AddLine("pre-1", "Pre-Workout", "", price("45"), 1)

	b := a.Breakdown(pricing.DefaultRules())

	assert.True(t, b.Subtotal.Equal(price("105.00")))
	assert.True(t, b.ShippingFee.IsZero())
	assert.True(t, b.TaxAmount.Equal(price("10.50")))
	assert.True(t, b.Total.Equal(price("115.50")))
}

func TestFromLines_MergesDuplicateSnapshots(t *testing.T) {
	a := cart.FromLines([]models.CartLine{
		{ProductID: "whey-1", Name: "Whey", UnitPrice: price("39.99"), Quantity: 1},
		{ProductID: "whey-1", Name: "Whey", UnitPrice: price("39.99"), Quantity: 2},
		{ProductID: "bad", Name: "Bad", UnitPrice: price("1"), Quantity: 0},
	})

	lines := a.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}
