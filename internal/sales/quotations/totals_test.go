package quotations

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: want %s, got %s", field, want, got)
}

func TestComputeTotals_ReferenceScenario(t *testing.T) {
	items := []LineItem{
		{ProductName: "Coupling", Price: dec("100"), Quantity: 2, Selected: true},
		{ProductName: "Gear pump", Price: dec("50"), Quantity: 1, Selected: false},
	}
	terms := Terms{DiscountPercent: dec("10"), TaxPercent: dec("5"), ShippingCharge: dec("20")}

	got := ComputeTotals(items, terms)

	assertDecimal(t, "200", got.GrandTotal, "grandTotal")
	assertDecimal(t, "20", got.DiscountAmount, "discountAmount")
	assertDecimal(t, "180", got.Subtotal, "subtotal")
	assertDecimal(t, "9", got.TaxAmount, "taxAmount")
	assertDecimal(t, "20", got.Shipping, "shipping")
	assertDecimal(t, "209", got.FinalTotal, "finalTotal")
}

func TestComputeTotals_EmptyIsZero(t *testing.T) {
	got := ComputeTotals(nil, Terms{DiscountPercent: dec("10"), TaxPercent: dec("18")})
	for name, v := range map[string]decimal.Decimal{
		"grandTotal":     got.GrandTotal,
		"discountAmount": got.DiscountAmount,
		"subtotal":       got.Subtotal,
		"taxAmount":      got.TaxAmount,
		"finalTotal":     got.FinalTotal,
	} {
		assert.True(t, v.IsZero(), "%s should be zero, got %s", name, v)
	}
}

func TestComputeTotals_OnlySelectedSubsetsContribute(t *testing.T) {
	base := []LineItem{
		{Price: dec("12.50"), Quantity: 3},
		{Price: dec("0.99"), Quantity: 7},
		{Price: dec("1000"), Quantity: 1},
		{Price: dec("3.3333"), Quantity: 4},
	}
	for mask := 0; mask < 1<<len(base); mask++ {
		items := make([]LineItem, len(base))
		want := decimal.Zero
		for i, item := range base {
			item.Selected = mask&(1<<i) != 0
			if item.Selected {
				want = want.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
			}
			items[i] = item
		}
		got := ComputeTotals(items, Terms{})
		assert.True(t, got.GrandTotal.Equal(want), "mask %b: want %s got %s", mask, want, got.GrandTotal)
	}
}

func TestComputeTotals_NoIntermediateRounding(t *testing.T) {
	items := []LineItem{{Price: dec("33.33"), Quantity: 1, Selected: true}}
	terms := Terms{DiscountPercent: dec("7.5"), TaxPercent: dec("12.5"), ShippingCharge: dec("0.015")}

	got := ComputeTotals(items, terms)

	assertDecimal(t, "2.49975", got.DiscountAmount, "discountAmount")
	assertDecimal(t, "30.83025", got.Subtotal, "subtotal")
	assertDecimal(t, "3.85378125", got.TaxAmount, "taxAmount")
	assertDecimal(t, "34.69903125", got.FinalTotal, "finalTotal")
}

func TestComputeTotals_IncludedShippingStillInFinalTotal(t *testing.T) {
	items := []LineItem{{Price: dec("100"), Quantity: 1, Selected: true}}
	terms := Terms{ShippingCharge: dec("50"), ShippingIncludedInPrice: true}

	got := ComputeTotals(items, terms)

	assertDecimal(t, "50", got.Shipping, "shipping")
	assertDecimal(t, "150", got.FinalTotal, "finalTotal")
}

func TestResolveTotals_PrefersStoredValues(t *testing.T) {
	doc := &Document{
		LineItems: []LineItem{{Price: dec("100"), Quantity: 2, Selected: true}},
		Terms:     Terms{DiscountPercent: dec("10")},
		Totals: &StoredTotals{
			GrandTotal:     decimal.NewNullDecimal(dec("999")),
			DiscountAmount: decimal.NewNullDecimal(dec("1")),
			Subtotal:       decimal.NewNullDecimal(dec("998")),
			TaxAmount:      decimal.NewNullDecimal(dec("0")),
			Shipping:       decimal.NewNullDecimal(dec("0")),
			FinalTotal:     decimal.NewNullDecimal(dec("998")),
		},
	}

	first := ResolveTotals(doc)
	second := ResolveTotals(doc)

	assertDecimal(t, "999", first.GrandTotal, "grandTotal")
	assertDecimal(t, "998", first.FinalTotal, "finalTotal")
	assert.Equal(t, first, second)
}

func TestResolveTotals_LegacyDocumentRecomputes(t *testing.T) {
	doc := &Document{
		LineItems: []LineItem{
			{Price: dec("100"), Quantity: 2, Selected: true},
			{Price: dec("50"), Quantity: 1, Selected: false},
		},
		Terms: Terms{DiscountPercent: dec("10"), TaxPercent: dec("5"), ShippingCharge: dec("20")},
	}

	assert.Equal(t, ComputeTotals(doc.LineItems, doc.Terms), ResolveTotals(doc))
}

func TestResolveTotals_PartialStoredFieldsFallBackPerField(t *testing.T) {
	doc := &Document{
		LineItems: []LineItem{{Price: dec("100"), Quantity: 2, Selected: true}},
		Terms:     Terms{DiscountPercent: dec("10"), TaxPercent: dec("5")},
		Totals: &StoredTotals{
			GrandTotal: decimal.NewNullDecimal(dec("200")),
			FinalTotal: decimal.NewNullDecimal(dec("500")),
		},
	}

	got := ResolveTotals(doc)

	assertDecimal(t, "20", got.DiscountAmount, "discountAmount")
	assertDecimal(t, "9", got.TaxAmount, "taxAmount")
	assertDecimal(t, "500", got.FinalTotal, "finalTotal")
}

func TestResolveTotals_MissingFieldsDeriveFromStoredUpstream(t *testing.T) {
	doc := &Document{
		LineItems: []LineItem{{Price: dec("100"), Quantity: 2, Selected: true}},
		Terms:     Terms{DiscountPercent: dec("10"), TaxPercent: dec("5"), ShippingCharge: dec("20")},
		Totals: &StoredTotals{
			GrandTotal: decimal.NewNullDecimal(dec("1000")),
		},
	}

	got := ResolveTotals(doc)

	assertDecimal(t, "1000", got.GrandTotal, "grandTotal")
	assertDecimal(t, "100", got.DiscountAmount, "discountAmount")
	assertDecimal(t, "900", got.Subtotal, "subtotal")
	assertDecimal(t, "45", got.TaxAmount, "taxAmount")
	assertDecimal(t, "20", got.Shipping, "shipping")
	assertDecimal(t, "965", got.FinalTotal, "finalTotal")
}
