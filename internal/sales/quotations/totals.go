package quotations

import (
	"github.com/shopspring/decimal"

	"github.com/protorq/protorq/internal/sales/shared"
)

// ComputeTotals derives the breakdown from the selected items and terms.
// No rounding happens here; formatting is left to the renderer.
func ComputeTotals(items []LineItem, terms Terms) Totals {
	grand := decimal.Zero
	for _, item := range items {
		if !item.Selected {
			continue
		}
		grand = grand.Add(item.LineTotal())
	}

	discount := shared.PercentOf(grand, terms.DiscountPercent)
	subtotal := grand.Sub(discount)
	tax := shared.PercentOf(subtotal, terms.TaxPercent)
	shipping := terms.ShippingCharge

	return Totals{
		GrandTotal:     grand,
		DiscountAmount: discount,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		Shipping:       shipping,
		FinalTotal:     subtotal.Add(tax).Add(shipping),
	}
}

// ResolveTotals prefers the persisted breakdown field by field. A missing
// field is derived from the fields already resolved above it, so a partial
// record stays internally consistent.
func ResolveTotals(doc *Document) Totals {
	stored := doc.Totals
	if stored == nil {
		return ComputeTotals(doc.LineItems, doc.Terms)
	}

	var t Totals
	if stored.GrandTotal.Valid {
		t.GrandTotal = stored.GrandTotal.Decimal
	} else {
		t.GrandTotal = ComputeTotals(doc.LineItems, doc.Terms).GrandTotal
	}
	t.DiscountAmount = pick(stored.DiscountAmount, shared.PercentOf(t.GrandTotal, doc.Terms.DiscountPercent))
	t.Subtotal = pick(stored.Subtotal, t.GrandTotal.Sub(t.DiscountAmount))
	t.TaxAmount = pick(stored.TaxAmount, shared.PercentOf(t.Subtotal, doc.Terms.TaxPercent))
	t.Shipping = pick(stored.Shipping, doc.Terms.ShippingCharge)
	t.FinalTotal = pick(stored.FinalTotal, t.Subtotal.Add(t.TaxAmount).Add(t.Shipping))
	return t
}

func pick(stored decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if stored.Valid {
		return stored.Decimal
	}
	return fallback
}
