package quotations

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/protorq/protorq/internal/sales/shared"
)

// Stored documents predate strict typing: blank terms were written as "",
// numbers as strings, and items without a "selected" key count as selected.
// Decoding applies the same coercion as incoming requests.

func decodeLenient(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(target)
}

// UnmarshalJSON coerces stored line items.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var in LineItemInput
	if err := decodeLenient(data, &in); err != nil {
		return err
	}
	*li = in.normalize()
	return nil
}

// UnmarshalJSON coerces stored terms. An unrecognised delivery unit is
// dropped rather than failing the whole lead.
func (t *Terms) UnmarshalJSON(data []byte) error {
	var in TermsInput
	if err := decodeLenient(data, &in); err != nil {
		return err
	}
	unit, err := ParseDeliveryUnit(in.DeliveryUnit)
	if err != nil {
		unit = ""
	}
	*t = in.withUnit(unit)
	return nil
}

// UnmarshalJSON treats blank or unparseable stored amounts as absent.
func (st *StoredTotals) UnmarshalJSON(data []byte) error {
	var raw struct {
		GrandTotal     any `json:"grandTotal"`
		DiscountAmount any `json:"discountAmount"`
		Subtotal       any `json:"subtotal"`
		TaxAmount      any `json:"taxAmount"`
		Shipping       any `json:"shipping"`
		FinalTotal     any `json:"finalTotal"`
	}
	if err := decodeLenient(data, &raw); err != nil {
		return err
	}
	*st = StoredTotals{
		GrandTotal:     storedAmount(raw.GrandTotal),
		DiscountAmount: storedAmount(raw.DiscountAmount),
		Subtotal:       storedAmount(raw.Subtotal),
		TaxAmount:      storedAmount(raw.TaxAmount),
		Shipping:       storedAmount(raw.Shipping),
		FinalTotal:     storedAmount(raw.FinalTotal),
	}
	return nil
}

func storedAmount(v any) decimal.NullDecimal {
	d, ok := shared.ToDecimal(v)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
