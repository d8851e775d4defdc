package quotations

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shape written by the first generation of the lead service: blank terms as
// empty strings, numbers as JSON numbers.
const legacyQuotationJSON = `{
	"products": [
		{"productName": "Pump", "description": "", "quantity": 2, "price": 100, "unit": "Unit", "selected": true},
		{"productName": "Coupling", "description": "", "quantity": 1, "price": 50, "unit": "Unit", "selected": false}
	],
	"terms": {
		"discount": "", "applicableTaxes": "5", "taxesIncluded": false,
		"shippingCharges": "", "shippingIncluded": false,
		"deliveryPeriod": "", "deliveryUnit": "", "paymentTerms": "", "additionalInformation": ""
	},
	"verify": {
		"primaryEmail": "sales@example.com", "alternateEmail": "", "primaryPhone": "",
		"alternatePhone": "", "pnsPhone": "", "primaryPhoneSelected": false,
		"alternatePhoneSelected": false, "pnsPhoneSelected": false, "addressType": "Primary",
		"addressLine1": "", "addressLine2": "", "addressPhone": ""
	},
	"currency": "₹",
	"totals": {"grandTotal": 200, "discountAmount": 0, "subtotal": 200, "taxAmount": 10, "shipping": 0, "finalTotal": 210}
}`

func TestDecodeLegacyDocument_BlankTermsAreZero(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(legacyQuotationJSON), &doc))

	assert.True(t, doc.Terms.DiscountPercent.IsZero())
	assert.True(t, doc.Terms.ShippingCharge.IsZero())
	assertDecimal(t, "5", doc.Terms.TaxPercent, "taxPercent")
	assert.Zero(t, doc.Terms.DeliveryPeriod)
	assert.Empty(t, doc.Terms.DeliveryUnit)
	require.Len(t, doc.LineItems, 2)
	assertDecimal(t, "100", doc.LineItems[0].Price, "price")

	got := ResolveTotals(&doc)
	assertDecimal(t, "200", got.GrandTotal, "grandTotal")
	assertDecimal(t, "210", got.FinalTotal, "finalTotal")
}

func TestDecodeLegacyDocument_MissingSelectedMeansSelected(t *testing.T) {
	raw := `{"products":[{"productName":"Pump","quantity":2,"price":"100"}],"terms":{}}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.LineItems, 1)
	assert.True(t, doc.LineItems[0].Selected)
	assert.Equal(t, DefaultUnit, doc.LineItems[0].Unit)

	totals := ResolveTotals(&doc)
	assertDecimal(t, "200", totals.GrandTotal, "grandTotal")

	layout := BuildLayout(&doc, totals, Recipient{}, fixedNow)
	assert.Empty(t, layout.EmptyRow)
	require.Len(t, layout.Rows, 1)
	assert.Equal(t, "Pump", layout.Rows[0][0])
}

func TestDecodeLegacyDocument_ExplicitlyDeselectedStaysOut(t *testing.T) {
	raw := `{"products":[{"productName":"Pump","quantity":"2","price":"100","selected":false}]}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.False(t, doc.LineItems[0].Selected)
	assert.True(t, ResolveTotals(&doc).GrandTotal.IsZero())
}

func TestDecodeStoredTotals_BlankFieldsAreAbsent(t *testing.T) {
	raw := `{"products":[{"price":"100","quantity":1}],"terms":{"discount":"10"},"totals":{"grandTotal":"","finalTotal":"95.5"}}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.NotNil(t, doc.Totals)
	assert.False(t, doc.Totals.GrandTotal.Valid)
	assert.True(t, doc.Totals.FinalTotal.Valid)

	got := ResolveTotals(&doc)
	assertDecimal(t, "100", got.GrandTotal, "grandTotal")
	assertDecimal(t, "10", got.DiscountAmount, "discountAmount")
	assertDecimal(t, "95.5", got.FinalTotal, "finalTotal")
}

func TestDecodeTerms_UnknownDeliveryUnitIsDropped(t *testing.T) {
	var terms Terms
	require.NoError(t, json.Unmarshal([]byte(`{"deliveryPeriod":"3","deliveryUnit":"Fortnights"}`), &terms))

	assert.Equal(t, int64(3), terms.DeliveryPeriod)
	assert.Empty(t, terms.DeliveryUnit)
}
