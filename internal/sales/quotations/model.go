package quotations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/protorq/protorq/internal/sales/shared"
)

// DefaultCurrency is the symbol used when a request names none.
const DefaultCurrency = "₹"

// DefaultUnit labels a line item quantity when the sender omits it.
const DefaultUnit = "Unit"

type DeliveryUnit string

const (
	DeliveryDays   DeliveryUnit = "Days"
	DeliveryWeeks  DeliveryUnit = "Weeks"
	DeliveryMonths DeliveryUnit = "Months"
)

type AddressType string

const (
	AddressPrimary   AddressType = "Primary"
	AddressAlternate AddressType = "Alternate"
	AddressBilling   AddressType = "Billing"
)

// LineItem is one product row of a quotation.
type LineItem struct {
	ProductName string          `json:"productName"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Selected    bool            `json:"selected"`
}

// LineTotal is never persisted; it is derived from price and quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return shared.LineTotal(li.Price, li.Quantity)
}

// Terms are the commercial conditions attached to a quotation.
type Terms struct {
	DiscountPercent         decimal.Decimal `json:"discount"`
	TaxPercent              decimal.Decimal `json:"applicableTaxes"`
	TaxIncludedInPrice      bool            `json:"taxesIncluded"`
	ShippingCharge          decimal.Decimal `json:"shippingCharges"`
	ShippingIncludedInPrice bool            `json:"shippingIncluded"`
	DeliveryPeriod          int64           `json:"deliveryPeriod"`
	DeliveryUnit            DeliveryUnit    `json:"deliveryUnit"`
	PaymentTerms            string          `json:"paymentTerms"`
	AdditionalInformation   string          `json:"additionalInformation"`
}

// PartyVerification is the issuer contact block printed under "From:".
type PartyVerification struct {
	PrimaryEmail           string      `json:"primaryEmail"`
	AlternateEmail         string      `json:"alternateEmail"`
	PrimaryPhone           string      `json:"primaryPhone"`
	PrimaryPhoneSelected   bool        `json:"primaryPhoneSelected"`
	AlternatePhone         string      `json:"alternatePhone"`
	AlternatePhoneSelected bool        `json:"alternatePhoneSelected"`
	AltContactPhone        string      `json:"pnsPhone"`
	AltContactSelected     bool        `json:"pnsPhoneSelected"`
	AddressType            AddressType `json:"addressType"`
	AddressLine1           string      `json:"addressLine1"`
	AddressLine2           string      `json:"addressLine2"`
	AddressPhone           string      `json:"addressPhone"`
}

// Totals is the computed breakdown of a quotation.
type Totals struct {
	GrandTotal     decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Shipping       decimal.Decimal
	FinalTotal     decimal.Decimal
}

// StoredTotals is the persisted breakdown. Any field may be absent on
// documents written before totals were recorded.
type StoredTotals struct {
	GrandTotal     decimal.NullDecimal `json:"grandTotal"`
	DiscountAmount decimal.NullDecimal `json:"discountAmount"`
	Subtotal       decimal.NullDecimal `json:"subtotal"`
	TaxAmount      decimal.NullDecimal `json:"taxAmount"`
	Shipping       decimal.NullDecimal `json:"shipping"`
	FinalTotal     decimal.NullDecimal `json:"finalTotal"`
}

// Stored converts computed totals to their persisted form.
func (t Totals) Stored() *StoredTotals {
	return &StoredTotals{
		GrandTotal:     decimal.NewNullDecimal(t.GrandTotal),
		DiscountAmount: decimal.NewNullDecimal(t.DiscountAmount),
		Subtotal:       decimal.NewNullDecimal(t.Subtotal),
		TaxAmount:      decimal.NewNullDecimal(t.TaxAmount),
		Shipping:       decimal.NewNullDecimal(t.Shipping),
		FinalTotal:     decimal.NewNullDecimal(t.FinalTotal),
	}
}

// Document is the quotation persisted on its lead. Exactly one per lead;
// each generation replaces it wholesale.
type Document struct {
	LeadID       string            `json:"leadId"`
	LineItems    []LineItem        `json:"products"`
	Terms        Terms             `json:"terms"`
	Verification PartyVerification `json:"verify"`
	Currency     string            `json:"currency"`
	Totals       *StoredTotals     `json:"totals,omitempty"`
	GeneratedAt  *time.Time        `json:"generatedAt,omitempty"`
}

// CurrencySymbol falls back to DefaultCurrency for documents stored without one.
func (d *Document) CurrencySymbol() string {
	if d.Currency == "" {
		return DefaultCurrency
	}
	return d.Currency
}

// Selected returns the items that participate in totals and the table.
func (d *Document) Selected() []LineItem {
	return selectedItems(d.LineItems)
}

func selectedItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Selected {
			out = append(out, item)
		}
	}
	return out
}

// Recipient is the "To:" party, taken from the request on generation and
// from the lead on regeneration.
type Recipient struct {
	Email  string
	Number string
}
