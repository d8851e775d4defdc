package quotations

import (
	"strings"
	"time"

	"github.com/protorq/protorq/internal/platform/httpx"
	"github.com/protorq/protorq/internal/sales/shared"
)

// GenerateRequest is the body of POST /api/quotation/generate. Numeric
// fields arrive as numbers or strings and are coerced, never rejected.
type GenerateRequest struct {
	LeadID          string            `json:"leadId"`
	Products        []LineItemInput   `json:"products"`
	Terms           TermsInput        `json:"terms"`
	Verify          VerificationInput `json:"verify"`
	Currency        string            `json:"currency"`
	RequesterEmail  string            `json:"requesterEmail"`
	RequesterNumber string            `json:"requesterNumber"`
}

type LineItemInput struct {
	ProductName string `json:"productName"`
	Description string `json:"description"`
	Quantity    any    `json:"quantity"`
	Price       any    `json:"price"`
	Unit        string `json:"unit"`
	Selected    any    `json:"selected"`
}

type TermsInput struct {
	Discount              any    `json:"discount"`
	ApplicableTaxes       any    `json:"applicableTaxes"`
	TaxesIncluded         any    `json:"taxesIncluded"`
	ShippingCharges       any    `json:"shippingCharges"`
	ShippingIncluded      any    `json:"shippingIncluded"`
	DeliveryPeriod        any    `json:"deliveryPeriod"`
	DeliveryUnit          string `json:"deliveryUnit"`
	PaymentTerms          string `json:"paymentTerms"`
	AdditionalInformation string `json:"additionalInformation"`
}

type VerificationInput struct {
	PrimaryEmail           string `json:"primaryEmail"`
	AlternateEmail         string `json:"alternateEmail"`
	PrimaryPhone           string `json:"primaryPhone"`
	PrimaryPhoneSelected   any    `json:"primaryPhoneSelected"`
	AlternatePhone         string `json:"alternatePhone"`
	AlternatePhoneSelected any    `json:"alternatePhoneSelected"`
	PnsPhone               string `json:"pnsPhone"`
	PnsPhoneSelected       any    `json:"pnsPhoneSelected"`
	AddressType            string `json:"addressType"`
	AddressLine1           string `json:"addressLine1"`
	AddressLine2           string `json:"addressLine2"`
	AddressPhone           string `json:"addressPhone"`
}

// SendRequest is the body of POST /api/quotation/send.
type SendRequest struct {
	LeadID         string `json:"leadId" validate:"required"`
	RequesterEmail string `json:"requesterEmail" validate:"required"`
}

// SendResponse confirms a queued delivery.
type SendResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Recipient returns the "To:" party named in the request.
func (r GenerateRequest) Recipient() Recipient {
	return Recipient{
		Email:  strings.TrimSpace(r.RequesterEmail),
		Number: strings.TrimSpace(r.RequesterNumber),
	}
}

// BuildDocument resolves every default and coercion once, keeping only
// selected items. The result carries freshly computed totals.
func (r GenerateRequest) BuildDocument(leadID string, defaultCurrency string, now time.Time) (*Document, error) {
	terms, err := r.Terms.normalize()
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(r.Products))
	for _, in := range r.Products {
		item := in.normalize()
		if !item.Selected {
			continue
		}
		items = append(items, item)
	}

	currency := strings.TrimSpace(r.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	generatedAt := now
	doc := &Document{
		LeadID:       leadID,
		LineItems:    items,
		Terms:        terms,
		Verification: r.Verify.normalize(),
		Currency:     currency,
		GeneratedAt:  &generatedAt,
	}
	doc.Totals = ComputeTotals(doc.LineItems, doc.Terms).Stored()
	return doc, nil
}

func (in LineItemInput) normalize() LineItem {
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	return LineItem{
		ProductName: strings.TrimSpace(in.ProductName),
		Description: strings.TrimSpace(in.Description),
		Quantity:    shared.Quantity(in.Quantity),
		Price:       shared.Amount(in.Price),
		Unit:        unit,
		Selected:    shared.Flag(in.Selected, true),
	}
}

func (in TermsInput) normalize() (Terms, error) {
	unit, err := ParseDeliveryUnit(in.DeliveryUnit)
	if err != nil {
		return Terms{}, err
	}
	return in.withUnit(unit), nil
}

func (in TermsInput) withUnit(unit DeliveryUnit) Terms {
	return Terms{
		DiscountPercent:         shared.Amount(in.Discount),
		TaxPercent:              shared.Amount(in.ApplicableTaxes),
		TaxIncludedInPrice:      shared.Flag(in.TaxesIncluded, false),
		ShippingCharge:          shared.Amount(in.ShippingCharges),
		ShippingIncludedInPrice: shared.Flag(in.ShippingIncluded, false),
		DeliveryPeriod:          shared.Count(in.DeliveryPeriod),
		DeliveryUnit:            unit,
		PaymentTerms:            strings.TrimSpace(in.PaymentTerms),
		AdditionalInformation:   strings.TrimSpace(in.AdditionalInformation),
	}
}

func (in VerificationInput) normalize() PartyVerification {
	return PartyVerification{
		PrimaryEmail:           strings.TrimSpace(in.PrimaryEmail),
		AlternateEmail:         strings.TrimSpace(in.AlternateEmail),
		PrimaryPhone:           strings.TrimSpace(in.PrimaryPhone),
		PrimaryPhoneSelected:   shared.Flag(in.PrimaryPhoneSelected, false),
		AlternatePhone:         strings.TrimSpace(in.AlternatePhone),
		AlternatePhoneSelected: shared.Flag(in.AlternatePhoneSelected, false),
		AltContactPhone:        strings.TrimSpace(in.PnsPhone),
		AltContactSelected:     shared.Flag(in.PnsPhoneSelected, false),
		AddressType:            ParseAddressType(in.AddressType),
		AddressLine1:           strings.TrimSpace(in.AddressLine1),
		AddressLine2:           strings.TrimSpace(in.AddressLine2),
		AddressPhone:           strings.TrimSpace(in.AddressPhone),
	}
}

// ParseDeliveryUnit accepts the enum case-insensitively. Blank means unset.
func ParseDeliveryUnit(raw string) (DeliveryUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "days", "day":
		return DeliveryDays, nil
	case "weeks", "week":
		return DeliveryWeeks, nil
	case "months", "month":
		return DeliveryMonths, nil
	default:
		return "", httpx.Errorf(httpx.ErrValidation, "deliveryUnit must be one of Days, Weeks, Months")
	}
}

// ParseAddressType defaults to Primary for blank or unknown values.
func ParseAddressType(raw string) AddressType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "alternate":
		return AddressAlternate
	case "billing":
		return AddressBilling
	default:
		return AddressPrimary
	}
}
