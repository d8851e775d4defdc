package quotations

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/protorq/protorq/internal/sales/shared"
)

const (
	documentTitle     = "QUOTATION"
	emptyTableMessage = "No products selected"
	footerNote        = "Note: Above details will be displayed in the quotation"
	includedSuffix    = " (Included in product price)"
	notAvailable      = "N/A"
	descriptionLimit  = 30
	generatedOnLayout = "1/2/2006"
)

// TableHeader lists the itemised table columns in order.
var TableHeader = []string{"Product Name", "Description", "Qty", "Price", "Total"}

// Layout is the ordered, fully formatted content of a quotation. Blocks
// that would be empty are already dropped.
type Layout struct {
	Title       string
	QuotationID string
	From        []string
	To          []string
	Header      []string
	Rows        [][]string
	EmptyRow    string
	Terms       []string
	Totals      []TotalLine
	Footer      []string
}

// TotalLine is one right-aligned entry of the totals block.
type TotalLine struct {
	Text     string
	Emphasis bool
}

// ColumnCount is the colspan of the empty-table row.
func (l Layout) ColumnCount() int { return len(l.Header) }

// BuildLayout lays out doc with the given totals. now is used only when the
// document carries no generation time.
func BuildLayout(doc *Document, totals Totals, to Recipient, now time.Time) Layout {
	currency := doc.CurrencySymbol()

	l := Layout{
		Title:       documentTitle,
		QuotationID: "Quotation ID: " + doc.LeadID,
		From:        fromBlock(doc.Verification),
		To:          toBlock(to),
		Header:      TableHeader,
	}

	for _, item := range doc.Selected() {
		l.Rows = append(l.Rows, []string{
			orNA(item.ProductName),
			truncate(orNA(item.Description), descriptionLimit),
			fmt.Sprintf("%d", item.Quantity),
			shared.FormatMoney(currency, item.Price),
			shared.FormatMoney(currency, item.LineTotal()),
		})
	}
	if len(l.Rows) == 0 {
		l.EmptyRow = emptyTableMessage
	}

	l.Terms = termsBlock(doc.Terms, currency)
	l.Totals = totalsBlock(doc.Terms, totals, currency)

	generated := now
	if doc.GeneratedAt != nil && !doc.GeneratedAt.IsZero() {
		generated = *doc.GeneratedAt
	}
	l.Footer = []string{footerNote, "Generated on: " + generated.Format(generatedOnLayout)}
	return l
}

func fromBlock(v PartyVerification) []string {
	var lines []string
	if v.PrimaryEmail != "" {
		lines = append(lines, "Email: "+v.PrimaryEmail)
	}
	if v.AlternateEmail != "" {
		lines = append(lines, "Alternate Email: "+v.AlternateEmail)
	}

	var phones []string
	if v.PrimaryPhoneSelected && v.PrimaryPhone != "" {
		phones = append(phones, "Primary: "+v.PrimaryPhone)
	}
	if v.AlternatePhoneSelected && v.AlternatePhone != "" {
		phones = append(phones, "Alternate: "+v.AlternatePhone)
	}
	if v.AltContactSelected && v.AltContactPhone != "" {
		phones = append(phones, "PNS: "+v.AltContactPhone)
	}
	if len(phones) > 0 {
		lines = append(lines, "Phone: "+strings.Join(phones, ", "))
	}

	for _, s := range []string{v.AddressLine1, v.AddressLine2, v.AddressPhone} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func toBlock(to Recipient) []string {
	lines := []string{"Email: " + orNA(to.Email)}
	if to.Number != "" {
		lines = append(lines, "Phone: "+to.Number)
	}
	return lines
}

func termsBlock(t Terms, currency string) []string {
	var lines []string
	if t.DiscountPercent.IsPositive() {
		lines = append(lines, "Discount: "+t.DiscountPercent.String()+"%")
	}
	if t.TaxPercent.IsPositive() {
		lines = append(lines, "Applicable Taxes: "+t.TaxPercent.String()+"%"+suffixIf(t.TaxIncludedInPrice))
	}
	if t.ShippingCharge.IsPositive() {
		lines = append(lines, "Shipping Charges: "+shared.FormatMoney(currency, t.ShippingCharge)+suffixIf(t.ShippingIncludedInPrice))
	}
	if t.DeliveryPeriod > 0 && t.DeliveryUnit != "" {
		lines = append(lines, fmt.Sprintf("Delivery Period: %d %s", t.DeliveryPeriod, t.DeliveryUnit))
	}
	if t.PaymentTerms != "" {
		lines = append(lines, "Payment Terms: "+t.PaymentTerms)
	}
	if t.AdditionalInformation != "" {
		lines = append(lines, "Additional Information: "+t.AdditionalInformation)
	}
	return lines
}

func totalsBlock(terms Terms, totals Totals, currency string) []TotalLine {
	lines := []TotalLine{{Text: "Subtotal: " + shared.FormatMoney(currency, totals.GrandTotal)}}
	if totals.DiscountAmount.IsPositive() {
		lines = append(lines, TotalLine{Text: fmt.Sprintf("Discount (%s%%): %s", terms.DiscountPercent, shared.FormatMoney(currency, totals.DiscountAmount))})
	}
	if totals.TaxAmount.IsPositive() {
		lines = append(lines, TotalLine{Text: fmt.Sprintf("Tax (%s%%): %s", terms.TaxPercent, shared.FormatMoney(currency, totals.TaxAmount))})
	}
	if totals.Shipping.IsPositive() && !terms.ShippingIncludedInPrice {
		lines = append(lines, TotalLine{Text: "Shipping: " + shared.FormatMoney(currency, totals.Shipping)})
	}
	lines = append(lines, TotalLine{Text: "Total: " + shared.FormatMoney(currency, totals.FinalTotal), Emphasis: true})
	return lines
}

func suffixIf(included bool) string {
	if included {
		return includedSuffix
	}
	return ""
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
