package shared

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineTotal is price × quantity, exact.
func LineTotal(price decimal.Decimal, quantity int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}

// PercentOf returns base × percent / 100 without intermediate rounding.
func PercentOf(base, percent decimal.Decimal) decimal.Decimal {
	if percent.IsZero() {
		return decimal.Zero
	}
	return base.Mul(percent).Div(hundred)
}

// FormatMoney renders symbol followed by exactly two fractional digits.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
