package shared

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ToDecimal parses JSON-ish input (numbers, numeric strings) into a decimal.
// ok is false for blanks and anything that does not parse.
func ToDecimal(v any) (d decimal.Decimal, ok bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, false
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return parsed, true
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero, false
		}
		return parsed, true
	case bool:
		return decimal.Zero, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// Amount coerces a price, percentage or charge: unparseable or negative input is 0.
func Amount(v any) decimal.Decimal {
	d, ok := ToDecimal(v)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Quantity coerces an item quantity. Fractions are truncated; anything below 1 becomes 1.
func Quantity(v any) int64 {
	d, ok := ToDecimal(v)
	if !ok {
		return 1
	}
	q := d.IntPart()
	if q < 1 {
		return 1
	}
	return q
}

// Count coerces a non-negative whole number, defaulting to 0.
func Count(v any) int64 {
	d, ok := ToDecimal(v)
	if !ok || d.IsNegative() {
		return 0
	}
	return d.IntPart()
}

// Flag coerces a boolean switch; nil and unparseable input yield def.
func Flag(v any, def bool) bool {
	if v == nil {
		return def
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}
