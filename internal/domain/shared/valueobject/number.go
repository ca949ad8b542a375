package valueobject

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Bounds on the numbers the dashboard computes with. Decimal arithmetic
// rescales operands to a common exponent, so an extreme exponent such as
// 1e900000000 would allocate a huge integer on the first comparison.
const (
	maxNumberText = 64
	MaxDigits     = 30
	MaxExponent   = 30
)

// InRange reports whether d has at most MaxDigits significant digits and an
// exponent within ±MaxExponent
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > MaxExponent || exp < -MaxExponent {
		return false
	}
	return d.NumDigits() <= MaxDigits
}

// Number is a lenient numeric value as delivered by the backend API.
// The backend sends amounts and quantities either as JSON numbers or as
// numeric strings, and sometimes omits them. Decoding a Number never fails:
// anything that is not a finite number, or lies outside InRange, is kept as
// an invalid Number whose Decimal value is zero.
type Number struct {
	value decimal.Decimal
	valid bool
}

// NumberOf wraps a decimal as a valid Number
func NumberOf(d decimal.Decimal) Number {
	return Number{value: d, valid: true}
}

// NumberFromInt creates a valid Number from an int64
func NumberFromInt(i int64) Number {
	return Number{value: decimal.NewFromInt(i), valid: true}
}

// NumberFromFloat creates a valid Number from a float64
func NumberFromFloat(f float64) Number {
	return Number{value: decimal.NewFromFloat(f), valid: true}
}

// ParseNumber coerces a string into a Number. Surrounding whitespace is
// ignored; empty, non-numeric or out-of-range input yields an invalid Number.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxNumberText {
		return Number{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return Number{}
	}
	return Number{value: d, valid: true}
}

// Decimal returns the coerced value: the parsed number, or zero if invalid
func (n Number) Decimal() decimal.Decimal {
	if !n.valid {
		return decimal.Zero
	}
	return n.value
}

// Valid reports whether the source held a parseable number
func (n Number) Valid() bool {
	return n.valid
}

// IsPositive reports whether the coerced value is > 0
func (n Number) IsPositive() bool {
	return n.Decimal().IsPositive()
}

// IsZero reports whether the coerced value is 0
func (n Number) IsZero() bool {
	return n.Decimal().IsZero()
}

// IntPart returns the integer part of the coerced value
func (n Number) IntPart() int64 {
	return n.Decimal().IntPart()
}

// String returns the coerced value as a string
func (n Number) String() string {
	return n.Decimal().String()
}

// MarshalJSON always emits a plain JSON number (the coerced value)
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal().String()), nil
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}
	// Only bare JSON numbers are accepted; booleans, arrays and objects stay invalid.
	if c := data[0]; c != '-' && (c < '0' || c > '9') {
		return nil
	}
	*n = ParseNumber(string(data))
	return nil
}
