// Package view renders the dashboard pages.
package view

import (
	"fmt"
	"strings"

	"github.com/erp/dashboard/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts and quantities with locale digit grouping
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter creates a formatter for a currency symbol and a BCP 47
// language tag. An unparseable tag falls back to English.
func NewFormatter(symbol, lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Money formats v with the currency symbol and two decimals, e.g. ₦58,000.00.
// A nil pointer or unsupported value renders as "-".
func (f *Formatter) Money(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return "-"
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + f.symbol + f.printer.Sprintf("%v",
		number.Decimal(d.InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Quantity formats v with grouping and at most two decimals, e.g. 1,250 or 5.9
func (f *Formatter) Quantity(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return "-"
	}
	return f.printer.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case valueobject.Number:
		return n.Decimal(), true
	case *valueobject.Number:
		if n == nil {
			return decimal.Zero, false
		}
		return n.Decimal(), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	}
	return decimal.Zero, false
}

// statusClass turns a status label into a CSS class, e.g. "Partially Paid"
// becomes "status-partially-paid"
func statusClass(s fmt.Stringer) string {
	return "status-" + strings.ReplaceAll(strings.ToLower(s.String()), " ", "-")
}
