package report

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	DefaultCurrencyPrefix = "Rs. "
	DefaultFractionDigits = 2
)

// Formatter renders amounts with a currency prefix, comma thousands and a
// fixed number of fraction digits, e.g. "Rs. 50,000.00".
type Formatter struct {
	fraction int
	money    *money.Formatter
}

// NewFormatter builds a Formatter. A negative fraction falls back to the
// default.
func NewFormatter(prefix string, fraction int) Formatter {
	if fraction < 0 {
		fraction = DefaultFractionDigits
	}
	return Formatter{
		fraction: fraction,
		money:    money.NewFormatter(fraction, ".", ",", prefix, "$1"),
	}
}

// DefaultFormatter formats like the original tracker's "Rs. " amounts.
func DefaultFormatter() Formatter {
	return NewFormatter(DefaultCurrencyPrefix, DefaultFractionDigits)
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Format rounds half away from zero to the configured precision. Amounts of
// any size are accepted.
func (f Formatter) Format(amount decimal.Decimal) string {
	if f.money == nil {
		f = DefaultFormatter()
	}
	minor := amount.Shift(int32(f.fraction)).Round(0)
	if minor.Abs().LessThanOrEqual(maxMinorUnits) {
		return f.money.Format(minor.IntPart())
	}
	return f.formatLarge(minor)
}

// formatLarge lays out minor units beyond the int64 range with the same
// separators and template as the money formatter.
func (f Formatter) formatLarge(minor decimal.Decimal) string {
	m := f.money
	sa := minor.Abs().String()
	if len(sa) <= m.Fraction {
		sa = strings.Repeat("0", m.Fraction-len(sa)+1) + sa
	}
	if m.Thousand != "" {
		for i := len(sa) - m.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + m.Thousand + sa[i:]
		}
	}
	if m.Fraction > 0 {
		sa = sa[:len(sa)-m.Fraction] + m.Decimal + sa[len(sa)-m.Fraction:]
	}
	sa = strings.Replace(m.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", m.Grapheme, 1)
	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}
