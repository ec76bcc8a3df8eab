package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a currency amount used for display and period conversion
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal amount
func NewMoney(d decimal.Decimal) Money {
	return Money{d}
}

// ParseMoney parses a plain decimal string such as "1234.5"
func ParseMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// Deflate converts a future amount into today's dollars given a fractional
// inflation rate and the number of years elapsed
func (m Money) Deflate(inflation decimal.Decimal, years int) Money {
	factor := decimal.NewFromInt(1)
	base := factor.Add(inflation)
	for i := 0; i < years; i++ {
		factor = factor.Mul(base)
	}
	if factor.IsZero() {
		return Money{decimal.Zero}
	}
	return Money{m.Decimal.Div(factor)}
}

// String returns the amount with two decimal places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as "$1,234.56" (negative as "-$1,234.56")
func (m Money) Format() string {
	return formatGrouped(m.Decimal.StringFixed(2))
}

// FormatWhole renders the amount rounded to whole dollars, e.g. "$1,235"
func (m Money) FormatWhole() string {
	return formatGrouped(m.Decimal.StringFixed(0))
}

func formatGrouped(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}
