package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount with a fixed scale of 2 (cents).
// Every arithmetic operation rounds to 2 decimal places using half-up
// at the point of rounding, so un-rounded intermediates never leak into
// later comparisons.
//
// The zero value is a valid Money of 0.00.
type Money struct {
	d decimal.Decimal
}

// Zero returns a Money of 0.00.
func Zero() Money {
	return Money{}
}

// New parses a Money from its decimal string representation.
func New(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid monetary value %q: %w", s, err)
	}
	return Money{d: round2(d)}, nil
}

// MustNew is New for trusted literals; it panics on a parse error.
func MustNew(s string) Money {
	m, err := New(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromFloat converts a float64 into a Money, rounding to cents.
func FromFloat(f float64) Money {
	return Money{d: round2(decimal.NewFromFloat(f))}
}

// FromDecimal converts an arbitrary decimal into a Money, rounding to cents.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: round2(d)}
}

// round2 rounds to 2 decimal places, half away from zero. All amounts in
// this package are non-negative in practice, so this is half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// Sub returns m - o. The result may be negative.
func (m Money) Sub(o Money) Money {
	return Money{d: m.d.Sub(o.d)}
}

// Div splits m across n equal parts, rounded to cents. n times the result
// may differ from m by up to one cent.
func (m Money) Div(n int64) Money {
	return Money{d: round2(m.d.Div(decimal.NewFromInt(n)))}
}

// ApplyRatio returns round2(m * r) for an exact decimal ratio r.
func (m Money) ApplyRatio(r decimal.Decimal) Money {
	return Money{d: round2(m.d.Mul(r))}
}

// Ratio returns the exact (un-rounded) ratio m / den. A zero denominator
// yields a zero ratio rather than an error: a receipt with no priced items
// allocates nothing to anyone.
func (m Money) Ratio(den Money) decimal.Decimal {
	if den.d.IsZero() {
		return decimal.Zero
	}
	return m.d.Div(den.d)
}

// Cmp compares m and o: -1 if m < o, 0 if equal, +1 if m > o.
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

// Equal reports whether m and o represent the same amount.
func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

// IsZero reports whether m is 0.00.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// Float64 returns the amount as a float64, for display layers only.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// String formats the amount with exactly 2 decimal places.
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// MarshalJSON encodes the amount as a plain JSON number with 2 decimal
// places, e.g. 12.50.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(2)), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid monetary value %s: %w", string(data), err)
	}
	m.d = round2(d)
	return nil
}

// Value implements driver.Valuer for NUMERIC columns.
func (m Money) Value() (driver.Value, error) {
	return m.d.StringFixed(2), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		m.d = decimal.Zero
		return nil
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	case float64:
		m.d = round2(decimal.NewFromFloat(v))
		return nil
	case int64:
		m.d = decimal.NewFromInt(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
}

func (m *Money) scanString(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("cannot scan %q into Money: %w", s, err)
	}
	m.d = round2(d)
	return nil
}
