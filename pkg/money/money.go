package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents an exact monetary amount in a single currency.
// Amounts are decimal to avoid binary floating point drift; Money values
// are immutable and safe to copy.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

var (
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO code")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// New creates a Money value with the given amount and ISO currency code.
func New(amount decimal.Decimal, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MustNew is New for amounts known valid at compile time (tests, constants).
func MustNew(amount string, currency string) Money {
	m, err := New(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns m + other. Fails if the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Fails if the currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(n)), Currency: m.Currency}
}

// Min returns the smaller of m and other, which must share a currency.
func (m Money) Min(other Money) Money {
	if m.Amount.LessThan(other.Amount) {
		return m
	}
	return other
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// GreaterThan reports whether m exceeds other. Currencies must match;
// comparing across currencies is a programming error and panics.
func (m Money) GreaterThan(other Money) bool {
	if m.Currency != other.Currency {
		panic("money: comparing amounts in different currencies")
	}
	return m.Amount.GreaterThan(other.Amount)
}

// LessThan reports whether m is below other. Currencies must match.
func (m Money) LessThan(other Money) bool {
	if m.Currency != other.Currency {
		panic("money: comparing amounts in different currencies")
	}
	return m.Amount.LessThan(other.Amount)
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
