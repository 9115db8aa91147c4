// Package money provides currency-safe amounts in integer minor units.
// It wraps go-money for arithmetic and shopspring/decimal for parsing and
// conversion, so no float ever touches a stored amount.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	BRL = "BRL"
	CHF = "CHF"
)

// Money represents a monetary value with currency.
type Money struct {
	m *money.Money
}

// New creates a Money value from minor units (cents) and a currency code.
func New(minor int64, currencyCode string) *Money {
	return &Money{m: money.New(minor, currencyCode)}
}

// Zero returns a zero Money value for the given currency.
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// NewFromDecimal creates Money from a decimal amount in major units.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(EUR)
	}
	minor := amount.Mul(decimal.New(1, int32(currency.Fraction))).Round(0).IntPart()
	return New(minor, currencyCode)
}

// NewFromString parses a textual amount such as "1,234.56", "1.234,56" or
// "-4.50" into Money. Currency symbols and spaces are stripped first.
// europeanFormat selects comma as the decimal separator.
func NewFromString(amount, currencyCode string, europeanFormat bool) (*Money, error) {
	amount = strings.TrimSpace(amount)
	amount = strings.ReplaceAll(amount, " ", "")
	for _, sym := range []string{"$", "€", "£", "R$", "¥"} {
		amount = strings.ReplaceAll(amount, sym, "")
	}

	negative := false
	if strings.HasPrefix(amount, "(") && strings.HasSuffix(amount, ")") {
		negative = true
		amount = strings.Trim(amount, "()")
	}

	if europeanFormat {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.ReplaceAll(amount, ",", ".")
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if negative {
		d = d.Neg()
	}
	return NewFromDecimal(d, currencyCode), nil
}

// Amount returns the value in minor units.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsZero reports whether the amount is zero.
func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Negate returns the negated value.
func (m *Money) Negate() *Money {
	if m == nil || m.m == nil {
		return Zero(EUR)
	}
	return &Money{m: m.m.Negative()}
}

// Add adds two Money values. Returns an error when currencies differ.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}
	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Equals reports whether both values carry the same currency and amount.
// A nil Money equals zero.
func (m *Money) Equals(other *Money) bool {
	if m == nil || m.m == nil {
		return other.IsZero()
	}
	if other == nil || other.m == nil {
		return m.IsZero()
	}
	eq, _ := m.m.Equals(other.m)
	return eq
}

// SameCurrency reports whether both values share a currency.
func (m *Money) SameCurrency(other *Money) bool {
	if m == nil || m.m == nil || other == nil || other.m == nil {
		return false
	}
	return m.m.SameCurrency(other.m)
}

// ToDecimal converts to a decimal amount in major units.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	d := decimal.NewFromInt(m.m.Amount())
	return d.Div(decimal.New(1, int32(m.m.Currency().Fraction)))
}

// Convert converts to a different currency using the given exchange rate.
// Rate is how many units of target currency one unit of source buys.
func (m *Money) Convert(targetCurrency string, rate decimal.Decimal) *Money {
	if m == nil || m.m == nil {
		return Zero(targetCurrency)
	}
	return NewFromDecimal(m.ToDecimal().Mul(rate), targetCurrency)
}

// Display returns a formatted string such as "€1,234.56".
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.m.Display()
}

// String returns the amount as a plain decimal string, e.g. "1234.56".
func (m *Money) String() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.ToDecimal().StringFixed(int32(m.m.Currency().Fraction))
}

// MarshalJSON renders {"amount": minor, "currency": code}.
func (m *Money) MarshalJSON() ([]byte, error) {
	if m == nil || m.m == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(map[string]any{
		"amount":   m.Amount(),
		"currency": m.Currency(),
	})
}

// UnmarshalJSON accepts the MarshalJSON shape.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.m = money.New(v.Amount, v.Currency)
	return nil
}
