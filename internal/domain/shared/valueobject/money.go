package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	CZK Currency = "CZK" // Czech Koruna (default)
	EUR Currency = "EUR" // Euro
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = CZK

// CentPlaces is the number of fractional digits used when presenting money
const CentPlaces int32 = 2

// Money is a value object representing monetary amounts.
// The amount is kept exact; rounding happens only through Cents and StringFixed.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyCZK creates Money in the default currency
func NewMoneyCZK(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: CZK}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Cents rounds half away from zero to whole cents
func (m Money) Cents() Money {
	return Money{amount: m.amount.Round(CentPlaces), currency: m.currency}
}

// String returns the exact amount followed by the currency
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

// StringFixed returns the amount rounded to places, without currency
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Format renders the amount rounded to cents using the number conventions of tag,
// e.g. "1 234,50 CZK" for Czech. Digits come from the exact decimal, only the
// separators are taken from the locale.
func (m Money) Format(tag language.Tag) string {
	group, point := separators(tag)

	fixed := m.amount.StringFixed(CentPlaces)
	sign := ""
	if rest, ok := strings.CutPrefix(fixed, "-"); ok {
		sign, fixed = "-", rest
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(r)
	}
	b.WriteString(point)
	b.WriteString(frac)
	b.WriteString(" ")
	b.WriteString(string(m.currency))
	return b.String()
}

// separators reads the grouping and decimal separators of tag off a sample number
func separators(tag language.Tag) (group, point string) {
	sample := message.NewPrinter(tag).Sprint(number.Decimal(1234.5, number.Scale(1)))
	head, tail, ok := strings.Cut(sample, "234")
	if !ok {
		return ",", "."
	}
	group = strings.TrimPrefix(head, "1")
	point = strings.TrimSuffix(tail, "5")
	if point == "" {
		point = "."
	}
	return group, point
}

// MarshalJSON encodes the exact amount as a string to avoid float conversion
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}
