package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// VATRate is the stored VAT rate class of an item or movement line.
// The class, not the percentage, is persisted so that a change of the
// statutory percentages does not rewrite historical lines.
type VATRate int

const (
	VATRateZero    VATRate = 0 // 0%
	VATRateReduced VATRate = 1 // 12%
	VATRateBase    VATRate = 2 // 21%
)

var vatPercentages = map[VATRate]int64{
	VATRateZero:    0,
	VATRateReduced: 12,
	VATRateBase:    21,
}

// NewVATRate validates a raw rate class
func NewVATRate(v int) (VATRate, error) {
	r := VATRate(v)
	if !r.IsValid() {
		return 0, fmt.Errorf("vat rate must be one of 0, 1, 2, got %d", v)
	}
	return r, nil
}

// IsValid returns true for the three known rate classes
func (r VATRate) IsValid() bool {
	_, ok := vatPercentages[r]
	return ok
}

// Percentage returns the VAT percentage for the class (0, 12 or 21)
func (r VATRate) Percentage() decimal.Decimal {
	return decimal.NewFromInt(vatPercentages[r])
}

// String returns the percentage as text, e.g. "21%"
func (r VATRate) String() string {
	return fmt.Sprintf("%d%%", vatPercentages[r])
}
