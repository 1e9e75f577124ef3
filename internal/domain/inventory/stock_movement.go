package inventory

import (
	"strings"
	"time"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// MovementKey identifies a movement line: at most one line per item per invoice
type MovementKey struct {
	Invoice trade.InvoiceKey
	ItemEAN string
}

// String returns the key as "<prefix><number>/<ean>"
func (k MovementKey) String() string {
	return k.Invoice.String() + "/" + k.ItemEAN
}

// StockMovement is one item line on an invoice.
// Amount is the stored magnitude; the stock direction comes from the invoice type.
// VATRate is copied from the item when the line is added.
type StockMovement struct {
	MovementKey
	Amount       decimal.Decimal
	PricePerUnit decimal.Decimal
	VATRate      valueobject.VATRate
	ResetPoint   bool
	CreatedAt    time.Time
}

// NewStockMovement creates a movement line
func NewStockMovement(
	invoice trade.InvoiceKey,
	itemEAN string,
	amount decimal.Decimal,
	pricePerUnit decimal.Decimal,
	vatRate valueobject.VATRate,
) (*StockMovement, error) {
	itemEAN = strings.TrimSpace(itemEAN)
	if itemEAN == "" {
		return nil, shared.NewInvalidInputError("item_ean", "cannot be empty")
	}
	if strings.TrimSpace(invoice.Number) == "" {
		return nil, shared.NewInvalidInputError("invoice_number", "cannot be empty")
	}
	m := &StockMovement{
		MovementKey: MovementKey{Invoice: invoice, ItemEAN: itemEAN},
		Amount:      amount,
	}
	if err := m.SetPrice(pricePerUnit); err != nil {
		return nil, err
	}
	if !vatRate.IsValid() {
		return nil, shared.NewInvalidInputError("vat_rate", "must be 0, 1 or 2")
	}
	m.VATRate = vatRate
	return m, nil
}

// SetPrice sets the unit price, which cannot be negative
func (m *StockMovement) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewInvalidInputError("price_per_unit", "cannot be negative")
	}
	m.PricePerUnit = price
	return nil
}

// MarkResetPoint flags the line as the new cost-basis baseline for its item
func (m *StockMovement) MarkResetPoint() {
	m.ResetPoint = true
}

// InvoiceLine returns the valuation input of this line
func (m *StockMovement) InvoiceLine() trade.InvoiceLine {
	return trade.InvoiceLine{
		ItemEAN:      m.ItemEAN,
		Amount:       m.Amount,
		PricePerUnit: m.PricePerUnit,
		VATRate:      m.VATRate,
	}
}

// InvoiceLines maps movements to valuation inputs, preserving order
func InvoiceLines(movements []StockMovement) []trade.InvoiceLine {
	lines := make([]trade.InvoiceLine, len(movements))
	for i := range movements {
		lines[i] = movements[i].InvoiceLine()
	}
	return lines
}
