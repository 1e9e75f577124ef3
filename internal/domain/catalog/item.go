package catalog

import (
	"strings"
	"time"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PriceGroupCount is the number of sale price columns carried by an item
const PriceGroupCount = 4

// Item represents a stock-keeping unit in the price list.
// The EAN is the primary key and also accepts non-GTIN SKU strings.
type Item struct {
	EAN           string
	Name          string
	Category      shared.Optional[string]
	VATRate       valueobject.VATRate
	UnitOfMeasure string
	SalePrices    [PriceGroupCount]decimal.Decimal
	Note          shared.Optional[string]
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewItem creates a new item with all sale prices set to zero
func NewItem(ean, name string, vatRate valueobject.VATRate, unit string) (*Item, error) {
	ean = strings.TrimSpace(ean)
	if err := validateEAN(ean); err != nil {
		return nil, err
	}
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if !vatRate.IsValid() {
		return nil, shared.NewInvalidInputError("vat_rate", "must be one of 0, 1, 2")
	}
	if len(unit) > 20 {
		return nil, shared.NewInvalidInputError("unit_of_measure", "cannot exceed 20 characters")
	}

	item := &Item{
		EAN:           ean,
		Name:          strings.TrimSpace(name),
		VATRate:       vatRate,
		UnitOfMeasure: unit,
	}
	for i := range item.SalePrices {
		item.SalePrices[i] = decimal.Zero
	}
	return item, nil
}

// SetSalePrice sets the sale price of a price group (1..4)
func (i *Item) SetSalePrice(group int, price decimal.Decimal) error {
	if group < 1 || group > PriceGroupCount {
		return shared.NewInvalidInputError("price_group", "must be between 1 and 4")
	}
	if price.IsNegative() {
		return shared.NewInvalidInputError("sale_price", "cannot be negative")
	}
	i.SalePrices[group-1] = price
	return nil
}

// SalePrice returns the sale price for a price group (1..4).
// Unknown groups fall back to group 1.
func (i *Item) SalePrice(group int) decimal.Decimal {
	if group < 1 || group > PriceGroupCount {
		group = 1
	}
	return i.SalePrices[group-1]
}

// Rename updates the display name
func (i *Item) Rename(name string) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	i.Name = strings.TrimSpace(name)
	return nil
}

// SetVATRate changes the VAT class used for new invoice lines.
// Existing movement lines keep their own snapshot.
func (i *Item) SetVATRate(rate valueobject.VATRate) error {
	if !rate.IsValid() {
		return shared.NewInvalidInputError("vat_rate", "must be one of 0, 1, 2")
	}
	i.VATRate = rate
	return nil
}

func validateEAN(ean string) error {
	if ean == "" {
		return shared.NewInvalidInputError("ean", "cannot be empty")
	}
	if len(ean) > 64 {
		return shared.NewInvalidInputError("ean", "cannot exceed 64 characters")
	}
	return nil
}

func validateItemName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidInputError("name", "cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewInvalidInputError("name", "cannot exceed 255 characters")
	}
	return nil
}
