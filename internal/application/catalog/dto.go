package catalog

import (
	"time"

	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create a new item.
// SalePrices holds up to four decimal strings, index 0 being price group 1;
// absent entries default to zero.
type CreateItemRequest struct {
	EAN           string                    `json:"ean" validate:"required,max=64"`
	Name          string                    `json:"name" validate:"required,max=255"`
	Category      shared.Optional[string]   `json:"category"`
	VATRate       int                       `json:"vat_rate" validate:"oneof=0 1 2"`
	UnitOfMeasure string                    `json:"unit_of_measure" validate:"max=20"`
	SalePrices    []shared.Optional[string] `json:"sale_prices" validate:"max=4"`
	Note          shared.Optional[string]   `json:"note"`
}

// UpdateItemRequest represents a partial item update. Absent fields are kept.
// A present empty string clears Category or Note.
type UpdateItemRequest struct {
	Name          shared.Optional[string]   `json:"name"`
	Category      shared.Optional[string]   `json:"category"`
	VATRate       shared.Optional[int]      `json:"vat_rate"`
	UnitOfMeasure shared.Optional[string]   `json:"unit_of_measure"`
	SalePrices    []shared.Optional[string] `json:"sale_prices" validate:"max=4"`
	Note          shared.Optional[string]   `json:"note"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search   string                  `json:"search"`
	Category shared.Optional[string] `json:"category"`
	Page     int                     `json:"page" validate:"gte=0"`
	PageSize int                     `json:"page_size" validate:"gte=0,lte=500"`
	OrderBy  string                  `json:"order_by"`
	OrderDir string                  `json:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// ItemResponse represents an item in service responses
type ItemResponse struct {
	EAN           string                  `json:"ean"`
	Name          string                  `json:"name"`
	Category      shared.Optional[string] `json:"category"`
	VATRate       int                     `json:"vat_rate"`
	UnitOfMeasure string                  `json:"unit_of_measure"`
	SalePrices    []decimal.Decimal       `json:"sale_prices"`
	Note          shared.Optional[string] `json:"note"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(i *catalog.Item) ItemResponse {
	prices := make([]decimal.Decimal, len(i.SalePrices))
	copy(prices, i.SalePrices[:])
	return ItemResponse{
		EAN:           i.EAN,
		Name:          i.Name,
		Category:      i.Category,
		VATRate:       int(i.VATRate),
		UnitOfMeasure: i.UnitOfMeasure,
		SalePrices:    prices,
		Note:          i.Note,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain Items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}
