package models

import (
	"time"

	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ItemModel is the persistence model for the Item domain entity
type ItemModel struct {
	EAN             string          `gorm:"column:ean;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Category        *string         `gorm:"column:category"`
	VATRate         int             `gorm:"column:vat_rate;not null"`
	UnitOfMeasure   string          `gorm:"column:unit_of_measure;not null"`
	SalePriceGroup1 decimal.Decimal `gorm:"column:sale_price_group1;not null"`
	SalePriceGroup2 decimal.Decimal `gorm:"column:sale_price_group2;not null"`
	SalePriceGroup3 decimal.Decimal `gorm:"column:sale_price_group3;not null"`
	SalePriceGroup4 decimal.Decimal `gorm:"column:sale_price_group4;not null"`
	Note            *string         `gorm:"column:note"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		EAN:           m.EAN,
		Name:          m.Name,
		Category:      shared.FromPtr(m.Category),
		VATRate:       valueobject.VATRate(m.VATRate),
		UnitOfMeasure: m.UnitOfMeasure,
		SalePrices: [catalog.PriceGroupCount]decimal.Decimal{
			m.SalePriceGroup1, m.SalePriceGroup2, m.SalePriceGroup3, m.SalePriceGroup4,
		},
		Note:      shared.FromPtr(m.Note),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.EAN = i.EAN
	m.Name = i.Name
	m.Category = i.Category.Ptr()
	m.VATRate = int(i.VATRate)
	m.UnitOfMeasure = i.UnitOfMeasure
	m.SalePriceGroup1 = i.SalePrices[0]
	m.SalePriceGroup2 = i.SalePrices[1]
	m.SalePriceGroup3 = i.SalePrices[2]
	m.SalePriceGroup4 = i.SalePrices[3]
	m.Note = i.Note.Ptr()
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// ItemModelFromDomain creates a new persistence model from a domain Item
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}
