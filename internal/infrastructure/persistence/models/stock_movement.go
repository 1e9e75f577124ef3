package models

import (
	"time"

	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// StockMovementModel is the persistence model for a movement line
type StockMovementModel struct {
	InvoicePrefix string          `gorm:"column:invoice_prefix;primaryKey"`
	InvoiceNumber string          `gorm:"column:invoice_number;primaryKey"`
	ItemEAN       string          `gorm:"column:item_ean;primaryKey"`
	Amount        decimal.Decimal `gorm:"column:amount;not null"`
	PricePerUnit  decimal.Decimal `gorm:"column:price_per_unit;not null"`
	VATRate       int             `gorm:"column:vat_rate;not null"`
	ResetPoint    bool            `gorm:"column:reset_point;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		MovementKey: inventory.MovementKey{
			Invoice: trade.InvoiceKey{Prefix: m.InvoicePrefix, Number: m.InvoiceNumber},
			ItemEAN: m.ItemEAN,
		},
		Amount:       m.Amount,
		PricePerUnit: m.PricePerUnit,
		VATRate:      valueobject.VATRate(m.VATRate),
		ResetPoint:   m.ResetPoint,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain StockMovement
func (m *StockMovementModel) FromDomain(sm *inventory.StockMovement) {
	m.InvoicePrefix = sm.Invoice.Prefix
	m.InvoiceNumber = sm.Invoice.Number
	m.ItemEAN = sm.ItemEAN
	m.Amount = sm.Amount
	m.PricePerUnit = sm.PricePerUnit
	m.VATRate = int(sm.VATRate)
	m.ResetPoint = sm.ResetPoint
	m.CreatedAt = sm.CreatedAt
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement
func StockMovementModelFromDomain(sm *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{}
	m.FromDomain(sm)
	return m
}

// LedgerRow is one movement joined to its invoice's type and issue date
type LedgerRow struct {
	InvoicePrefix string          `gorm:"column:invoice_prefix"`
	InvoiceNumber string          `gorm:"column:invoice_number"`
	InvoiceType   int             `gorm:"column:invoice_type"`
	DateIssue     time.Time       `gorm:"column:date_issue"`
	ItemEAN       string          `gorm:"column:item_ean"`
	Amount        decimal.Decimal `gorm:"column:amount"`
	PricePerUnit  decimal.Decimal `gorm:"column:price_per_unit"`
	ResetPoint    bool            `gorm:"column:reset_point"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

// ToDomain converts the row to a ledger entry
func (r *LedgerRow) ToDomain() inventory.LedgerEntry {
	return inventory.LedgerEntry{
		Invoice:      trade.InvoiceKey{Prefix: r.InvoicePrefix, Number: r.InvoiceNumber},
		InvoiceType:  trade.InvoiceType(r.InvoiceType),
		DateIssue:    r.DateIssue,
		ItemEAN:      r.ItemEAN,
		Amount:       r.Amount,
		PricePerUnit: r.PricePerUnit,
		ResetPoint:   r.ResetPoint,
		CreatedAt:    r.CreatedAt,
	}
}
