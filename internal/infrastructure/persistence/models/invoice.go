package models

import (
	"time"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/trade"
)

// InvoiceModel is the persistence model for the Invoice header
type InvoiceModel struct {
	Prefix         string     `gorm:"column:prefix;primaryKey"`
	Number         string     `gorm:"column:number;primaryKey"`
	Type           int        `gorm:"column:type;not null"`
	PaymentMethod  *int       `gorm:"column:payment_method"`
	DateIssue      time.Time  `gorm:"column:date_issue;not null"`
	DateTax        *time.Time `gorm:"column:date_tax"`
	DateDue        *time.Time `gorm:"column:date_due"`
	VariableSymbol *string    `gorm:"column:variable_symbol"`
	Note           *string    `gorm:"column:note"`

	// counterparty snapshot
	ICO         *string `gorm:"column:ico"`
	Modifier    *int    `gorm:"column:modifier"`
	DIC         *string `gorm:"column:dic"`
	CompanyName *string `gorm:"column:company_name"`
	Street      *string `gorm:"column:street"`
	City        *string `gorm:"column:city"`
	PostalCode  *string `gorm:"column:postal_code"`
	Country     *string `gorm:"column:country"`
	Phone       *string `gorm:"column:phone"`
	Email       *string `gorm:"column:email"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *trade.Invoice {
	inv := &trade.Invoice{
		InvoiceKey:     trade.InvoiceKey{Prefix: m.Prefix, Number: m.Number},
		Type:           trade.InvoiceType(m.Type),
		DateIssue:      m.DateIssue,
		DateTax:        shared.FromPtr(m.DateTax),
		DateDue:        shared.FromPtr(m.DateDue),
		VariableSymbol: shared.FromPtr(m.VariableSymbol),
		Note:           shared.FromPtr(m.Note),
		Counterparty: trade.Counterparty{
			ICO:         shared.FromPtr(m.ICO),
			Modifier:    shared.FromPtr(m.Modifier),
			DIC:         shared.FromPtr(m.DIC),
			CompanyName: shared.FromPtr(m.CompanyName),
			Street:      shared.FromPtr(m.Street),
			City:        shared.FromPtr(m.City),
			PostalCode:  shared.FromPtr(m.PostalCode),
			Country:     shared.FromPtr(m.Country),
			Phone:       shared.FromPtr(m.Phone),
			Email:       shared.FromPtr(m.Email),
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PaymentMethod != nil {
		inv.PaymentMethod = shared.Some(trade.PaymentMethod(*m.PaymentMethod))
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *trade.Invoice) {
	m.Prefix = inv.Prefix
	m.Number = inv.Number
	m.Type = int(inv.Type)
	m.PaymentMethod = nil
	if pm, ok := inv.PaymentMethod.Get(); ok {
		v := int(pm)
		m.PaymentMethod = &v
	}
	m.DateIssue = inv.DateIssue
	m.DateTax = inv.DateTax.Ptr()
	m.DateDue = inv.DateDue.Ptr()
	m.VariableSymbol = inv.VariableSymbol.Ptr()
	m.Note = inv.Note.Ptr()

	cp := inv.Counterparty
	m.ICO = cp.ICO.Ptr()
	m.Modifier = cp.Modifier.Ptr()
	m.DIC = cp.DIC.Ptr()
	m.CompanyName = cp.CompanyName.Ptr()
	m.Street = cp.Street.Ptr()
	m.City = cp.City.Ptr()
	m.PostalCode = cp.PostalCode.Ptr()
	m.Country = cp.Country.Ptr()
	m.Phone = cp.Phone.Ptr()
	m.Email = cp.Email.Ptr()

	m.CreatedAt = inv.CreatedAt
	m.UpdatedAt = inv.UpdatedAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
