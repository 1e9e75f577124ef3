package models

import (
	"time"

	"github.com/invledger/backend/internal/domain/partner"
	"github.com/invledger/backend/internal/domain/shared"
)

// ContactModel is the persistence model for the Contact domain entity
type ContactModel struct {
	ICO         string    `gorm:"column:ico;primaryKey"`
	Modifier    int       `gorm:"column:modifier;primaryKey;autoIncrement:false"`
	DIC         *string   `gorm:"column:dic"`
	CompanyName string    `gorm:"column:company_name;not null"`
	Street      string    `gorm:"column:street"`
	City        string    `gorm:"column:city"`
	PostalCode  string    `gorm:"column:postal_code"`
	Country     string    `gorm:"column:country"`
	Phone       *string   `gorm:"column:phone"`
	Email       *string   `gorm:"column:email"`
	BankAccount *string   `gorm:"column:bank_account"`
	PriceGroup  int       `gorm:"column:price_group;not null"`
	Note        *string   `gorm:"column:note"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *partner.Contact {
	return &partner.Contact{
		ContactKey:  partner.ContactKey{ICO: m.ICO, Modifier: m.Modifier},
		DIC:         shared.FromPtr(m.DIC),
		CompanyName: m.CompanyName,
		Address: partner.Address{
			Street:     m.Street,
			City:       m.City,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		Phone:       shared.FromPtr(m.Phone),
		Email:       shared.FromPtr(m.Email),
		BankAccount: shared.FromPtr(m.BankAccount),
		PriceGroup:  m.PriceGroup,
		Note:        shared.FromPtr(m.Note),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Contact
func (m *ContactModel) FromDomain(c *partner.Contact) {
	m.ICO = c.ICO
	m.Modifier = c.Modifier
	m.DIC = c.DIC.Ptr()
	m.CompanyName = c.CompanyName
	m.Street = c.Address.Street
	m.City = c.Address.City
	m.PostalCode = c.Address.PostalCode
	m.Country = c.Address.Country
	m.Phone = c.Phone.Ptr()
	m.Email = c.Email.Ptr()
	m.BankAccount = c.BankAccount.Ptr()
	m.PriceGroup = c.PriceGroup
	m.Note = c.Note.Ptr()
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// ContactModelFromDomain creates a new persistence model from a domain Contact
func ContactModelFromDomain(c *partner.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}
