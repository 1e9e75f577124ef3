package partner

import (
	"strings"
	"time"

	"github.com/invledger/backend/internal/domain/shared"
)

// ContactKey identifies a contact. The modifier disambiguates several
// branches or addresses registered under one ICO.
type ContactKey struct {
	ICO      string
	Modifier int
}

// Address is a postal address
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Contact represents a business partner (customer or supplier)
type Contact struct {
	ContactKey
	DIC         shared.Optional[string]
	CompanyName string
	Address     Address
	Phone       shared.Optional[string]
	Email       shared.Optional[string]
	BankAccount shared.Optional[string]
	PriceGroup  int
	Note        shared.Optional[string]
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewContact creates a contact using price group 1
func NewContact(ico string, modifier int, companyName string) (*Contact, error) {
	ico = strings.TrimSpace(ico)
	if ico == "" {
		return nil, shared.NewInvalidInputError("ico", "cannot be empty")
	}
	if len(ico) > 20 {
		return nil, shared.NewInvalidInputError("ico", "cannot exceed 20 characters")
	}
	if modifier < 0 {
		return nil, shared.NewInvalidInputError("modifier", "cannot be negative")
	}
	if strings.TrimSpace(companyName) == "" {
		return nil, shared.NewInvalidInputError("company_name", "cannot be empty")
	}
	return &Contact{
		ContactKey:  ContactKey{ICO: ico, Modifier: modifier},
		CompanyName: strings.TrimSpace(companyName),
		PriceGroup:  1,
	}, nil
}

// SetPriceGroup selects which item sale price column is the default for this contact
func (c *Contact) SetPriceGroup(group int) error {
	if group < 1 || group > 4 {
		return shared.NewInvalidInputError("price_group", "must be between 1 and 4")
	}
	c.PriceGroup = group
	return nil
}

// Rename changes the company name
func (c *Contact) Rename(companyName string) error {
	if strings.TrimSpace(companyName) == "" {
		return shared.NewInvalidInputError("company_name", "cannot be empty")
	}
	c.CompanyName = strings.TrimSpace(companyName)
	return nil
}
