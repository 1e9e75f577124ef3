package partner

import (
	"time"

	"github.com/invledger/backend/internal/domain/partner"
	"github.com/invledger/backend/internal/domain/shared"
)

// CreateContactRequest represents a request to create a contact
type CreateContactRequest struct {
	ICO         string                  `json:"ico" validate:"required,max=20"`
	Modifier    int                     `json:"modifier" validate:"gte=0"`
	DIC         shared.Optional[string] `json:"dic"`
	CompanyName string                  `json:"company_name" validate:"required,max=255"`
	Street      string                  `json:"street" validate:"max=255"`
	City        string                  `json:"city" validate:"max=100"`
	PostalCode  string                  `json:"postal_code" validate:"max=20"`
	Country     string                  `json:"country" validate:"max=100"`
	Phone       shared.Optional[string] `json:"phone"`
	Email       shared.Optional[string] `json:"email"`
	BankAccount shared.Optional[string] `json:"bank_account"`
	PriceGroup  int                     `json:"price_group" validate:"omitempty,gte=1,lte=4"`
	Note        shared.Optional[string] `json:"note"`
}

// UpdateContactRequest represents a partial contact update. Absent fields are kept;
// a present empty string clears an optional field.
type UpdateContactRequest struct {
	DIC         shared.Optional[string] `json:"dic"`
	CompanyName shared.Optional[string] `json:"company_name"`
	Street      shared.Optional[string] `json:"street"`
	City        shared.Optional[string] `json:"city"`
	PostalCode  shared.Optional[string] `json:"postal_code"`
	Country     shared.Optional[string] `json:"country"`
	Phone       shared.Optional[string] `json:"phone"`
	Email       shared.Optional[string] `json:"email"`
	BankAccount shared.Optional[string] `json:"bank_account"`
	PriceGroup  shared.Optional[int]    `json:"price_group"`
	Note        shared.Optional[string] `json:"note"`
}

// ContactListFilter represents filter options for the contact list
type ContactListFilter struct {
	Search   string `json:"search"`
	Page     int    `json:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" validate:"gte=0,lte=500"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// ContactResponse represents a contact in service responses
type ContactResponse struct {
	ICO         string                  `json:"ico"`
	Modifier    int                     `json:"modifier"`
	DIC         shared.Optional[string] `json:"dic"`
	CompanyName string                  `json:"company_name"`
	Street      string                  `json:"street"`
	City        string                  `json:"city"`
	PostalCode  string                  `json:"postal_code"`
	Country     string                  `json:"country"`
	Phone       shared.Optional[string] `json:"phone"`
	Email       shared.Optional[string] `json:"email"`
	BankAccount shared.Optional[string] `json:"bank_account"`
	PriceGroup  int                     `json:"price_group"`
	Note        shared.Optional[string] `json:"note"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *partner.Contact) ContactResponse {
	return ContactResponse{
		ICO:         c.ICO,
		Modifier:    c.Modifier,
		DIC:         c.DIC,
		CompanyName: c.CompanyName,
		Street:      c.Address.Street,
		City:        c.Address.City,
		PostalCode:  c.Address.PostalCode,
		Country:     c.Address.Country,
		Phone:       c.Phone,
		Email:       c.Email,
		BankAccount: c.BankAccount,
		PriceGroup:  c.PriceGroup,
		Note:        c.Note,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToContactResponses converts a slice of domain Contacts
func ToContactResponses(contacts []partner.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses
}
