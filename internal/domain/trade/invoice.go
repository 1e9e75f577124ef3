package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/invledger/backend/internal/domain/shared"
)

// InvoiceType is the document type of an invoice
type InvoiceType int

const (
	InvoiceTypePurchase           InvoiceType = 1
	InvoiceTypeSale               InvoiceType = 2
	InvoiceTypeProforma           InvoiceType = 3
	InvoiceTypePurchaseCreditNote InvoiceType = 4
	InvoiceTypeSaleCreditNote     InvoiceType = 5
)

// IsValid returns true for types 1..5
func (t InvoiceType) IsValid() bool {
	return t >= InvoiceTypePurchase && t <= InvoiceTypeSaleCreditNote
}

// StockSign returns the direction in which a movement line on an invoice of this
// type moves stock: +1 for purchase-like documents, -1 for sale-like documents
// and 0 for proformas, which never affect stock.
func (t InvoiceType) StockSign() int {
	switch t {
	case InvoiceTypePurchase, InvoiceTypePurchaseCreditNote:
		return 1
	case InvoiceTypeSale, InvoiceTypeSaleCreditNote:
		return -1
	default:
		return 0
	}
}

// CountsForCostBasis reports whether lines on this type take part in the
// cost-basis window. Sales (type 2) are included alongside purchases.
func (t InvoiceType) CountsForCostBasis() bool {
	return t == InvoiceTypePurchase || t == InvoiceTypeSale
}

// String returns a readable name
func (t InvoiceType) String() string {
	switch t {
	case InvoiceTypePurchase:
		return "purchase"
	case InvoiceTypeSale:
		return "sale"
	case InvoiceTypeProforma:
		return "proforma"
	case InvoiceTypePurchaseCreditNote:
		return "purchase_credit_note"
	case InvoiceTypeSaleCreditNote:
		return "sale_credit_note"
	}
	return fmt.Sprintf("invoice_type(%d)", int(t))
}

// PaymentMethod is the optional payment method of an invoice
type PaymentMethod int

const (
	PaymentMethodBankTransfer PaymentMethod = 0
	PaymentMethodCash         PaymentMethod = 1
)

// IsValid returns true for 0 and 1
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodBankTransfer || m == PaymentMethodCash
}

// InvoiceKey identifies an invoice
type InvoiceKey struct {
	Prefix string
	Number string
}

// String returns prefix and number joined, e.g. "FV2024001"
func (k InvoiceKey) String() string {
	return k.Prefix + k.Number
}

// Counterparty is a frozen copy of the contact fields at the time of issue.
// Later edits of the contact do not change issued invoices.
type Counterparty struct {
	ICO         shared.Optional[string]
	Modifier    shared.Optional[int]
	DIC         shared.Optional[string]
	CompanyName shared.Optional[string]
	Street      shared.Optional[string]
	City        shared.Optional[string]
	PostalCode  shared.Optional[string]
	Country     shared.Optional[string]
	Phone       shared.Optional[string]
	Email       shared.Optional[string]
}

// Invoice is the header of a trade document
type Invoice struct {
	InvoiceKey
	Type           InvoiceType
	PaymentMethod  shared.Optional[PaymentMethod]
	DateIssue      time.Time
	DateTax        shared.Optional[time.Time]
	DateDue        shared.Optional[time.Time]
	VariableSymbol shared.Optional[string]
	Note           shared.Optional[string]
	Counterparty   Counterparty
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInvoice creates an invoice header
func NewInvoice(prefix, number string, invoiceType InvoiceType, dateIssue time.Time) (*Invoice, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewInvalidInputError("number", "cannot be empty")
	}
	if len(prefix) > 20 || len(number) > 32 {
		return nil, shared.NewInvalidInputError("number", "prefix or number too long")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewInvalidInputError("type", "must be between 1 and 5")
	}
	if dateIssue.IsZero() {
		return nil, shared.NewInvalidInputError("date_issue", "is required")
	}
	return &Invoice{
		InvoiceKey: InvoiceKey{Prefix: strings.TrimSpace(prefix), Number: number},
		Type:       invoiceType,
		DateIssue:  dateIssue,
	}, nil
}

// SetPaymentMethod sets or clears the payment method
func (i *Invoice) SetPaymentMethod(m shared.Optional[PaymentMethod]) error {
	if v, ok := m.Get(); ok && !v.IsValid() {
		return shared.NewInvalidInputError("payment_method", "must be 0, 1 or empty")
	}
	i.PaymentMethod = m
	return nil
}

// SetDates sets the issue, tax and due dates
func (i *Invoice) SetDates(issue time.Time, tax, due shared.Optional[time.Time]) error {
	if issue.IsZero() {
		return shared.NewInvalidInputError("date_issue", "is required")
	}
	if d, ok := due.Get(); ok && d.Before(issue) {
		return shared.NewInvalidInputError("date_due", "cannot be before date_issue")
	}
	i.DateIssue = issue
	i.DateTax = tax
	i.DateDue = due
	return nil
}

// ChangeType changes the invoice type. hasMovements must report whether any
// movement line exists for the invoice; the type is frozen once it does,
// because the ledger derives stock direction from it.
func (i *Invoice) ChangeType(t InvoiceType, hasMovements bool) error {
	if !t.IsValid() {
		return shared.NewInvalidInputError("type", "must be between 1 and 5")
	}
	if t == i.Type {
		return nil
	}
	if hasMovements {
		return shared.NewDomainError(shared.CodeInvalidState, "invoice type cannot change once movement lines exist")
	}
	i.Type = t
	return nil
}
