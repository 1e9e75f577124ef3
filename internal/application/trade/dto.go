package trade

import (
	"time"

	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// LineInput describes one movement line of an invoice.
// VATRate is copied from the item when absent. PricePerUnit may be omitted on
// outgoing documents, in which case the item sale price of the counterparty's
// price group is used. A present ResetPoint overrides the configured policy.
type LineInput struct {
	ItemEAN      string                  `json:"item_ean" validate:"required,max=64"`
	Amount       string                  `json:"amount" validate:"required"`
	PricePerUnit shared.Optional[string] `json:"price_per_unit"`
	VATRate      shared.Optional[int]    `json:"vat_rate"`
	ResetPoint   shared.Optional[bool]   `json:"reset_point"`
}

// ContactRef points at the contact whose data is frozen onto the invoice
type ContactRef struct {
	ICO      string `json:"ico" validate:"required,max=20"`
	Modifier int    `json:"modifier" validate:"gte=0"`
}

// CreateInvoiceRequest represents a request to create an invoice with its lines.
// An absent Number takes the next free number of the prefix series.
type CreateInvoiceRequest struct {
	Prefix         string                     `json:"prefix" validate:"max=20"`
	Number         shared.Optional[string]    `json:"number"`
	Type           int                        `json:"type" validate:"gte=1,lte=5"`
	PaymentMethod  shared.Optional[int]       `json:"payment_method"`
	DateIssue      time.Time                  `json:"date_issue" validate:"required"`
	DateTax        shared.Optional[time.Time] `json:"date_tax"`
	DateDue        shared.Optional[time.Time] `json:"date_due"`
	VariableSymbol shared.Optional[string]    `json:"variable_symbol"`
	Note           shared.Optional[string]    `json:"note"`
	Contact        *ContactRef                `json:"contact"`
	Lines          []LineInput                `json:"lines" validate:"dive"`
}

// UpdateInvoiceHeaderRequest represents a partial header update.
// Absent fields are kept; a present empty string clears VariableSymbol or Note.
type UpdateInvoiceHeaderRequest struct {
	Type               shared.Optional[int]       `json:"type"`
	PaymentMethod      shared.Optional[int]       `json:"payment_method"`
	ClearPaymentMethod bool                       `json:"clear_payment_method"`
	DateIssue          shared.Optional[time.Time] `json:"date_issue"`
	DateTax            shared.Optional[time.Time] `json:"date_tax"`
	DateDue            shared.Optional[time.Time] `json:"date_due"`
	VariableSymbol     shared.Optional[string]    `json:"variable_symbol"`
	Note               shared.Optional[string]    `json:"note"`
}

// UpdateLineRequest changes an existing movement line
type UpdateLineRequest struct {
	Amount       shared.Optional[string] `json:"amount"`
	PricePerUnit shared.Optional[string] `json:"price_per_unit"`
	ResetPoint   shared.Optional[bool]   `json:"reset_point"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Type     shared.Optional[int]    `json:"type"`
	Prefix   shared.Optional[string] `json:"prefix"`
	Search   string                  `json:"search"`
	Page     int                     `json:"page" validate:"gte=0"`
	PageSize int                     `json:"page_size" validate:"gte=0,lte=500"`
	OrderBy  string                  `json:"order_by"`
	OrderDir string                  `json:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// CounterpartyResponse is the frozen counterparty of an invoice
type CounterpartyResponse struct {
	ICO         shared.Optional[string] `json:"ico"`
	Modifier    shared.Optional[int]    `json:"modifier"`
	DIC         shared.Optional[string] `json:"dic"`
	CompanyName shared.Optional[string] `json:"company_name"`
	Street      shared.Optional[string] `json:"street"`
	City        shared.Optional[string] `json:"city"`
	PostalCode  shared.Optional[string] `json:"postal_code"`
	Country     shared.Optional[string] `json:"country"`
	Phone       shared.Optional[string] `json:"phone"`
	Email       shared.Optional[string] `json:"email"`
}

// InvoiceResponse represents an invoice header, optionally with lines and totals
type InvoiceResponse struct {
	Prefix         string                     `json:"prefix"`
	Number         string                     `json:"number"`
	Type           int                        `json:"type"`
	TypeName       string                     `json:"type_name"`
	PaymentMethod  shared.Optional[int]       `json:"payment_method"`
	DateIssue      time.Time                  `json:"date_issue"`
	DateTax        shared.Optional[time.Time] `json:"date_tax"`
	DateDue        shared.Optional[time.Time] `json:"date_due"`
	VariableSymbol shared.Optional[string]    `json:"variable_symbol"`
	Note           shared.Optional[string]    `json:"note"`
	Counterparty   CounterpartyResponse       `json:"counterparty"`
	Lines          []LineResponse             `json:"lines,omitempty"`
	Totals         *TotalsResponse            `json:"totals,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// LineResponse represents one movement line
type LineResponse struct {
	ItemEAN      string          `json:"item_ean"`
	Amount       decimal.Decimal `json:"amount"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	VATRate      int             `json:"vat_rate"`
	ResetPoint   bool            `json:"reset_point"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RateTotalsResponse aggregates the lines of one VAT rate
type RateTotalsResponse struct {
	VATRate      int             `json:"vat_rate"`
	Base         decimal.Decimal `json:"base"`
	VAT          decimal.Decimal `json:"vat"`
	TotalWithVAT decimal.Decimal `json:"total_with_vat"`
}

// TotalsResponse holds exact invoice totals plus their cent-rounded display values
type TotalsResponse struct {
	TotalWithoutVAT decimal.Decimal      `json:"total_without_vat"`
	TotalVAT        decimal.Decimal      `json:"total_vat"`
	TotalWithVAT    decimal.Decimal      `json:"total_with_vat"`
	ByRate          []RateTotalsResponse `json:"by_rate"`
	Display         trade.DisplayTotals  `json:"display"`
	Formatted       string               `json:"formatted"`
}

// ToInvoiceResponse converts a domain Invoice header to InvoiceResponse
func ToInvoiceResponse(inv *trade.Invoice) InvoiceResponse {
	pm := shared.None[int]()
	if m, ok := inv.PaymentMethod.Get(); ok {
		pm = shared.Some(int(m))
	}
	cp := inv.Counterparty
	return InvoiceResponse{
		Prefix:         inv.Prefix,
		Number:         inv.Number,
		Type:           int(inv.Type),
		TypeName:       inv.Type.String(),
		PaymentMethod:  pm,
		DateIssue:      inv.DateIssue,
		DateTax:        inv.DateTax,
		DateDue:        inv.DateDue,
		VariableSymbol: inv.VariableSymbol,
		Note:           inv.Note,
		Counterparty: CounterpartyResponse{
			ICO:         cp.ICO,
			Modifier:    cp.Modifier,
			DIC:         cp.DIC,
			CompanyName: cp.CompanyName,
			Street:      cp.Street,
			City:        cp.City,
			PostalCode:  cp.PostalCode,
			Country:     cp.Country,
			Phone:       cp.Phone,
			Email:       cp.Email,
		},
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

// ToLineResponse converts a domain StockMovement to LineResponse
func ToLineResponse(m *inventory.StockMovement) LineResponse {
	return LineResponse{
		ItemEAN:      m.ItemEAN,
		Amount:       m.Amount,
		PricePerUnit: m.PricePerUnit,
		VATRate:      int(m.VATRate),
		ResetPoint:   m.ResetPoint,
		CreatedAt:    m.CreatedAt,
	}
}

// ToLineResponses converts a slice of domain StockMovements
func ToLineResponses(movements []inventory.StockMovement) []LineResponse {
	responses := make([]LineResponse, len(movements))
	for i := range movements {
		responses[i] = ToLineResponse(&movements[i])
	}
	return responses
}
