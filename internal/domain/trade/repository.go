package trade

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared"
)

// InvoiceFilter narrows an invoice listing
type InvoiceFilter struct {
	shared.Filter
	Type   shared.Optional[InvoiceType]
	Prefix shared.Optional[string]
}

// InvoiceRepository defines the interface for invoice header persistence
type InvoiceRepository interface {
	FindByKey(ctx context.Context, key InvoiceKey) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)
	// Create inserts a header; an existing (prefix, number) is a unique violation
	Create(ctx context.Context, invoice *Invoice) error
	// Update returns shared.ErrNotFound when no row was affected
	Update(ctx context.Context, invoice *Invoice) error
	// Delete removes the header and, by cascade, its movement lines.
	// Returns shared.ErrNotFound when no row was affected.
	Delete(ctx context.Context, key InvoiceKey) error
	// NumbersByType lists the number column of all invoices of a type,
	// optionally restricted to one prefix
	NumbersByType(ctx context.Context, invoiceType InvoiceType, prefix shared.Optional[string]) ([]string, error)
}
