package inventory

import (
	"context"

	"github.com/invledger/backend/internal/domain/trade"
)

// StockMovementRepository defines the interface for movement line persistence
type StockMovementRepository interface {
	// FindByKey returns shared.ErrNotFound when the line does not exist
	FindByKey(ctx context.Context, key MovementKey) (*StockMovement, error)
	// FindByInvoice lists the lines of one invoice ordered by creation
	FindByInvoice(ctx context.Context, invoice trade.InvoiceKey) ([]StockMovement, error)
	// Create inserts a line; a second line for the same item on the same invoice
	// is a unique violation
	Create(ctx context.Context, movement *StockMovement) error
	// Update changes amount, price and reset flag of an existing line
	Update(ctx context.Context, movement *StockMovement) error
	// Delete returns shared.ErrNotFound when no row was affected
	Delete(ctx context.Context, key MovementKey) error
	// ExistsForInvoice reports whether the invoice has any line
	ExistsForInvoice(ctx context.Context, invoice trade.InvoiceKey) (bool, error)
	// LedgerFor loads the full history of an item joined to invoice type and issue date
	LedgerFor(ctx context.Context, itemEAN string) (Ledger, error)
}
