package trade

import (
	"context"

	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the invoice repositories.
// All repository operations inside Execute belong to one database transaction
// and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a transaction. An error from fn rolls back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories of one transaction
type TransactionalRepositories interface {
	Invoices() trade.InvoiceRepository
	Movements() inventory.StockMovementRepository
	Items() catalog.ItemRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful in unit tests where no real transaction exists.
type NoOpTransactionScope struct {
	invoices  trade.InvoiceRepository
	movements inventory.StockMovementRepository
	items     catalog.ItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	invoices trade.InvoiceRepository,
	movements inventory.StockMovementRepository,
	items catalog.ItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{invoices: invoices, movements: movements, items: items}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Invoices returns the invoice repository
func (s *NoOpTransactionScope) Invoices() trade.InvoiceRepository { return s.invoices }

// Movements returns the movement line repository
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository { return s.movements }

// Items returns the item repository
func (s *NoOpTransactionScope) Items() catalog.ItemRepository { return s.items }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
