package persistence

import (
	"context"

	apptrade "github.com/invledger/backend/internal/application/trade"
	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// A failing statement inside Execute rolls back the whole write.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back; otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides the repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Invoices returns the invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) Invoices() trade.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Movements returns the movement line repository scoped to the current transaction
func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Items returns the item repository scoped to the current transaction
func (r *gormTransactionalRepositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

var (
	_ apptrade.TransactionScope          = (*GormTransactionScope)(nil)
	_ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
