package persistence

import (
	"context"

	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/invledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

func (r *GormStockMovementRepository) byKey(ctx context.Context, key inventory.MovementKey) *gorm.DB {
	return r.db.WithContext(ctx).Where(
		"invoice_prefix = ? AND invoice_number = ? AND item_ean = ?",
		key.Invoice.Prefix, key.Invoice.Number, key.ItemEAN,
	)
}

// FindByKey finds one movement line
func (r *GormStockMovementRepository) FindByKey(ctx context.Context, key inventory.MovementKey) (*inventory.StockMovement, error) {
	var model models.StockMovementModel
	if err := r.byKey(ctx, key).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByInvoice lists the lines of one invoice in creation order
func (r *GormStockMovementRepository) FindByInvoice(ctx context.Context, invoice trade.InvoiceKey) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("invoice_prefix = ? AND invoice_number = ?", invoice.Prefix, invoice.Number).
		Order("created_at ASC").Order("item_ean ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	movements := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements, nil
}

// Create inserts a movement line
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	model := models.StockMovementModelFromDomain(movement)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	movement.CreatedAt = model.CreatedAt
	return nil
}

// Update changes amount, price, VAT class and reset flag of an existing line
func (r *GormStockMovementRepository) Update(ctx context.Context, movement *inventory.StockMovement) error {
	result := r.byKey(ctx, movement.MovementKey).Model(&models.StockMovementModel{}).Updates(map[string]any{
		"amount":         movement.Amount,
		"price_per_unit": movement.PricePerUnit,
		"vat_rate":       int(movement.VATRate),
		"reset_point":    movement.ResetPoint,
	})
	return requireAffected(result)
}

// Delete removes one movement line
func (r *GormStockMovementRepository) Delete(ctx context.Context, key inventory.MovementKey) error {
	return requireAffected(r.byKey(ctx, key).Delete(&models.StockMovementModel{}))
}

// ExistsForInvoice reports whether the invoice has any line
func (r *GormStockMovementRepository) ExistsForInvoice(ctx context.Context, invoice trade.InvoiceKey) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Where("invoice_prefix = ? AND invoice_number = ?", invoice.Prefix, invoice.Number).
		Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LedgerFor loads every movement of an item joined to its invoice header
func (r *GormStockMovementRepository) LedgerFor(ctx context.Context, itemEAN string) (inventory.Ledger, error) {
	var rows []models.LedgerRow
	err := r.db.WithContext(ctx).
		Table("stock_movements AS m").
		Select("m.invoice_prefix, m.invoice_number, i.type AS invoice_type, i.date_issue, " +
			"m.item_ean, m.amount, m.price_per_unit, m.reset_point, m.created_at").
		Joins("JOIN invoices AS i ON i.prefix = m.invoice_prefix AND i.number = m.invoice_number").
		Where("m.item_ean = ?", itemEAN).
		Order("m.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ledger := make(inventory.Ledger, len(rows))
	for i := range rows {
		ledger[i] = rows[i].ToDomain()
	}
	return ledger, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
