package persistence

import (
	"context"
	"time"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/invledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements trade.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByKey finds an invoice header by prefix and number
func (r *GormInvoiceRepository) FindByKey(ctx context.Context, key trade.InvoiceKey) (*trade.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("prefix = ? AND number = ?", key.Prefix, key.Number).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists invoice headers matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter trade.InvoiceFilter) ([]trade.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if t, ok := filter.Type.Get(); ok {
		query = query.Where("type = ?", int(t))
	}
	if prefix, ok := filter.Prefix.Get(); ok {
		query = query.Where("prefix = ?", prefix)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR company_name LIKE ? OR variable_symbol LIKE ?", pattern, pattern, pattern)
	}
	query = paginate(query, filter.Filter).
		Order(ValidateSortField(filter.OrderBy, InvoiceSortFields, "date_issue") + " " + ValidateSortOrder(filter.OrderDir)).
		Order("prefix ASC").Order("number ASC")

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]trade.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Create inserts a new invoice header
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *trade.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	invoice.CreatedAt = model.CreatedAt
	invoice.UpdatedAt = model.UpdatedAt
	return nil
}

// Update overwrites all mutable header columns
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *trade.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("prefix = ? AND number = ?", invoice.Prefix, invoice.Number).
		Select("*").Omit("prefix", "number", "created_at").
		Updates(model)
	return requireAffected(result)
}

// Delete removes an invoice; its movement lines go with it by cascade
func (r *GormInvoiceRepository) Delete(ctx context.Context, key trade.InvoiceKey) error {
	result := r.db.WithContext(ctx).
		Where("prefix = ? AND number = ?", key.Prefix, key.Number).
		Delete(&models.InvoiceModel{})
	return requireAffected(result)
}

// NumbersByType lists the number column of all invoices of one type
func (r *GormInvoiceRepository) NumbersByType(ctx context.Context, invoiceType trade.InvoiceType, prefix shared.Optional[string]) ([]string, error) {
	var numbers []string
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("type = ?", int(invoiceType))
	if p, ok := prefix.Get(); ok {
		query = query.Where("prefix = ?", p)
	}
	if err := query.Pluck("number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

var _ trade.InvoiceRepository = (*GormInvoiceRepository)(nil)
