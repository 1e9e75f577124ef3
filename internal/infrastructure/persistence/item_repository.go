package persistence

import (
	"context"
	"time"

	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByEAN finds an item by its EAN
func (r *GormItemRepository) FindByEAN(ctx context.Context, ean string) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).Where("ean = ?", ean).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, error) {
	var rows []models.ItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	query = paginate(query, filter.Filter).
		Order(ValidateSortField(filter.OrderBy, ItemSortFields, "ean") + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Count counts items matching the filter, ignoring pagination
func (r *GormItemRepository) Count(ctx context.Context, filter catalog.ItemFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := models.ItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

// Update overwrites all mutable columns of an existing item
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	item.UpdatedAt = time.Now().UTC()
	model := models.ItemModelFromDomain(item)
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("ean = ?", item.EAN).
		Select("*").Omit("ean", "created_at").
		Updates(model)
	return requireAffected(result)
}

// Delete removes an item. Items referenced by movement lines are protected by
// the foreign key and yield a constraint violation.
func (r *GormItemRepository) Delete(ctx context.Context, ean string) error {
	result := r.db.WithContext(ctx).Where("ean = ?", ean).Delete(&models.ItemModel{})
	return requireAffected(result)
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter catalog.ItemFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("ean LIKE ? OR name LIKE ?", pattern, pattern)
	}
	if category, ok := filter.Category.Get(); ok {
		query = query.Where("category = ?", category)
	}
	return query
}

// paginate applies offset and limit when the filter carries a page size
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)
