package persistence

import (
	"context"
	"time"

	"github.com/invledger/backend/internal/domain/partner"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactRepository implements partner.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByKey finds a contact by ICO and modifier
func (r *GormContactRepository) FindByKey(ctx context.Context, key partner.ContactKey) (*partner.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("ico = ? AND modifier = ?", key.ICO, key.Modifier).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByICO lists all branches registered under one ICO
func (r *GormContactRepository) FindByICO(ctx context.Context, ico string) ([]partner.Contact, error) {
	var rows []models.ContactModel
	if err := r.db.WithContext(ctx).Where("ico = ?", ico).Order("modifier ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toContacts(rows), nil
}

// FindAll lists contacts matching the filter
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Contact, error) {
	var rows []models.ContactModel
	query := r.db.WithContext(ctx).Model(&models.ContactModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("ico LIKE ? OR company_name LIKE ? OR city LIKE ?", pattern, pattern, pattern)
	}
	query = paginate(query, filter).
		Order(ValidateSortField(filter.OrderBy, ContactSortFields, "ico") + " " + ValidateSortOrder(filter.OrderDir)).
		Order("modifier ASC")

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toContacts(rows), nil
}

// Create inserts a new contact
func (r *GormContactRepository) Create(ctx context.Context, contact *partner.Contact) error {
	model := models.ContactModelFromDomain(contact)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	contact.CreatedAt = model.CreatedAt
	contact.UpdatedAt = model.UpdatedAt
	return nil
}

// Update overwrites all mutable columns of an existing contact
func (r *GormContactRepository) Update(ctx context.Context, contact *partner.Contact) error {
	contact.UpdatedAt = time.Now().UTC()
	model := models.ContactModelFromDomain(contact)
	// zero-valued key fields are dropped by Model(), so the key is scoped explicitly
	result := r.db.WithContext(ctx).Model(&models.ContactModel{}).
		Where("ico = ? AND modifier = ?", contact.ICO, contact.Modifier).
		Select("*").Omit("ico", "modifier", "created_at").
		Updates(model)
	return requireAffected(result)
}

// Delete removes a contact. Issued invoices keep their counterparty snapshot.
func (r *GormContactRepository) Delete(ctx context.Context, key partner.ContactKey) error {
	result := r.db.WithContext(ctx).
		Where("ico = ? AND modifier = ?", key.ICO, key.Modifier).
		Delete(&models.ContactModel{})
	return requireAffected(result)
}

func toContacts(rows []models.ContactModel) []partner.Contact {
	contacts := make([]partner.Contact, len(rows))
	for i := range rows {
		contacts[i] = *rows[i].ToDomain()
	}
	return contacts
}

var _ partner.ContactRepository = (*GormContactRepository)(nil)
