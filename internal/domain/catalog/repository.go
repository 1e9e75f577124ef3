package catalog

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared"
)

// ItemFilter narrows an item listing
type ItemFilter struct {
	shared.Filter
	Category shared.Optional[string]
}

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByEAN returns shared.ErrNotFound when the item does not exist
	FindByEAN(ctx context.Context, ean string) (*Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)
	Count(ctx context.Context, filter ItemFilter) (int64, error)
	// Create inserts a new item; a duplicate EAN is a unique constraint violation
	Create(ctx context.Context, item *Item) error
	// Update returns shared.ErrNotFound when no row was affected
	Update(ctx context.Context, item *Item) error
	// Delete returns shared.ErrNotFound when no row was affected and a foreign key
	// violation when movements still reference the item
	Delete(ctx context.Context, ean string) error
}
