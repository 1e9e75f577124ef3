package partner

import (
	"context"

	"github.com/invledger/backend/internal/domain/shared"
)

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	FindByKey(ctx context.Context, key ContactKey) (*Contact, error)
	FindByICO(ctx context.Context, ico string) ([]Contact, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contact, error)
	Create(ctx context.Context, contact *Contact) error
	// Update and Delete return shared.ErrNotFound when no row was affected
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, key ContactKey) error
}
