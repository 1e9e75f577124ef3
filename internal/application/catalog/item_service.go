package catalog

import (
	"context"
	"fmt"

	"github.com/invledger/backend/internal/application/validation"
	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ItemService handles item price-list operations
type ItemService struct {
	itemRepo catalog.ItemRepository
	logger   *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{itemRepo: itemRepo, logger: logger.Named("item_service")}
}

// Create creates a new item. A duplicate EAN surfaces as a unique constraint violation.
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	item, err := catalog.NewItem(req.EAN, req.Name, valueobject.VATRate(req.VATRate), req.UnitOfMeasure)
	if err != nil {
		return nil, err
	}
	item.Category = validation.NonEmpty(req.Category)
	item.Note = validation.NonEmpty(req.Note)
	if err := applySalePrices(item, req.SalePrices); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		s.logger.Warn("item create rejected", zap.String("ean", item.EAN), zap.Error(err))
		return nil, fmt.Errorf("create item %s: %w", item.EAN, err)
	}
	s.logger.Debug("item created", zap.String("ean", item.EAN))

	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByEAN returns an item
func (s *ItemService) GetByEAN(ctx context.Context, ean string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByEAN(ctx, ean)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List returns one page of items with the total count
func (s *ItemService) List(ctx context.Context, f ItemListFilter) (shared.Paginated[ItemResponse], error) {
	if err := validation.Struct(f); err != nil {
		return shared.Paginated[ItemResponse]{}, err
	}
	filter := catalog.ItemFilter{Filter: toFilter(f.Search, f.Page, f.PageSize, f.OrderBy, f.OrderDir), Category: f.Category}

	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ItemResponse]{}, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ItemResponse]{}, err
	}
	return shared.NewPaginated(ToItemResponses(items), total, filter.Page, filter.PageSize), nil
}

// Update applies the present fields of req to an existing item
func (s *ItemService) Update(ctx context.Context, ean string, req UpdateItemRequest) (*ItemResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByEAN(ctx, ean)
	if err != nil {
		return nil, err
	}

	if name, ok := req.Name.Get(); ok {
		if err := item.Rename(name); err != nil {
			return nil, err
		}
	}
	if rate, ok := req.VATRate.Get(); ok {
		if err := item.SetVATRate(valueobject.VATRate(rate)); err != nil {
			return nil, err
		}
	}
	if unit, ok := req.UnitOfMeasure.Get(); ok {
		if err := validation.Var("unit_of_measure", unit, "max=20"); err != nil {
			return nil, err
		}
		item.UnitOfMeasure = unit
	}
	if req.Category.IsPresent() {
		item.Category = validation.NonEmpty(req.Category)
	}
	if req.Note.IsPresent() {
		item.Note = validation.NonEmpty(req.Note)
	}
	if err := applySalePrices(item, req.SalePrices); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item %s: %w", ean, err)
	}
	s.logger.Debug("item updated", zap.String("ean", ean))

	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete removes an item. Items referenced by movement lines cannot be deleted.
func (s *ItemService) Delete(ctx context.Context, ean string) error {
	if err := s.itemRepo.Delete(ctx, ean); err != nil {
		s.logger.Warn("item delete rejected", zap.String("ean", ean), zap.Error(err))
		return fmt.Errorf("delete item %s: %w", ean, err)
	}
	s.logger.Debug("item deleted", zap.String("ean", ean))
	return nil
}

func applySalePrices(item *catalog.Item, prices []shared.Optional[string]) error {
	for i, p := range prices {
		field := fmt.Sprintf("sale_price_group%d", i+1)
		price, err := validation.OptionalDecimal(field, p)
		if err != nil {
			return err
		}
		if v, ok := price.Get(); ok {
			if err := item.SetSalePrice(i+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func toFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = search
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.OrderBy = orderBy
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f
}
