package persistence

import (
	"context"
	"testing"

	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormItemRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	item, err := catalog.NewItem("8594001234567", "Mineral water", valueobject.VATRateReduced, "ks")
	require.NoError(t, err)
	item.Category = shared.Some("drinks")
	require.NoError(t, item.SetSalePrice(1, decimal.RequireFromString("12.345678")))
	require.NoError(t, item.SetSalePrice(4, decimal.RequireFromString("9.9")))
	require.NoError(t, repo.Create(ctx, item))
	assert.False(t, item.CreatedAt.IsZero())

	got, err := repo.FindByEAN(ctx, "8594001234567")
	require.NoError(t, err)
	assert.Equal(t, "Mineral water", got.Name)
	assert.Equal(t, valueobject.VATRateReduced, got.VATRate)
	assert.Equal(t, "drinks", got.Category.OrElse(""))
	assert.False(t, got.Note.IsPresent())
	assert.True(t, decimal.RequireFromString("12.345678").Equal(got.SalePrice(1)))
	assert.True(t, decimal.RequireFromString("9.9").Equal(got.SalePrice(4)))
	assert.True(t, got.SalePrice(2).IsZero())

	_, err = repo.FindByEAN(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormItemRepository_DuplicateEAN(t *testing.T) {
	db := newTestDB(t)
	seedItem(t, db, "1", valueobject.VATRateBase)

	dup, err := catalog.NewItem("1", "Other", valueobject.VATRateBase, "")
	require.NoError(t, err)
	err = NewGormItemRepository(db).Create(context.Background(), dup)

	require.ErrorIs(t, err, shared.ErrConstraintViolation)
	assert.True(t, shared.IsConstraintViolation(err, shared.ConstraintUnique))
}

func TestGormItemRepository_CheckConstraint(t *testing.T) {
	db := newTestDB(t)
	item, err := catalog.NewItem("1", "x", valueobject.VATRateBase, "")
	require.NoError(t, err)
	item.VATRate = valueobject.VATRate(7)

	err = NewGormItemRepository(db).Create(context.Background(), item)
	assert.True(t, shared.IsConstraintViolation(err, shared.ConstraintCheck))
}

func TestGormItemRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()
	item := seedItem(t, db, "1", valueobject.VATRateBase)

	require.NoError(t, item.Rename("Renamed"))
	item.Category = shared.Some("food")
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.FindByEAN(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "food", got.Category.OrElse(""))

	// clearing an optional writes NULL
	item.Category = shared.None[string]()
	require.NoError(t, repo.Update(ctx, item))
	got, err = repo.FindByEAN(ctx, "1")
	require.NoError(t, err)
	assert.False(t, got.Category.IsPresent())

	ghost, err := catalog.NewItem("ghost", "x", valueobject.VATRateBase, "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
}

func TestGormItemRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	seedItem(t, db, "free", valueobject.VATRateBase)
	seedItem(t, db, "used", valueobject.VATRateBase)
	inv := seedInvoice(t, db, "FP", "1", 1, day(1))
	seedMovement(t, db, inv.InvoiceKey, "used", "1", "10")

	require.NoError(t, repo.Delete(ctx, "free"))
	assert.ErrorIs(t, repo.Delete(ctx, "free"), shared.ErrNotFound)

	err := repo.Delete(ctx, "used")
	assert.True(t, shared.IsConstraintViolation(err, shared.ConstraintForeignKey), "got %v", err)
	_, err = repo.FindByEAN(ctx, "used")
	assert.NoError(t, err)
}

func TestGormItemRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	for _, ean := range []string{"A1", "A2", "B1"} {
		item, err := catalog.NewItem(ean, "Item "+ean, valueobject.VATRateBase, "")
		require.NoError(t, err)
		if ean[0] == 'A' {
			item.Category = shared.Some("alpha")
		}
		require.NoError(t, repo.Create(ctx, item))
	}

	all, err := repo.FindAll(ctx, catalog.ItemFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A1", all[0].EAN)

	alpha := catalog.ItemFilter{Filter: shared.DefaultFilter(), Category: shared.Some("alpha")}
	got, err := repo.FindAll(ctx, alpha)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	count, err := repo.Count(ctx, alpha)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	search := shared.DefaultFilter()
	search.Search = "B"
	got, err = repo.FindAll(ctx, catalog.ItemFilter{Filter: search})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].EAN)

	page := shared.DefaultFilter()
	page.PageSize = 2
	page.Page = 2
	page.OrderDir = "desc"
	got, err = repo.FindAll(ctx, catalog.ItemFilter{Filter: page})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].EAN)
}
