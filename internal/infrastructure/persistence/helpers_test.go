package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/invledger/backend/internal/infrastructure/config"
	"github.com/invledger/backend/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func testDatabaseConfig(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	return &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "ledger.db"),
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		LogLevel:     "silent",
	}
}

// newTestDB opens a migrated SQLite database in a temporary directory
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := testDatabaseConfig(t)

	m, err := migration.NewFromDSN(migration.DialectSQLite, cfg.SQLiteDSN(), nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := NewDatabase(cfg, Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func seedItem(t *testing.T, db *gorm.DB, ean string, rate valueobject.VATRate) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(ean, "Item "+ean, rate, "ks")
	require.NoError(t, err)
	require.NoError(t, NewGormItemRepository(db).Create(context.Background(), item))
	return item
}

func seedInvoice(t *testing.T, db *gorm.DB, prefix, number string, typ trade.InvoiceType, issued time.Time) *trade.Invoice {
	t.Helper()
	inv, err := trade.NewInvoice(prefix, number, typ, issued)
	require.NoError(t, err)
	require.NoError(t, NewGormInvoiceRepository(db).Create(context.Background(), inv))
	return inv
}

func seedMovement(t *testing.T, db *gorm.DB, inv trade.InvoiceKey, ean, amount, price string) *inventory.StockMovement {
	t.Helper()
	m, err := inventory.NewStockMovement(inv, ean,
		decimal.RequireFromString(amount), decimal.RequireFromString(price), valueobject.VATRateBase)
	require.NoError(t, err)
	require.NoError(t, NewGormStockMovementRepository(db).Create(context.Background(), m))
	return m
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}
